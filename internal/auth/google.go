// AngelaMos | 2026
// google.go

package auth

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"

	"github.com/indiankitchen/kitchen-backend/internal/core"
)

const (
	DefaultGoogleJWKSURL = "https://www.googleapis.com/oauth2/v3/certs"
	jwksRefreshInterval  = time.Hour
)

var googleIssuers = []string{"accounts.google.com", "https://accounts.google.com"}

// ExternalIdentity is what a verified third-party sign-in vouches for.
type ExternalIdentity struct {
	Subject string
	Email   string
	Name    string
}

type IdentityVerifier interface {
	Verify(ctx context.Context, idToken string) (*ExternalIdentity, error)
}

type keyFetcher func(ctx context.Context, url string) (jwk.Set, error)

// GoogleVerifier checks Google ID tokens against Google's published
// signing keys. The key set is fetched lazily and refreshed hourly.
type GoogleVerifier struct {
	clientID string
	jwksURL  string
	fetch    keyFetcher
	now      func() time.Time

	mu        sync.Mutex
	keys      jwk.Set
	fetchedAt time.Time
}

func NewGoogleVerifier(clientID, jwksURL string) *GoogleVerifier {
	if jwksURL == "" {
		jwksURL = DefaultGoogleJWKSURL
	}
	return &GoogleVerifier{
		clientID: clientID,
		jwksURL:  jwksURL,
		fetch: func(ctx context.Context, url string) (jwk.Set, error) {
			return jwk.Fetch(ctx, url)
		},
		now: time.Now,
	}
}

func (v *GoogleVerifier) keySet(ctx context.Context) (jwk.Set, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.keys != nil && v.now().Sub(v.fetchedAt) < jwksRefreshInterval {
		return v.keys, nil
	}

	keys, err := v.fetch(ctx, v.jwksURL)
	if err != nil {
		if v.keys != nil {
			return v.keys, nil
		}
		return nil, fmt.Errorf("fetch google keys: %w", err)
	}

	v.keys = keys
	v.fetchedAt = v.now()
	return keys, nil
}

func (v *GoogleVerifier) Verify(ctx context.Context, idToken string) (*ExternalIdentity, error) {
	keys, err := v.keySet(ctx)
	if err != nil {
		return nil, err
	}

	token, err := jwt.Parse(
		[]byte(idToken),
		jwt.WithKeySet(keys),
		jwt.WithValidate(true),
		jwt.WithAudience(v.clientID),
		jwt.WithClock(jwt.ClockFunc(v.now)),
	)
	if err != nil {
		return nil, fmt.Errorf("verify google token: %w", core.ErrUnauthorized)
	}

	issuer, _ := token.Issuer()
	if !slices.Contains(googleIssuers, issuer) {
		return nil, fmt.Errorf("verify google token: unexpected issuer: %w", core.ErrUnauthorized)
	}

	var email string
	if err := token.Get("email", &email); err != nil || email == "" {
		return nil, fmt.Errorf("verify google token: missing email: %w", core.ErrUnauthorized)
	}

	var verified any
	if err := token.Get("email_verified", &verified); err != nil || !isTrue(verified) {
		return nil, fmt.Errorf("verify google token: email not verified: %w", core.ErrUnauthorized)
	}

	var name string
	//nolint:errcheck // name is optional
	_ = token.Get("name", &name)

	subject, _ := token.Subject()

	return &ExternalIdentity{
		Subject: subject,
		Email:   email,
		Name:    strings.TrimSpace(name),
	}, nil
}

// isTrue accepts the boolean claim as well as the "true" string some
// Google tokens carry.
func isTrue(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		return strings.EqualFold(b, "true")
	default:
		return false
	}
}
