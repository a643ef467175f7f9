// AngelaMos | 2026
// google_test.go

package auth

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"errors"
	"testing"
	"time"

	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jws"
	"github.com/lestrrat-go/jwx/v3/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/indiankitchen/kitchen-backend/internal/core"
)

const testClientID = "kitchen-client.apps.googleusercontent.com"

type signer struct {
	key  jwk.Key
	keys jwk.Set
}

func newSigner(t *testing.T) signer {
	t.Helper()

	raw, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	key, err := jwk.Import(raw)
	require.NoError(t, err)
	require.NoError(t, key.Set(jwk.KeyIDKey, "test-key"))
	require.NoError(t, key.Set(jwk.AlgorithmKey, jwa.ES256()))

	pub, err := key.PublicKey()
	require.NoError(t, err)

	set := jwk.NewSet()
	require.NoError(t, set.AddKey(pub))

	return signer{key: key, keys: set}
}

func (s signer) sign(t *testing.T, mutate func(*jwt.Builder) *jwt.Builder) string {
	t.Helper()
	now := time.Now()

	b := jwt.NewBuilder().
		Issuer("https://accounts.google.com").
		Audience([]string{testClientID}).
		Subject("1098765").
		IssuedAt(now).
		Expiration(now.Add(time.Hour)).
		Claim("email", "asha@example.com").
		Claim("email_verified", true).
		Claim("name", "Asha")
	if mutate != nil {
		b = mutate(b)
	}

	tok, err := b.Build()
	require.NoError(t, err)

	hdrs := jws.NewHeaders()
	require.NoError(t, hdrs.Set(jws.KeyIDKey, "test-key"))

	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.ES256(), s.key, jws.WithProtectedHeaders(hdrs)))
	require.NoError(t, err)
	return string(signed)
}

func (s signer) verifier() *GoogleVerifier {
	v := NewGoogleVerifier(testClientID, "")
	v.fetch = func(context.Context, string) (jwk.Set, error) { return s.keys, nil }
	return v
}

func TestGoogleVerifierAcceptsValidToken(t *testing.T) {
	s := newSigner(t)

	ident, err := s.verifier().Verify(context.Background(), s.sign(t, nil))
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", ident.Email)
	assert.Equal(t, "Asha", ident.Name)
	assert.Equal(t, "1098765", ident.Subject)
}

func TestGoogleVerifierRejects(t *testing.T) {
	s := newSigner(t)
	other := newSigner(t)

	tests := []struct {
		name  string
		token string
	}{
		{
			name: "wrong audience",
			token: s.sign(t, func(b *jwt.Builder) *jwt.Builder {
				return b.Audience([]string{"someone-else"})
			}),
		},
		{
			name: "wrong issuer",
			token: s.sign(t, func(b *jwt.Builder) *jwt.Builder {
				return b.Issuer("https://evil.example.com")
			}),
		},
		{
			name: "expired",
			token: s.sign(t, func(b *jwt.Builder) *jwt.Builder {
				return b.Expiration(time.Now().Add(-time.Hour))
			}),
		},
		{
			name: "unverified email",
			token: s.sign(t, func(b *jwt.Builder) *jwt.Builder {
				return b.Claim("email_verified", false)
			}),
		},
		{
			name:  "unknown signing key",
			token: other.sign(t, nil),
		},
		{
			name:  "garbage",
			token: "not-a-token",
		},
	}

	v := s.verifier()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Verify(context.Background(), tt.token)
			require.ErrorIs(t, err, core.ErrUnauthorized)
		})
	}
}

func TestGoogleVerifierAcceptsStringVerifiedClaim(t *testing.T) {
	s := newSigner(t)

	token := s.sign(t, func(b *jwt.Builder) *jwt.Builder {
		return b.Claim("email_verified", "true").Issuer("accounts.google.com")
	})

	_, err := s.verifier().Verify(context.Background(), token)
	require.NoError(t, err)
}

func TestGoogleVerifierCachesKeys(t *testing.T) {
	s := newSigner(t)

	calls := 0
	v := NewGoogleVerifier(testClientID, "")
	v.fetch = func(context.Context, string) (jwk.Set, error) {
		calls++
		return s.keys, nil
	}

	for range 3 {
		_, err := v.Verify(context.Background(), s.sign(t, nil))
		require.NoError(t, err)
	}
	assert.Equal(t, 1, calls)
}

func TestGoogleVerifierFetchFailure(t *testing.T) {
	s := newSigner(t)

	v := NewGoogleVerifier(testClientID, "")
	v.fetch = func(context.Context, string) (jwk.Set, error) {
		return nil, errors.New("dial tcp: connection refused")
	}

	_, err := v.Verify(context.Background(), s.sign(t, nil))
	require.Error(t, err)
	assert.NotErrorIs(t, err, core.ErrUnauthorized)
}
