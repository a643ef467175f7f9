// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/indiankitchen/kitchen-backend/internal/activity"
	"github.com/indiankitchen/kitchen-backend/internal/core"
	"github.com/indiankitchen/kitchen-backend/internal/middleware"
	"github.com/indiankitchen/kitchen-backend/internal/session"
	"github.com/indiankitchen/kitchen-backend/internal/store"
	"github.com/indiankitchen/kitchen-backend/internal/user"
)

const defaultGoogleName = "Google User"

var (
	ErrInvalidCredentials = fmt.Errorf("invalid credentials: %w", core.ErrUnauthorized)
	ErrAccountBlocked     = fmt.Errorf("account blocked: %w", core.ErrForbidden)
	ErrEmailExists        = fmt.Errorf("email already exists: %w", core.ErrDuplicateKey)
	ErrGoogleDisabled     = errors.New("google sign-in is not configured")
)

type Service struct {
	users    *user.Service
	sessions *session.Manager
	activity *activity.Service
	google   IdentityVerifier
	logger   *slog.Logger
}

// NewService wires the account flows. google may be nil, which turns
// Google sign-in off.
func NewService(
	users *user.Service,
	sessions *session.Manager,
	activitySvc *activity.Service,
	google IdentityVerifier,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		users:    users,
		sessions: sessions,
		activity: activitySvc,
		google:   google,
		logger:   logger,
	}
}

func (s *Service) Signup(
	ctx context.Context,
	req SignupRequest,
) (*store.User, *store.Session, error) {
	ctx, span := core.StartSpan(ctx, "auth.Signup")
	defer span.End()

	_, err := s.users.FindByEmail(ctx, req.Email)
	switch {
	case err == nil:
		return nil, nil, ErrEmailExists
	case !errors.Is(err, core.ErrNotFound):
		return nil, nil, fmt.Errorf("signup: %w", err)
	}

	u, err := s.users.Create(ctx, req.Email, req.Password, req.Name, store.RoleUser)
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, nil, ErrEmailExists
		}
		core.SetSpanError(ctx, err)
		return nil, nil, fmt.Errorf("signup: %w", err)
	}

	s.activity.Record(ctx, u.ID, store.ActivitySignup, "User signed up", "")

	sess, err := s.sessions.Create(ctx, u.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("signup: %w", err)
	}
	return u, sess, nil
}

// Login checks the credential with the same scrypt cost whether or not
// the account exists. A legacy credential is upgraded after a
// successful check.
func (s *Service) Login(
	ctx context.Context,
	req LoginRequest,
) (*store.User, *store.Session, error) {
	ctx, span := core.StartSpan(ctx, "auth.Login")
	defer span.End()

	u, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			//nolint:errcheck // timing attack prevention - always verify to prevent enumeration
			_, _, _ = core.VerifyPasswordTimingSafe(req.Password, nil)
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("login: %w", err)
	}

	valid, newHash, err := core.VerifyPasswordTimingSafe(req.Password, &u.PasswordHash)
	if err != nil || !valid {
		return nil, nil, ErrInvalidCredentials
	}

	if u.IsBlocked() {
		return nil, nil, ErrAccountBlocked
	}

	if newHash != "" {
		if err := s.users.UpdatePassword(ctx, u.ID, newHash); err != nil {
			s.logger.WarnContext(ctx, "credential upgrade failed",
				"user_id", u.ID,
				"error", err,
			)
		} else {
			u.PasswordHash = newHash
		}
	}

	sess, err := s.sessions.Create(ctx, u.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("login: %w", err)
	}
	return u, sess, nil
}

func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return s.sessions.Delete(ctx, sessionID)
}

// GoogleSync signs in the holder of a verified Google ID token, creating
// the account on first use.
func (s *Service) GoogleSync(
	ctx context.Context,
	idToken string,
) (*store.User, *store.Session, error) {
	if s.google == nil {
		return nil, nil, ErrGoogleDisabled
	}

	ctx, span := core.StartSpan(ctx, "auth.GoogleSync")
	defer span.End()

	ident, err := s.google.Verify(ctx, idToken)
	if err != nil {
		return nil, nil, fmt.Errorf("google sync: %w", err)
	}

	u, err := s.users.FindByEmail(ctx, ident.Email)
	switch {
	case err == nil:
		if u.IsBlocked() {
			return nil, nil, ErrAccountBlocked
		}
	case errors.Is(err, core.ErrNotFound):
		u, err = s.createExternalUser(ctx, ident)
		if err != nil {
			return nil, nil, err
		}
	default:
		return nil, nil, fmt.Errorf("google sync: %w", err)
	}

	sess, err := s.sessions.Create(ctx, u.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("google sync: %w", err)
	}
	return u, sess, nil
}

func (s *Service) createExternalUser(ctx context.Context, ident *ExternalIdentity) (*store.User, error) {
	password, err := core.GenerateSecureToken(16)
	if err != nil {
		return nil, fmt.Errorf("google sync: %w", err)
	}

	name := ident.Name
	if name == "" {
		name = defaultGoogleName
	}

	u, err := s.users.Create(ctx, ident.Email, password, name, store.RoleUser)
	if errors.Is(err, core.ErrDuplicateKey) {
		return s.users.FindByEmail(ctx, ident.Email)
	}
	if err != nil {
		return nil, fmt.Errorf("google sync: %w", err)
	}

	s.activity.Record(ctx, u.ID, store.ActivitySignup, "User signed up with Google", "")
	return u, nil
}

func (s *Service) Me(ctx context.Context, userID string) (*store.User, error) {
	return s.users.FindByID(ctx, userID)
}

// Resolve is the single place a session token becomes an identity.
// Unknown or expired sessions and deleted users are unauthorized;
// blocked users are forbidden.
func (s *Service) Resolve(ctx context.Context, sessionID string) (*middleware.Identity, error) {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, fmt.Errorf("resolve session: %w", core.ErrUnauthorized)
		}
		return nil, fmt.Errorf("resolve session: %w", err)
	}

	u, err := s.users.FindByID(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, fmt.Errorf("resolve session: %w", core.ErrUnauthorized)
		}
		return nil, fmt.Errorf("resolve session: %w", err)
	}

	if u.IsBlocked() {
		return nil, ErrAccountBlocked
	}

	return &middleware.Identity{
		UserID:    u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		SessionID: sess.ID,
	}, nil
}
