// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/indiankitchen/kitchen-backend/internal/core"
	"github.com/indiankitchen/kitchen-backend/internal/store"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// Create stores a new account with a freshly salted credential. Emails
// are compared exactly as given.
func (s *Service) Create(
	ctx context.Context,
	email, password, name, role string,
) (*store.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("create user: %w: email and password are required", core.ErrInvalidInput)
	}
	if role == "" {
		role = store.RoleUser
	}
	if role != store.RoleUser && role != store.RoleAdmin {
		return nil, fmt.Errorf("create user: %w: invalid role %q", core.ErrInvalidInput, role)
	}

	hash, err := core.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	u := &store.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         strings.TrimSpace(name),
		PasswordHash: hash,
		Role:         role,
		Status:       store.StatusActive,
		CreatedAt:    s.now(),
	}

	if err := s.repo.CreateUser(ctx, u); err != nil {
		return nil, err
	}

	return u, nil
}

func (s *Service) FindByEmail(ctx context.Context, email string) (*store.User, error) {
	return s.repo.UserByEmail(ctx, strings.TrimSpace(email))
}

func (s *Service) FindByID(ctx context.Context, id string) (*store.User, error) {
	return s.repo.UserByID(ctx, id)
}

// ValidatePassword accepts both the salted and the legacy credential
// formats. It never modifies the stored record.
func (s *Service) ValidatePassword(u *store.User, password string) bool {
	ok, err := core.VerifyPassword(password, u.PasswordHash)
	return err == nil && ok
}

func (s *Service) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	found, err := s.repo.UpdateUserPassword(ctx, id, passwordHash)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("update password: %w", core.ErrNotFound)
	}
	return nil
}

func (s *Service) List(ctx context.Context) ([]store.User, error) {
	return s.repo.ListUsers(ctx)
}

func (s *Service) UpdateStatus(ctx context.Context, id, status string) (bool, error) {
	if status != store.StatusActive && status != store.StatusBlocked {
		return false, fmt.Errorf("update status: %w: invalid status %q", core.ErrInvalidInput, status)
	}
	return s.repo.UpdateUserStatus(ctx, id, status)
}

func (s *Service) UpdateRole(ctx context.Context, id, role string) (bool, error) {
	if role != store.RoleUser && role != store.RoleAdmin {
		return false, fmt.Errorf("update role: %w: invalid role %q", core.ErrInvalidInput, role)
	}
	return s.repo.UpdateUserRole(ctx, id, role)
}

// Delete removes the user together with its sessions, ratings,
// bookmarks, activities and comments.
func (s *Service) Delete(ctx context.Context, id string) (bool, error) {
	return s.repo.DeleteUser(ctx, id)
}

func (s *Service) CanDelete(requesterID, targetID string) error {
	if requesterID == targetID {
		return fmt.Errorf("delete user: %w: cannot delete yourself", core.ErrInvalidInput)
	}
	return nil
}

// EnsureAdmin creates the bootstrap administrator when no account with
// that email exists yet. An existing account is left as it is.
func (s *Service) EnsureAdmin(
	ctx context.Context,
	email, password, name string,
) (*store.User, bool, error) {
	existing, err := s.repo.UserByEmail(ctx, email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, core.ErrNotFound) {
		return nil, false, fmt.Errorf("ensure admin: %w", err)
	}

	u, err := s.Create(ctx, email, password, name, store.RoleAdmin)
	if errors.Is(err, core.ErrDuplicateKey) {
		existing, err := s.repo.UserByEmail(ctx, email)
		return existing, false, err
	}
	if err != nil {
		return nil, false, fmt.Errorf("ensure admin: %w", err)
	}
	return u, true, nil
}
