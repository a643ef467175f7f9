// AngelaMos | 2026
// repository.go

package user

import (
	"context"

	"github.com/indiankitchen/kitchen-backend/internal/store"
)

// Repository is the slice of the storage backend the user service needs.
// store.Backend satisfies it.
type Repository interface {
	CreateUser(ctx context.Context, user *store.User) error
	UserByID(ctx context.Context, id string) (*store.User, error)
	UserByEmail(ctx context.Context, email string) (*store.User, error)
	ListUsers(ctx context.Context) ([]store.User, error)
	UpdateUserStatus(ctx context.Context, id, status string) (bool, error)
	UpdateUserRole(ctx context.Context, id, role string) (bool, error)
	UpdateUserPassword(ctx context.Context, id, passwordHash string) (bool, error)
	DeleteUser(ctx context.Context, id string) (bool, error)
}
