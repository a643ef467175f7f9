// AngelaMos | 2026
// dto.go

package auth

import (
	"github.com/indiankitchen/kitchen-backend/internal/user"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,max=255"`
	Password string `json:"password" validate:"required,max=128"`
}

type SignupRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=128"`
	Name     string `json:"name" validate:"max=100"`
}

type GoogleSyncRequest struct {
	IDToken string `json:"idToken" validate:"required"`
}

type AuthResponse struct {
	User user.UserResponse `json:"user"`
}

// MeResponse carries a null user for anonymous callers.
type MeResponse struct {
	User *user.UserResponse `json:"user"`
}

type GoogleSyncResponse struct {
	Success bool              `json:"success"`
	User    user.UserResponse `json:"user"`
}
