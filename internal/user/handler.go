// AngelaMos | 2026
// handler.go

package user

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/indiankitchen/kitchen-backend/internal/core"
	"github.com/indiankitchen/kitchen-backend/internal/middleware"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// RegisterAdminRoutes registers admin-only user management endpoints.
func (h *Handler) RegisterAdminRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/admin/users", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(adminOnly)

		r.Get("/", h.ListUsers)
		r.Patch("/{userID}", h.UpdateUserStatus)
		r.Put("/{userID}/role", h.UpdateUserRole)
		r.Delete("/{userID}", h.DeleteUser)
	})
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.List(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, UserListResponse{Users: ToUserResponseList(users)})
}

// UpdateUserStatus blocks or unblocks an account.
func (h *Handler) UpdateUserStatus(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var req UpdateUserStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, "Invalid status")
		return
	}

	found, err := h.service.UpdateStatus(r.Context(), userID, req.Status)
	if err != nil {
		core.Fail(w, err, "user")
		return
	}
	if !found {
		core.NotFound(w, "user")
		return
	}

	core.OK(w, map[string]bool{"success": true})
}

func (h *Handler) UpdateUserRole(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var req UpdateUserRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	found, err := h.service.UpdateRole(r.Context(), userID, req.Role)
	if err != nil {
		core.Fail(w, err, "user")
		return
	}
	if !found {
		core.NotFound(w, "user")
		return
	}

	core.OK(w, map[string]bool{"success": true})
}

// DeleteUser removes an account and everything it owns. Admins cannot
// delete themselves.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	requesterID := middleware.GetUserID(r.Context())
	targetID := chi.URLParam(r, "userID")

	if err := h.service.CanDelete(requesterID, targetID); err != nil {
		core.Fail(w, err, "user")
		return
	}

	found, err := h.service.Delete(r.Context(), targetID)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}
	if !found {
		core.NotFound(w, "user")
		return
	}

	core.OK(w, map[string]bool{"success": true})
}
