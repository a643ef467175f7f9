// AngelaMos | 2026
// handler.go

package bookmark

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/indiankitchen/kitchen-backend/internal/core"
	"github.com/indiankitchen/kitchen-backend/internal/middleware"
	"github.com/indiankitchen/kitchen-backend/internal/store"
)

type StatusResponse struct {
	IsBookmarked bool `json:"isBookmarked"`
}

type SavedRecipesResponse struct {
	Recipes []store.Recipe `json:"recipes"`
}

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	optionalAuth, authenticator func(http.Handler) http.Handler,
) {
	r.With(optionalAuth).Get("/recipe/{slug}/bookmark", h.Status)
	r.With(authenticator).Post("/recipe/{slug}/bookmark", h.Toggle)
	r.With(authenticator).Get("/user/bookmarks", h.Saved)
}

// Status reports false for anonymous visitors instead of rejecting them.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		core.OK(w, StatusResponse{})
		return
	}

	saved, err := h.service.IsBookmarked(r.Context(), userID, chi.URLParam(r, "slug"))
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, StatusResponse{IsBookmarked: saved})
}

func (h *Handler) Toggle(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	saved, err := h.service.Toggle(r.Context(), userID, chi.URLParam(r, "slug"))
	if err != nil {
		core.Fail(w, err, "bookmark")
		return
	}

	core.OK(w, StatusResponse{IsBookmarked: saved})
}

func (h *Handler) Saved(w http.ResponseWriter, r *http.Request) {
	recipes, err := h.service.SavedRecipes(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, SavedRecipesResponse{Recipes: recipes})
}
