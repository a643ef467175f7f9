// AngelaMos | 2026
// handler.go

package rating

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/indiankitchen/kitchen-backend/internal/core"
	"github.com/indiankitchen/kitchen-backend/internal/middleware"
)

type RateRequest struct {
	Rating int `json:"rating"`
}

type RatingResponse struct {
	UserRating    *int     `json:"userRating"`
	AverageRating *float64 `json:"averageRating"`
	ReviewCount   int      `json:"reviewCount"`
}

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts under /recipe/{slug}. Reading works anonymously;
// rating requires a session.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	optionalAuth, authenticator func(http.Handler) http.Handler,
) {
	r.With(optionalAuth).Get("/recipe/{slug}/rate", h.Get)
	r.With(authenticator).Post("/recipe/{slug}/rate", h.Rate)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	summary, err := h.service.Average(r.Context(), slug)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	resp := toResponse(summary)

	if userID := middleware.GetUserID(r.Context()); userID != "" {
		mine, err := h.service.UserRating(r.Context(), userID, slug)
		switch {
		case err == nil:
			resp.UserRating = &mine.Rating
		case !errors.Is(err, core.ErrNotFound):
			core.InternalServerError(w, err)
			return
		}
	}

	core.OK(w, resp)
}

func (h *Handler) Rate(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	userID := middleware.GetUserID(r.Context())

	var req RateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "Invalid rating")
		return
	}

	summary, err := h.service.Rate(r.Context(), userID, slug, req.Rating)
	if err != nil {
		core.Fail(w, err, "rating")
		return
	}

	resp := toResponse(summary)
	resp.UserRating = &req.Rating
	core.OK(w, resp)
}

func toResponse(s Summary) RatingResponse {
	resp := RatingResponse{ReviewCount: s.Count}
	if s.Rated() {
		avg := s.Average
		resp.AverageRating = &avg
	}
	return resp
}
