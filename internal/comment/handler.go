// AngelaMos | 2026
// handler.go

package comment

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/indiankitchen/kitchen-backend/internal/core"
	"github.com/indiankitchen/kitchen-backend/internal/middleware"
)

type CreateCommentRequest struct {
	Content string `json:"content"`
}

type CommentResponse struct {
	Comment *View `json:"comment"`
}

type CommentListResponse struct {
	Comments []View `json:"comments"`
}

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router, authenticator func(http.Handler) http.Handler) {
	r.Get("/recipe/{slug}/comments", h.List)
	r.With(authenticator).Post("/recipe/{slug}/comments", h.Create)
}

func (h *Handler) RegisterAdminRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/admin/comments", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(adminOnly)

		r.Get("/", h.ListAll)
		r.Delete("/{commentID}", h.Delete)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	comments, err := h.service.ForRecipe(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, CommentListResponse{Comments: comments})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "Comment content is required")
		return
	}

	c, err := h.service.Add(
		r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "slug"),
		req.Content,
	)
	if err != nil {
		core.Fail(w, err, "comment")
		return
	}

	core.Created(w, CommentResponse{Comment: c})
}

func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	comments, err := h.service.All(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, CommentListResponse{Comments: comments})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	found, err := h.service.Delete(r.Context(), chi.URLParam(r, "commentID"))
	if err != nil {
		core.InternalServerError(w, err)
		return
	}
	if !found {
		core.NotFound(w, "comment")
		return
	}

	core.OK(w, map[string]bool{"success": true})
}
