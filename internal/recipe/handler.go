// AngelaMos | 2026
// handler.go

package recipe

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/indiankitchen/kitchen-backend/internal/core"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the public catalogue. writeLimit guards the
// admin write endpoints in addition to the admin check.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, adminOnly, writeLimit func(http.Handler) http.Handler,
) {
	r.Route("/recipes", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/{slug}", h.Get)
		r.Get("/{slug}/similar", h.Similar)

		r.Group(func(r chi.Router) {
			r.Use(authenticator)
			r.Use(adminOnly)
			r.Use(writeLimit)

			r.Post("/", h.Create)
			r.Put("/{slug}", h.Update)
			r.Delete("/{slug}", h.Delete)
		})
	})

	r.Get("/states/{state}/recipes", h.ByState)
	r.Get("/regions/{region}/recipes", h.ByRegion)
	r.Get("/search", h.Search)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	recipes, err := h.service.List(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, RecipeListResponse{Recipes: recipes})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	rec, err := h.service.Get(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		core.Fail(w, err, "recipe")
		return
	}

	core.OK(w, RecipeResponse{Recipe: rec})
}

func (h *Handler) Similar(w http.ResponseWriter, r *http.Request) {
	recipes, err := h.service.Similar(
		r.Context(),
		chi.URLParam(r, "slug"),
		queryInt(r, "limit"),
	)
	if err != nil {
		core.Fail(w, err, "recipe")
		return
	}

	core.OK(w, RecipeListResponse{Recipes: recipes})
}

func (h *Handler) ByState(w http.ResponseWriter, r *http.Request) {
	recipes, err := h.service.ByState(r.Context(), chi.URLParam(r, "state"))
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, RecipeListResponse{Recipes: recipes})
}

func (h *Handler) ByRegion(w http.ResponseWriter, r *http.Request) {
	recipes, err := h.service.ByRegion(r.Context(), chi.URLParam(r, "region"))
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, RecipeListResponse{Recipes: recipes})
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	matches, err := h.service.Search(
		r.Context(),
		r.URL.Query().Get("q"),
		queryInt(r, "limit"),
	)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, SearchResponse{RecipeMatches: matches})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRecipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	rec, err := h.service.Create(r.Context(), req)
	if err != nil {
		core.Fail(w, err, "recipe slug")
		return
	}

	core.Created(w, RecipeResponse{Recipe: rec})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateRecipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	rec, err := h.service.Update(r.Context(), chi.URLParam(r, "slug"), req)
	if err != nil {
		core.Fail(w, err, "recipe")
		return
	}

	core.OK(w, RecipeResponse{Recipe: rec})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	found, err := h.service.Delete(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		core.InternalServerError(w, err)
		return
	}
	if !found {
		core.NotFound(w, "recipe")
		return
	}

	core.OK(w, map[string]bool{"success": true})
}

func queryInt(r *http.Request, key string) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return 0
	}
	return n
}
