// AngelaMos | 2026
// service_test.go

package recipe

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/indiankitchen/kitchen-backend/internal/activity"
	"github.com/indiankitchen/kitchen-backend/internal/core"
	"github.com/indiankitchen/kitchen-backend/internal/middleware"
	"github.com/indiankitchen/kitchen-backend/internal/rating"
	"github.com/indiankitchen/kitchen-backend/internal/store"
	"github.com/indiankitchen/kitchen-backend/internal/store/filestore"
)

type fixture struct {
	svc      *Service
	ratings  *rating.Service
	backend  *filestore.Store
	imageDir string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	dir := t.TempDir()

	b, err := filestore.Open(filepath.Join(dir, "db.json"), filestore.Options{Seed: true})
	require.NoError(t, err)

	imageDir := filepath.Join(dir, "images")
	require.NoError(t, os.MkdirAll(imageDir, 0o750))

	ratings := rating.NewService(b, activity.NewService(b, nil))
	return fixture{
		svc:      NewService(b, ratings, imageDir, nil),
		ratings:  ratings,
		backend:  b,
		imageDir: imageDir,
	}
}

func slugsOf(recipes []store.Recipe) []string {
	out := make([]string, 0, len(recipes))
	for _, r := range recipes {
		out = append(out, r.Slug)
	}
	return out
}

func validCreate(slug string) CreateRecipeRequest {
	return CreateRecipeRequest{
		Title:       "Aloo Paratha",
		Slug:        slug,
		Description: "Whole wheat flatbread stuffed with spiced potato.",
		State:       "Punjab",
		Region:      "North",
		Servings:    4,
		Ingredients: []IngredientRequest{{Item: "Atta", Quantity: "2 cups"}},
		Dietary:     []string{"Vegetarian"},
	}
}

func TestCreateInitializesDerivedFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	r, err := f.svc.Create(ctx, validCreate("aloo-paratha"))
	require.NoError(t, err)
	assert.NotEmpty(t, r.ID)
	assert.Zero(t, r.Rating)
	assert.Zero(t, r.ReviewCount)
	assert.Equal(t, []string{}, r.Instructions)

	got, err := f.svc.Get(ctx, "aloo-paratha")
	require.NoError(t, err)
	assert.Equal(t, r.ID, got.ID)
	assert.Equal(t, "Atta", got.Ingredients[0].Item)
}

func TestCreateRequiresFields(t *testing.T) {
	f := newFixture(t)

	req := validCreate("x")
	req.Title = "   "
	_, err := f.svc.Create(context.Background(), req)
	require.ErrorIs(t, err, core.ErrInvalidInput)
	assert.Contains(t, err.Error(), "title is required")

	req = validCreate("")
	_, err = f.svc.Create(context.Background(), req)
	require.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestCreateDuplicateSlugLeavesOriginal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	before, err := f.svc.Get(ctx, "dal-tadka")
	require.NoError(t, err)

	req := validCreate("dal-tadka")
	_, err = f.svc.Create(ctx, req)
	require.ErrorIs(t, err, core.ErrDuplicateKey)

	after, err := f.svc.Get(ctx, "dal-tadka")
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestUpdateMergesFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	before, err := f.svc.Get(ctx, "dal-tadka")
	require.NoError(t, err)

	title := "Dal Tadka (Dhaba Style)"
	servings := 6
	updated, err := f.svc.Update(ctx, "dal-tadka", UpdateRecipeRequest{
		Title:    &title,
		Servings: &servings,
	})
	require.NoError(t, err)

	assert.Equal(t, title, updated.Title)
	assert.Equal(t, 6, updated.Servings)
	assert.Equal(t, before.ID, updated.ID)
	assert.Equal(t, before.Slug, updated.Slug)
	assert.Equal(t, before.Description, updated.Description)
	assert.Equal(t, before.Ingredients, updated.Ingredients)
}

func TestUpdateIgnoresImmutableFields(t *testing.T) {
	f := newFixture(t)
	h := newRouter(f)

	rec := doJSON(h, http.MethodPut, "/recipes/dal-tadka", "admin",
		`{"id":"hijack","slug":"new-slug","rating":5,"reviewCount":99,"cookTime":"40 mins"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	got, err := f.svc.Get(context.Background(), "dal-tadka")
	require.NoError(t, err)
	assert.NotEqual(t, "hijack", got.ID)
	assert.Equal(t, "dal-tadka", got.Slug)
	assert.Zero(t, got.ReviewCount)
	assert.Equal(t, "40 mins", got.CookTime)
}

func TestUpdateMissingRecipe(t *testing.T) {
	f := newFixture(t)

	title := "Ghost"
	_, err := f.svc.Update(context.Background(), "nope", UpdateRecipeRequest{Title: &title})
	require.ErrorIs(t, err, core.ErrNotFound)
}

func TestRatingOverlay(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.ratings.Rate(ctx, "u1", "masala-dosa", 5)
	require.NoError(t, err)
	_, err = f.ratings.Rate(ctx, "u2", "masala-dosa", 4)
	require.NoError(t, err)

	got, err := f.svc.Get(ctx, "masala-dosa")
	require.NoError(t, err)
	assert.Equal(t, 4.5, got.Rating)
	assert.Equal(t, 2, got.ReviewCount)

	all, err := f.svc.List(ctx)
	require.NoError(t, err)
	for _, r := range all {
		if r.Slug == "masala-dosa" {
			assert.Equal(t, 4.5, r.Rating)
		} else {
			assert.Zero(t, r.ReviewCount, r.Slug)
		}
	}

	stored, err := f.backend.RecipeBySlug(ctx, "masala-dosa")
	require.NoError(t, err)
	assert.Zero(t, stored.ReviewCount)
}

func TestDeleteCascadesAndRemovesImage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	image := filepath.Join(f.imageDir, "rogan-josh.webp")
	require.NoError(t, os.WriteFile(image, []byte("webp"), 0o600))

	now := time.Now().UTC()
	_, err := f.ratings.Rate(ctx, "u1", "rogan-josh", 4)
	require.NoError(t, err)
	_, err = f.backend.ToggleBookmark(ctx, &store.Bookmark{UserID: "u1", RecipeSlug: "rogan-josh", Timestamp: now})
	require.NoError(t, err)
	require.NoError(t, f.backend.CreateComment(ctx, &store.Comment{
		ID: "c1", UserID: "u1", RecipeSlug: "rogan-josh", Content: "spicy", Timestamp: now,
	}))

	found, err := f.svc.Delete(ctx, "rogan-josh")
	require.NoError(t, err)
	assert.True(t, found)

	_, err = os.Stat(image)
	assert.ErrorIs(t, err, os.ErrNotExist)

	counts, err := f.backend.Counts(ctx)
	require.NoError(t, err)
	assert.Zero(t, counts.Ratings)
	assert.Zero(t, counts.Bookmarks)
	assert.Zero(t, counts.Comments)
	assert.EqualValues(t, 5, counts.Recipes)

	found, err = f.svc.Delete(ctx, "rogan-josh")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestDeleteSucceedsWithoutImageFile(t *testing.T) {
	f := newFixture(t)

	found, err := f.svc.Delete(context.Background(), "macher-jhol")
	require.NoError(t, err)
	assert.True(t, found)
}

func TestByStateAndRegion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	punjab, err := f.svc.ByState(ctx, "Punjab")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"dal-tadka", "butter-chicken"}, slugsOf(punjab))

	bengal, err := f.svc.ByState(ctx, "west-bengal")
	require.NoError(t, err)
	assert.Equal(t, []string{"macher-jhol"}, slugsOf(bengal))

	north, err := f.svc.ByRegion(ctx, "north")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"dal-tadka", "butter-chicken", "rogan-josh"}, slugsOf(north))

	none, err := f.svc.ByState(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSearch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	hits, err := f.svc.Search(ctx, "  KASHMIR ", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"rogan-josh"}, slugsOf(hits))

	hits, err = f.svc.Search(ctx, "lentil", 0)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"dal-tadka", "masala-dosa"}, slugsOf(hits))

	hits, err = f.svc.Search(ctx, "a", 2)
	require.NoError(t, err)
	assert.Len(t, hits, 2)

	hits, err = f.svc.Search(ctx, "", 0)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestSimilar(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	similar, err := f.svc.Similar(ctx, "dal-tadka", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"butter-chicken", "masala-dosa", "khaman-dhokla"}, slugsOf(similar))

	_, err = f.svc.Similar(ctx, "missing", 0)
	require.ErrorIs(t, err, core.ErrNotFound)
}

func TestPlaceSlug(t *testing.T) {
	assert.Equal(t, "jammu-and-kashmir", PlaceSlug("Jammu and  Kashmir"))
	assert.Equal(t, "punjab", PlaceSlug("Punjab"))
}

type tokenResolver map[string]*middleware.Identity

func (t tokenResolver) Resolve(_ context.Context, token string) (*middleware.Identity, error) {
	if id, ok := t[token]; ok {
		return id, nil
	}
	return nil, fmt.Errorf("resolve: %w", core.ErrUnauthorized)
}

func passthrough(next http.Handler) http.Handler { return next }

func newRouter(f fixture) http.Handler {
	resolver := tokenResolver{
		"admin": {UserID: "root", Role: store.RoleAdmin},
		"user":  {UserID: "u1", Role: store.RoleUser},
	}

	r := chi.NewRouter()
	NewHandler(f.svc).RegisterRoutes(r,
		middleware.Authenticator(resolver, "session_id"),
		middleware.RequireAdmin,
		passthrough,
	)
	return r
}

func doJSON(h http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRecipeEndpoints(t *testing.T) {
	f := newFixture(t)
	h := newRouter(f)

	rec := doJSON(h, http.MethodGet, "/recipes/", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Data RecipeListResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list.Data.Recipes, 6)

	assert.Equal(t, http.StatusNotFound, doJSON(h, http.MethodGet, "/recipes/nope", "", "").Code)
	assert.Equal(t, http.StatusOK, doJSON(h, http.MethodGet, "/states/punjab/recipes", "", "").Code)

	rec = doJSON(h, http.MethodGet, "/search?q=dosa", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"recipeMatches"`)
	assert.Contains(t, rec.Body.String(), "masala-dosa")

	body, err := json.Marshal(validCreate("aloo-paratha"))
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, doJSON(h, http.MethodPost, "/recipes/", "", string(body)).Code)
	assert.Equal(t, http.StatusForbidden, doJSON(h, http.MethodPost, "/recipes/", "user", string(body)).Code)
	assert.Equal(t, http.StatusCreated, doJSON(h, http.MethodPost, "/recipes/", "admin", string(body)).Code)
	assert.Equal(t, http.StatusConflict, doJSON(h, http.MethodPost, "/recipes/", "admin", string(body)).Code)
	assert.Equal(t, http.StatusBadRequest, doJSON(h, http.MethodPost, "/recipes/", "admin", `{"slug":"x"}`).Code)

	assert.Equal(t, http.StatusOK, doJSON(h, http.MethodDelete, "/recipes/aloo-paratha", "admin", "").Code)
	assert.Equal(t, http.StatusNotFound, doJSON(h, http.MethodDelete, "/recipes/aloo-paratha", "admin", "").Code)
}
