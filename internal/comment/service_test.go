// AngelaMos | 2026
// service_test.go

package comment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
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
	"github.com/indiankitchen/kitchen-backend/internal/store"
	"github.com/indiankitchen/kitchen-backend/internal/store/filestore"
)

func newTestService(t *testing.T) (*Service, *filestore.Store) {
	t.Helper()
	b, err := filestore.Open(filepath.Join(t.TempDir(), "db.json"), filestore.Options{})
	require.NoError(t, err)

	ctx := context.Background()
	users := []store.User{
		{ID: "meera", Email: "meera@example.com", Name: "Meera", Role: store.RoleUser},
		{ID: "ravi", Email: "ravi.k@example.com", Role: store.RoleUser},
	}
	for i := range users {
		require.NoError(t, b.CreateUser(ctx, &users[i]))
	}

	return NewService(b, activity.NewService(b, nil)), b
}

// stepClock advances one second per call so insertion order and
// timestamp order agree.
func stepClock() func() time.Time {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	n := 0
	return func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Second)
	}
}

func TestAddRejectsBlankContent(t *testing.T) {
	svc, b := newTestService(t)
	ctx := context.Background()

	for _, content := range []string{"", "   ", "\n\t"} {
		_, err := svc.Add(ctx, "meera", "dal-tadka", content)
		require.ErrorIs(t, err, core.ErrInvalidInput)
	}

	counts, err := b.Counts(ctx)
	require.NoError(t, err)
	assert.Zero(t, counts.Comments)
}

func TestAddStoresContentVerbatim(t *testing.T) {
	svc, b := newTestService(t)
	ctx := context.Background()

	v, err := svc.Add(ctx, "meera", "dal-tadka", "  Needs more ghee!  ")
	require.NoError(t, err)
	assert.Equal(t, "  Needs more ghee!  ", v.Content)
	assert.Equal(t, "Meera", v.UserName)
	assert.NotEmpty(t, v.ID)

	entries, err := b.RecentActivities(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, store.ActivityComment, entries[0].Type)
}

func TestForRecipeNewestFirstWithAuthors(t *testing.T) {
	svc, _ := newTestService(t)
	svc.now = stepClock()
	ctx := context.Background()

	_, err := svc.Add(ctx, "meera", "dal-tadka", "first")
	require.NoError(t, err)
	_, err = svc.Add(ctx, "ravi", "dal-tadka", "second")
	require.NoError(t, err)
	_, err = svc.Add(ctx, "ghost", "dal-tadka", "third")
	require.NoError(t, err)
	_, err = svc.Add(ctx, "meera", "rogan-josh", "elsewhere")
	require.NoError(t, err)

	views, err := svc.ForRecipe(ctx, "dal-tadka")
	require.NoError(t, err)
	require.Len(t, views, 3)

	assert.Equal(t, "third", views[0].Content)
	assert.Equal(t, AnonymousAuthor, views[0].UserName)
	assert.Equal(t, "second", views[1].Content)
	assert.Equal(t, "ravi.k", views[1].UserName)
	assert.Equal(t, "first", views[2].Content)
	assert.Equal(t, "Meera", views[2].UserName)
	assert.Empty(t, views[2].UserEmail)
}

func TestAllIncludesEmails(t *testing.T) {
	svc, _ := newTestService(t)
	svc.now = stepClock()
	ctx := context.Background()

	_, err := svc.Add(ctx, "meera", "dal-tadka", "one")
	require.NoError(t, err)
	_, err = svc.Add(ctx, "ravi", "rogan-josh", "two")
	require.NoError(t, err)

	views, err := svc.All(ctx)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "ravi.k@example.com", views[0].UserEmail)
	assert.Equal(t, "meera@example.com", views[1].UserEmail)
}

func TestDelete(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	v, err := svc.Add(ctx, "meera", "dal-tadka", "bye")
	require.NoError(t, err)

	found, err := svc.Delete(ctx, v.ID)
	require.NoError(t, err)
	assert.True(t, found)

	found, err = svc.Delete(ctx, v.ID)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, AnonymousAuthor, DisplayName(nil))
	assert.Equal(t, "Asha", DisplayName(&store.User{Name: "Asha", Email: "a@x.io"}))
	assert.Equal(t, "asha", DisplayName(&store.User{Email: "asha@x.io"}))
	assert.Equal(t, AnonymousAuthor, DisplayName(&store.User{}))
}

type tokenResolver map[string]*middleware.Identity

func (t tokenResolver) Resolve(_ context.Context, token string) (*middleware.Identity, error) {
	if id, ok := t[token]; ok {
		return id, nil
	}
	return nil, fmt.Errorf("resolve: %w", core.ErrUnauthorized)
}

func newTestRouter(t *testing.T) (http.Handler, *Service) {
	t.Helper()
	svc, _ := newTestService(t)

	resolver := tokenResolver{
		"meera": {UserID: "meera", Role: store.RoleUser},
		"admin": {UserID: "root", Role: store.RoleAdmin},
	}
	authn := middleware.Authenticator(resolver, "session_id")

	r := chi.NewRouter()
	h := NewHandler(svc)
	h.RegisterRoutes(r, authn)
	h.RegisterAdminRoutes(r, authn, middleware.RequireAdmin)
	return r, svc
}

func do(h http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestCommentEndpoints(t *testing.T) {
	h, _ := newTestRouter(t)

	rec := do(h, http.MethodPost, "/recipe/dal-tadka/comments", "", `{"content":"hi"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(h, http.MethodPost, "/recipe/dal-tadka/comments", "meera", `{"content":"  "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "comment content is required")

	rec = do(h, http.MethodPost, "/recipe/dal-tadka/comments", "meera", `{"content":"Lovely tempering"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		Data CommentResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "Meera", created.Data.Comment.UserName)

	rec = do(h, http.MethodGet, "/recipe/dal-tadka/comments", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var listed struct {
		Data CommentListResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed.Data.Comments, 1)
	assert.Equal(t, "Lovely tempering", listed.Data.Comments[0].Content)
	assert.Empty(t, listed.Data.Comments[0].UserEmail)

	assert.Equal(t, http.StatusForbidden, do(h, http.MethodGet, "/admin/comments/", "meera", "").Code)

	rec = do(h, http.MethodGet, "/admin/comments/", "admin", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "meera@example.com")

	id := created.Data.Comment.ID
	assert.Equal(t, http.StatusOK, do(h, http.MethodDelete, "/admin/comments/"+id, "admin", "").Code)
	assert.Equal(t, http.StatusNotFound, do(h, http.MethodDelete, "/admin/comments/"+id, "admin", "").Code)
}
