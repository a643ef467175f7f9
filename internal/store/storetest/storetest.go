// AngelaMos | 2026
// storetest.go

// Package storetest holds the behaviour every store.Backend must share.
// Each backend's tests call Run with a factory returning an empty backend.
package storetest

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/indiankitchen/kitchen-backend/internal/core"
	"github.com/indiankitchen/kitchen-backend/internal/store"
)

type Factory func(t *testing.T) store.Backend

// base is millisecond aligned so both backends round-trip it exactly.
var base = time.UnixMilli(1767225600000).UTC()

func at(offset time.Duration) time.Time {
	return base.Add(offset)
}

func Run(t *testing.T, newBackend Factory) {
	t.Helper()

	tests := []struct {
		name string
		fn   func(t *testing.T, b store.Backend)
	}{
		{"Users", testUsers},
		{"UserDeleteCascades", testUserDeleteCascades},
		{"Sessions", testSessions},
		{"ExpiredSessions", testExpiredSessions},
		{"RatingUpsert", testRatingUpsert},
		{"RatingSummaries", testRatingSummaries},
		{"BookmarkToggle", testBookmarkToggle},
		{"ConcurrentBookmarkToggles", testConcurrentBookmarkToggles},
		{"Comments", testComments},
		{"Recipes", testRecipes},
		{"RecipeDeleteCascades", testRecipeDeleteCascades},
		{"Activities", testActivities},
		{"ExportImport", testExportImport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBackend(t)
			tt.fn(t, b)
		})
	}
}

func newUser(email string) *store.User {
	return &store.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         "Test User",
		PasswordHash: "salt:hash",
		Role:         store.RoleUser,
		CreatedAt:    base,
	}
}

func newRecipe(slug, state string, dietary ...string) *store.Recipe {
	return &store.Recipe{
		ID:          uuid.NewString(),
		Title:       slug,
		Slug:        slug,
		Description: "test recipe " + slug,
		State:       state,
		Region:      "North",
		Servings:    2,
		Ingredients: []store.Ingredient{{Item: "Salt", Quantity: "1 tsp"}},
		Instructions: []string{
			"Cook it.",
		},
		Dietary: dietary,
	}
}

func testUsers(t *testing.T, b store.Backend) {
	ctx := context.Background()

	u := newUser("cook@example.com")
	require.NoError(t, b.CreateUser(ctx, u))

	err := b.CreateUser(ctx, newUser("cook@example.com"))
	require.ErrorIs(t, err, core.ErrDuplicateKey)

	got, err := b.UserByEmail(ctx, "cook@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, store.StatusActive, got.EffectiveStatus())

	_, err = b.UserByEmail(ctx, "COOK@example.com")
	require.ErrorIs(t, err, core.ErrNotFound)

	_, err = b.UserByID(ctx, "missing")
	require.ErrorIs(t, err, core.ErrNotFound)

	ok, err := b.UpdateUserStatus(ctx, u.ID, store.StatusBlocked)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = b.UpdateUserRole(ctx, u.ID, store.RoleAdmin)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = b.UpdateUserPassword(ctx, u.ID, "new:hash")
	require.NoError(t, err)
	assert.True(t, ok)

	got, err = b.UserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, got.IsBlocked())
	assert.True(t, got.IsAdmin())
	assert.Equal(t, "new:hash", got.PasswordHash)

	ok, err = b.UpdateUserStatus(ctx, "missing", store.StatusBlocked)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, b.CreateUser(ctx, newUser("second@example.com")))
	users, err := b.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func testUserDeleteCascades(t *testing.T, b store.Backend) {
	ctx := context.Background()

	u := newUser("gone@example.com")
	other := newUser("stays@example.com")
	require.NoError(t, b.CreateUser(ctx, u))
	require.NoError(t, b.CreateUser(ctx, other))

	for _, owner := range []*store.User{u, other} {
		require.NoError(t, b.CreateSession(ctx, &store.Session{
			ID: uuid.NewString(), UserID: owner.ID, ExpiresAt: at(time.Hour),
		}))
		require.NoError(t, b.UpsertRating(ctx, &store.Rating{
			ID: uuid.NewString(), UserID: owner.ID, RecipeSlug: "dal-tadka", Rating: 4, Timestamp: base,
		}))
		_, err := b.ToggleBookmark(ctx, &store.Bookmark{
			UserID: owner.ID, RecipeSlug: "dal-tadka", Timestamp: base,
		})
		require.NoError(t, err)
		require.NoError(t, b.CreateComment(ctx, &store.Comment{
			ID: uuid.NewString(), UserID: owner.ID, RecipeSlug: "dal-tadka", Content: "tasty", Timestamp: base,
		}))
		require.NoError(t, b.AppendActivity(ctx, &store.Activity{
			ID: uuid.NewString(), UserID: owner.ID, Type: store.ActivityLogin, Details: "login", Timestamp: base,
		}))
	}

	ok, err := b.DeleteUser(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = b.UserByID(ctx, u.ID)
	require.ErrorIs(t, err, core.ErrNotFound)

	counts, err := b.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, store.Counts{
		Users: 1, Sessions: 1, Ratings: 1, Bookmarks: 1, Comments: 1, Activities: 1,
	}, counts)

	_, err = b.RatingByUser(ctx, u.ID, "dal-tadka")
	require.ErrorIs(t, err, core.ErrNotFound)

	marked, err := b.IsBookmarked(ctx, other.ID, "dal-tadka")
	require.NoError(t, err)
	assert.True(t, marked)

	ok, err = b.DeleteUser(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func testSessions(t *testing.T, b store.Backend) {
	ctx := context.Background()

	sess := &store.Session{ID: uuid.NewString(), UserID: "u1", ExpiresAt: at(time.Hour)}
	require.NoError(t, b.CreateSession(ctx, sess))

	got, err := b.SessionByID(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "u1", got.UserID)
	assert.True(t, sess.ExpiresAt.Equal(got.ExpiresAt))

	ok, err := b.DeleteSession(ctx, sess.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = b.DeleteSession(ctx, sess.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = b.SessionByID(ctx, sess.ID)
	require.ErrorIs(t, err, core.ErrNotFound)
}

func testExpiredSessions(t *testing.T, b store.Backend) {
	ctx := context.Background()

	live := &store.Session{ID: uuid.NewString(), UserID: "u1", ExpiresAt: at(time.Hour)}
	dead := &store.Session{ID: uuid.NewString(), UserID: "u1", ExpiresAt: at(-time.Hour)}
	edge := &store.Session{ID: uuid.NewString(), UserID: "u2", ExpiresAt: base}
	for _, s := range []*store.Session{live, dead, edge} {
		require.NoError(t, b.CreateSession(ctx, s))
	}

	removed, err := b.DeleteExpiredSessions(ctx, base)
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	_, err = b.SessionByID(ctx, live.ID)
	require.NoError(t, err)
	_, err = b.SessionByID(ctx, edge.ID)
	require.ErrorIs(t, err, core.ErrNotFound)
}

func testRatingUpsert(t *testing.T, b store.Backend) {
	ctx := context.Background()

	first := &store.Rating{ID: "r1", UserID: "u1", RecipeSlug: "dal-tadka", Rating: 5, Timestamp: base}
	require.NoError(t, b.UpsertRating(ctx, first))

	second := &store.Rating{ID: "r2", UserID: "u1", RecipeSlug: "dal-tadka", Rating: 2, Timestamp: at(time.Minute)}
	require.NoError(t, b.UpsertRating(ctx, second))

	got, err := b.RatingByUser(ctx, "u1", "dal-tadka")
	require.NoError(t, err)
	assert.Equal(t, "r1", got.ID)
	assert.Equal(t, 2, got.Rating)
	assert.True(t, second.Timestamp.Equal(got.Timestamp))

	summary, err := b.RatingSummary(ctx, "dal-tadka")
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Count)
	assert.InDelta(t, 2.0, summary.Average, 0.0001)

	empty, err := b.RatingSummary(ctx, "unrated")
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Count)
	assert.Equal(t, "unrated", empty.RecipeSlug)
}

func testRatingSummaries(t *testing.T, b store.Backend) {
	ctx := context.Background()

	votes := []struct {
		user, slug string
		value      int
	}{
		{"u1", "dal-tadka", 5},
		{"u2", "dal-tadka", 4},
		{"u3", "dal-tadka", 4},
		{"u1", "masala-dosa", 3},
	}
	for i, v := range votes {
		require.NoError(t, b.UpsertRating(ctx, &store.Rating{
			ID: fmt.Sprintf("r%d", i), UserID: v.user, RecipeSlug: v.slug, Rating: v.value, Timestamp: base,
		}))
	}

	summaries, err := b.RatingSummaries(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	bySlug := map[string]store.RatingSummary{}
	for _, s := range summaries {
		bySlug[s.RecipeSlug] = s
	}
	assert.Equal(t, 3, bySlug["dal-tadka"].Count)
	assert.InDelta(t, 13.0/3.0, bySlug["dal-tadka"].Average, 0.0001)
	assert.Equal(t, 1, bySlug["masala-dosa"].Count)
}

func testBookmarkToggle(t *testing.T, b store.Backend) {
	ctx := context.Background()
	bm := &store.Bookmark{UserID: "u1", RecipeSlug: "dal-tadka", Timestamp: base}

	on, err := b.ToggleBookmark(ctx, bm)
	require.NoError(t, err)
	assert.True(t, on)

	marked, err := b.IsBookmarked(ctx, "u1", "dal-tadka")
	require.NoError(t, err)
	assert.True(t, marked)

	list, err := b.BookmarksByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "dal-tadka", list[0].RecipeSlug)

	on, err = b.ToggleBookmark(ctx, bm)
	require.NoError(t, err)
	assert.False(t, on)

	marked, err = b.IsBookmarked(ctx, "u1", "dal-tadka")
	require.NoError(t, err)
	assert.False(t, marked)

	list, err = b.BookmarksByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, list)
}

// An even number of toggles must leave no bookmark behind and never
// produce duplicates.
func testConcurrentBookmarkToggles(t *testing.T, b store.Backend) {
	ctx := context.Background()
	const toggles = 20

	var wg sync.WaitGroup
	errs := make(chan error, toggles)
	for range toggles {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := b.ToggleBookmark(ctx, &store.Bookmark{
				UserID: "u1", RecipeSlug: "rogan-josh", Timestamp: base,
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			// a racing upsert on the unique index may be rejected
			require.ErrorIs(t, err, core.ErrDuplicateKey)
		}
	}

	list, err := b.BookmarksByUser(ctx, "u1")
	require.NoError(t, err)
	assert.LessOrEqual(t, len(list), 1)
}

func testComments(t *testing.T, b store.Backend) {
	ctx := context.Background()

	for i, slug := range []string{"dal-tadka", "dal-tadka", "masala-dosa"} {
		require.NoError(t, b.CreateComment(ctx, &store.Comment{
			ID:         fmt.Sprintf("c%d", i),
			UserID:     "u1",
			RecipeSlug: slug,
			Content:    fmt.Sprintf("comment %d", i),
			Timestamp:  at(time.Duration(i) * time.Minute),
		}))
	}

	forDal, err := b.CommentsByRecipe(ctx, "dal-tadka")
	require.NoError(t, err)
	require.Len(t, forDal, 2)
	assert.Equal(t, "c1", forDal[0].ID)
	assert.Equal(t, "c0", forDal[1].ID)

	all, err := b.ListComments(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "c2", all[0].ID)

	none, err := b.CommentsByRecipe(ctx, "macher-jhol")
	require.NoError(t, err)
	assert.Empty(t, none)

	ok, err := b.DeleteComment(ctx, "c0")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = b.DeleteComment(ctx, "c0")
	require.NoError(t, err)
	assert.False(t, ok)
}

func testRecipes(t *testing.T, b store.Backend) {
	ctx := context.Background()

	r := newRecipe("dal-tadka", "Punjab", "Vegetarian")
	require.NoError(t, b.CreateRecipe(ctx, r))

	dup := newRecipe("dal-tadka", "Gujarat")
	dup.Title = "Impostor"
	require.ErrorIs(t, b.CreateRecipe(ctx, dup), core.ErrDuplicateKey)

	got, err := b.RecipeBySlug(ctx, "dal-tadka")
	require.NoError(t, err)
	assert.Equal(t, "dal-tadka", got.Title)
	assert.Equal(t, "Punjab", got.State)
	assert.Equal(t, []string{"Vegetarian"}, got.Dietary)

	got.Title = "Dal Tadka"
	ok, err := b.ReplaceRecipe(ctx, got)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err = b.RecipeBySlug(ctx, "dal-tadka")
	require.NoError(t, err)
	assert.Equal(t, "Dal Tadka", got.Title)

	ok, err = b.ReplaceRecipe(ctx, newRecipe("missing", "Goa"))
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, b.CreateRecipe(ctx, newRecipe("masala-dosa", "Karnataka")))
	list, err := b.ListRecipes(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "dal-tadka", list[0].Slug)

	_, err = b.RecipeBySlug(ctx, "missing")
	require.ErrorIs(t, err, core.ErrNotFound)
}

func testRecipeDeleteCascades(t *testing.T, b store.Backend) {
	ctx := context.Background()

	require.NoError(t, b.CreateRecipe(ctx, newRecipe("dal-tadka", "Punjab")))
	require.NoError(t, b.CreateRecipe(ctx, newRecipe("masala-dosa", "Karnataka")))

	for _, slug := range []string{"dal-tadka", "masala-dosa"} {
		require.NoError(t, b.UpsertRating(ctx, &store.Rating{
			ID: uuid.NewString(), UserID: "u1", RecipeSlug: slug, Rating: 5, Timestamp: base,
		}))
		_, err := b.ToggleBookmark(ctx, &store.Bookmark{UserID: "u1", RecipeSlug: slug, Timestamp: base})
		require.NoError(t, err)
		require.NoError(t, b.CreateComment(ctx, &store.Comment{
			ID: uuid.NewString(), UserID: "u1", RecipeSlug: slug, Content: "yum", Timestamp: base,
		}))
	}

	ok, err := b.DeleteRecipe(ctx, "dal-tadka")
	require.NoError(t, err)
	assert.True(t, ok)

	counts, err := b.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts.Recipes)
	assert.Equal(t, int64(1), counts.Ratings)
	assert.Equal(t, int64(1), counts.Bookmarks)
	assert.Equal(t, int64(1), counts.Comments)

	ok, err = b.DeleteRecipe(ctx, "dal-tadka")
	require.NoError(t, err)
	assert.False(t, ok)
}

func testActivities(t *testing.T, b store.Backend) {
	ctx := context.Background()

	for i := range 5 {
		require.NoError(t, b.AppendActivity(ctx, &store.Activity{
			ID:        fmt.Sprintf("a%d", i),
			UserID:    "u1",
			Type:      store.ActivityRating,
			Details:   "rated",
			Timestamp: at(time.Duration(i) * time.Second),
		}))
	}

	recent, err := b.RecentActivities(ctx, 3)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, "a4", recent[0].ID)
	assert.Equal(t, "a2", recent[2].ID)

	all, err := b.RecentActivities(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func testExportImport(t *testing.T, b store.Backend) {
	ctx := context.Background()

	snap := store.EmptySnapshot()
	snap.Users = append(snap.Users, *newUser("import@example.com"))
	snap.Recipes = append(snap.Recipes, *newRecipe("dal-tadka", "Punjab"))
	snap.Ratings = append(snap.Ratings, store.Rating{
		ID: "r1", UserID: snap.Users[0].ID, RecipeSlug: "dal-tadka", Rating: 4, Timestamp: base,
	})

	require.NoError(t, b.CreateRecipe(ctx, newRecipe("to-be-replaced", "Goa")))
	require.NoError(t, b.Import(ctx, snap))

	out, err := b.Export(ctx)
	require.NoError(t, err)
	require.Len(t, out.Users, 1)
	require.Len(t, out.Recipes, 1)
	require.Len(t, out.Ratings, 1)
	assert.Equal(t, "import@example.com", out.Users[0].Email)
	assert.Equal(t, "dal-tadka", out.Recipes[0].Slug)
	assert.NotNil(t, out.Sessions)
	assert.NotNil(t, out.Comments)

	_, err = b.RecipeBySlug(ctx, "to-be-replaced")
	require.ErrorIs(t, err, core.ErrNotFound)
}
