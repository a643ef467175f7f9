// AngelaMos | 2026
// filestore_test.go

package filestore

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/indiankitchen/kitchen-backend/internal/store"
	"github.com/indiankitchen/kitchen-backend/internal/store/storetest"
)

func TestConformance(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Backend {
		s, err := Open(filepath.Join(t.TempDir(), "db.json"), Options{})
		require.NoError(t, err)
		return s
	})
}

func TestOpenCreatesSeededFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "db.json")

	s, err := Open(path, Options{Seed: true})
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &doc))
	for _, key := range []string{"users", "sessions", "ratings", "bookmarks", "activities", "comments", "recipes"} {
		assert.Contains(t, doc, key)
	}

	recipe, err := s.RecipeBySlug(context.Background(), "dal-tadka")
	require.NoError(t, err)
	assert.Equal(t, "Punjab", recipe.State)
}

func TestOpenWithoutSeedStartsEmpty(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "db.json"), Options{})
	require.NoError(t, err)

	recipes, err := s.ListRecipes(context.Background())
	require.NoError(t, err)
	assert.Empty(t, recipes)
}

func TestOpenRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := Open(path, Options{Seed: true})
	require.Error(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{not json", string(raw))
}

func TestOpenNormalizesOlderFiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	legacy := `{
  "users": [{"id":"u1","email":"old@example.com","passwordHash":"abc","role":"user","createdAt":"2024-01-02T03:04:05.000Z"}],
  "sessions": []
}`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0o600))

	s, err := Open(path, Options{Seed: true})
	require.NoError(t, err)

	ctx := context.Background()
	u, err := s.UserByEmail(ctx, "old@example.com")
	require.NoError(t, err)
	assert.Equal(t, store.StatusActive, u.EffectiveStatus())

	marked, err := s.IsBookmarked(ctx, "u1", "dal-tadka")
	require.NoError(t, err)
	assert.False(t, marked)

	recipes, err := s.ListRecipes(ctx)
	require.NoError(t, err)
	assert.Empty(t, recipes)
}

func TestWritesSurviveReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	ctx := context.Background()

	s, err := Open(path, Options{})
	require.NoError(t, err)
	require.NoError(t, s.UpsertRating(ctx, &store.Rating{
		ID: "r1", UserID: "u1", RecipeSlug: "dal-tadka", Rating: 4, Timestamp: time.Now().UTC(),
	}))

	reopened, err := Open(path, Options{})
	require.NoError(t, err)

	got, err := reopened.RatingByUser(ctx, "u1", "dal-tadka")
	require.NoError(t, err)
	assert.Equal(t, 4, got.Rating)
}

func TestConcurrentTogglesNeverLoseUpdates(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "db.json"), Options{})
	require.NoError(t, err)

	ctx := context.Background()
	const toggles = 21

	var wg sync.WaitGroup
	for range toggles {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.ToggleBookmark(ctx, &store.Bookmark{
				UserID: "u1", RecipeSlug: "dal-tadka", Timestamp: time.Now().UTC(),
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	marked, err := s.IsBookmarked(ctx, "u1", "dal-tadka")
	require.NoError(t, err)
	assert.True(t, marked)

	list, err := s.BookmarksByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestReturnedRecordsAreCopies(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "db.json"), Options{Seed: true})
	require.NoError(t, err)

	ctx := context.Background()
	r, err := s.RecipeBySlug(ctx, "dal-tadka")
	require.NoError(t, err)
	r.Dietary[0] = "Mutated"

	again, err := s.RecipeBySlug(ctx, "dal-tadka")
	require.NoError(t, err)
	assert.NotEqual(t, "Mutated", again.Dietary[0])
}
