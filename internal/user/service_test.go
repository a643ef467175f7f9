// AngelaMos | 2026
// service_test.go

package user

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/indiankitchen/kitchen-backend/internal/core"
	"github.com/indiankitchen/kitchen-backend/internal/store"
	"github.com/indiankitchen/kitchen-backend/internal/store/filestore"
)

func newTestService(t *testing.T) (*Service, *filestore.Store) {
	t.Helper()
	b, err := filestore.Open(filepath.Join(t.TempDir(), "db.json"), filestore.Options{})
	require.NoError(t, err)
	return NewService(b), b
}

func TestCreateStoresSaltedCredential(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	u, err := svc.Create(ctx, "priya@example.com", "garam-masala", "Priya", "")
	require.NoError(t, err)

	assert.Equal(t, store.RoleUser, u.Role)
	assert.Equal(t, store.StatusActive, u.Status)
	assert.Contains(t, u.PasswordHash, ":")
	assert.NotContains(t, u.PasswordHash, "garam-masala")

	found, err := svc.FindByEmail(ctx, "priya@example.com")
	require.NoError(t, err)
	assert.True(t, svc.ValidatePassword(found, "garam-masala"))
	assert.False(t, svc.ValidatePassword(found, "garam-masal"))
}

func TestCreateRejectsDuplicateEmail(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, "dup@example.com", "password1", "", "")
	require.NoError(t, err)

	_, err = svc.Create(ctx, "dup@example.com", "password2", "", "")
	require.ErrorIs(t, err, core.ErrDuplicateKey)

	stored, err := svc.FindByEmail(ctx, "dup@example.com")
	require.NoError(t, err)
	assert.Equal(t, first.ID, stored.ID)
	assert.True(t, svc.ValidatePassword(stored, "password1"))
}

func TestValidatePasswordAcceptsLegacyHash(t *testing.T) {
	svc, b := newTestService(t)
	ctx := context.Background()

	sum := sha256.Sum256([]byte("admin123"))
	legacy := &store.User{
		ID:           "legacy",
		Email:        "old@example.com",
		PasswordHash: hex.EncodeToString(sum[:]),
		Role:         store.RoleUser,
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, b.CreateUser(ctx, legacy))

	u, err := svc.FindByID(ctx, "legacy")
	require.NoError(t, err)
	assert.True(t, svc.ValidatePassword(u, "admin123"))
	assert.False(t, svc.ValidatePassword(u, "admin1234"))

	again, err := svc.FindByID(ctx, "legacy")
	require.NoError(t, err)
	assert.Equal(t, legacy.PasswordHash, again.PasswordHash)
}

func TestUpdateStatus(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	u, err := svc.Create(ctx, "s@example.com", "password", "", "")
	require.NoError(t, err)

	ok, err := svc.UpdateStatus(ctx, u.ID, store.StatusBlocked)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = svc.UpdateStatus(ctx, u.ID, "suspended")
	require.ErrorIs(t, err, core.ErrInvalidInput)

	ok, err = svc.UpdateStatus(ctx, "missing", store.StatusActive)
	require.NoError(t, err)
	assert.False(t, ok)

	found, err := svc.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, found.IsBlocked())
}

func TestUpdateRole(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	u, err := svc.Create(ctx, "r@example.com", "password", "", "")
	require.NoError(t, err)

	ok, err := svc.UpdateRole(ctx, u.ID, store.RoleAdmin)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = svc.UpdateRole(ctx, u.ID, "chef")
	require.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestDeleteCascades(t *testing.T) {
	svc, b := newTestService(t)
	ctx := context.Background()

	u, err := svc.Create(ctx, "gone@example.com", "password", "", "")
	require.NoError(t, err)

	now := time.Now().UTC()
	require.NoError(t, b.CreateSession(ctx, &store.Session{ID: "s1", UserID: u.ID, ExpiresAt: now.Add(time.Hour)}))
	require.NoError(t, b.UpsertRating(ctx, &store.Rating{ID: "r1", UserID: u.ID, RecipeSlug: "dal-tadka", Rating: 5, Timestamp: now}))
	_, err = b.ToggleBookmark(ctx, &store.Bookmark{UserID: u.ID, RecipeSlug: "dal-tadka", Timestamp: now})
	require.NoError(t, err)
	require.NoError(t, b.CreateComment(ctx, &store.Comment{ID: "c1", UserID: u.ID, RecipeSlug: "dal-tadka", Content: "hi", Timestamp: now}))

	ok, err := svc.Delete(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	counts, err := b.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, store.Counts{}, counts)

	ok, err = svc.Delete(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCanDeleteRefusesSelf(t *testing.T) {
	svc, _ := newTestService(t)

	err := svc.CanDelete("u1", "u1")
	require.ErrorIs(t, err, core.ErrInvalidInput)
	assert.True(t, strings.HasSuffix(err.Error(), "cannot delete yourself"))

	require.NoError(t, svc.CanDelete("u1", "u2"))
}

func TestEnsureAdminIsIdempotent(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	admin, created, err := svc.EnsureAdmin(ctx, "admin@indiankitchen.com", "admin-password", "Admin User")
	require.NoError(t, err)
	assert.True(t, created)
	assert.True(t, admin.IsAdmin())

	again, created, err := svc.EnsureAdmin(ctx, "admin@indiankitchen.com", "different", "Admin User")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, admin.ID, again.ID)
	assert.True(t, svc.ValidatePassword(again, "admin-password"))
}
