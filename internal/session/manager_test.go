// AngelaMos | 2026
// manager_test.go

package session

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/indiankitchen/kitchen-backend/internal/activity"
	"github.com/indiankitchen/kitchen-backend/internal/core"
	"github.com/indiankitchen/kitchen-backend/internal/store"
	"github.com/indiankitchen/kitchen-backend/internal/store/filestore"
)

type fixture struct {
	manager *Manager
	backend store.Backend
	clock   *time.Time
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	b, err := filestore.Open(filepath.Join(t.TempDir(), "db.json"), filestore.Options{})
	require.NoError(t, err)

	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	m := NewManager(b, activity.NewService(b, nil), 0, nil)
	m.now = func() time.Time { return clock }

	return fixture{manager: m, backend: b, clock: &clock}
}

func activityTypes(t *testing.T, b store.Backend) []store.ActivityType {
	t.Helper()
	entries, err := b.RecentActivities(context.Background(), 0)
	require.NoError(t, err)

	types := make([]store.ActivityType, 0, len(entries))
	for _, e := range entries {
		types = append(types, e.Type)
	}
	return types
}

func TestCreateUsesSevenDayExpiry(t *testing.T) {
	f := newFixture(t)

	sess, err := f.manager.Create(context.Background(), "u1")
	require.NoError(t, err)

	assert.Equal(t, f.clock.Add(7*24*time.Hour), sess.ExpiresAt)
	assert.Equal(t, []store.ActivityType{store.ActivityLogin}, activityTypes(t, f.backend))
}

func TestGetReturnsLiveSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sess, err := f.manager.Create(ctx, "u1")
	require.NoError(t, err)

	got, err := f.manager.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "u1", got.UserID)
}

func TestGetEvictsExpiredSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sess, err := f.manager.Create(ctx, "u1")
	require.NoError(t, err)

	*f.clock = sess.ExpiresAt.Add(time.Second)

	_, err = f.manager.Get(ctx, sess.ID)
	require.ErrorIs(t, err, core.ErrNotFound)

	_, err = f.backend.SessionByID(ctx, sess.ID)
	require.ErrorIs(t, err, core.ErrNotFound)
}

func TestGetExpiresExactlyAtDeadline(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sess, err := f.manager.Create(ctx, "u1")
	require.NoError(t, err)

	*f.clock = sess.ExpiresAt

	_, err = f.manager.Get(ctx, sess.ID)
	require.ErrorIs(t, err, core.ErrNotFound)
}

func TestGetUnknownSession(t *testing.T) {
	f := newFixture(t)

	_, err := f.manager.Get(context.Background(), "does-not-exist")
	require.ErrorIs(t, err, core.ErrNotFound)

	_, err = f.manager.Get(context.Background(), "")
	require.ErrorIs(t, err, core.ErrNotFound)
}

func TestDeleteIsIdempotentAndLogsOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sess, err := f.manager.Create(ctx, "u1")
	require.NoError(t, err)

	require.NoError(t, f.manager.Delete(ctx, sess.ID))
	require.NoError(t, f.manager.Delete(ctx, sess.ID))
	require.NoError(t, f.manager.Delete(ctx, "never-existed"))

	types := activityTypes(t, f.backend)
	assert.ElementsMatch(t, []store.ActivityType{store.ActivityLogin, store.ActivityLogout}, types)

	_, err = f.manager.Get(ctx, sess.ID)
	require.ErrorIs(t, err, core.ErrNotFound)
}

func TestMultipleSessionsPerUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a, err := f.manager.Create(ctx, "u1")
	require.NoError(t, err)
	b, err := f.manager.Create(ctx, "u1")
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)

	_, err = f.manager.Get(ctx, a.ID)
	require.NoError(t, err)
	_, err = f.manager.Get(ctx, b.ID)
	require.NoError(t, err)
}

func TestSweeperRemovesExpired(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	old, err := f.manager.Create(ctx, "u1")
	require.NoError(t, err)

	*f.clock = f.clock.Add(8 * 24 * time.Hour)
	fresh, err := f.manager.Create(ctx, "u2")
	require.NoError(t, err)

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		NewSweeper(f.manager, time.Hour, nil).Run(runCtx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		_, err := f.backend.SessionByID(ctx, old.ID)
		return err != nil
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	<-done

	_, err = f.backend.SessionByID(ctx, fresh.ID)
	require.NoError(t, err)
}
