// AngelaMos | 2026
// manager.go

package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/indiankitchen/kitchen-backend/internal/activity"
	"github.com/indiankitchen/kitchen-backend/internal/core"
	"github.com/indiankitchen/kitchen-backend/internal/store"
)

const DefaultTTL = 7 * 24 * time.Hour

type Manager struct {
	store    store.SessionStore
	activity *activity.Service
	ttl      time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

func NewManager(
	s store.SessionStore,
	activitySvc *activity.Service,
	ttl time.Duration,
	logger *slog.Logger,
) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		store:    s,
		activity: activitySvc,
		ttl:      ttl,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Create starts a session for the user and records a login activity.
func (m *Manager) Create(ctx context.Context, userID string) (*store.Session, error) {
	sess := &store.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		ExpiresAt: m.now().Add(m.ttl),
	}

	if err := m.store.CreateSession(ctx, sess); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	m.activity.Record(ctx, userID, store.ActivityLogin, "User logged in", "")
	return sess, nil
}

// Get returns a live session. An expired session is deleted on sight and
// reported as core.ErrNotFound, the same as an unknown id.
func (m *Manager) Get(ctx context.Context, id string) (*store.Session, error) {
	if id == "" {
		return nil, fmt.Errorf("get session: %w", core.ErrNotFound)
	}

	sess, err := m.store.SessionByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	if sess.Expired(m.now()) {
		if _, err := m.store.DeleteSession(ctx, id); err != nil {
			m.logger.WarnContext(ctx, "evict expired session", "error", err)
		}
		return nil, fmt.Errorf("get session: %w", core.ErrNotFound)
	}

	return sess, nil
}

// Delete ends a session. Unknown ids are a no-op; a logout activity is
// recorded only when a session was actually removed.
func (m *Manager) Delete(ctx context.Context, id string) error {
	sess, err := m.store.SessionByID(ctx, id)
	if errors.Is(err, core.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	removed, err := m.store.DeleteSession(ctx, id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	if removed {
		m.activity.Record(ctx, sess.UserID, store.ActivityLogout, "User logged out", "")
	}
	return nil
}

func (m *Manager) SweepExpired(ctx context.Context) (int64, error) {
	removed, err := m.store.DeleteExpiredSessions(ctx, m.now())
	if err != nil {
		return 0, fmt.Errorf("sweep sessions: %w", err)
	}
	return removed, nil
}
