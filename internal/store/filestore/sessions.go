// AngelaMos | 2026
// sessions.go

package filestore

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/indiankitchen/kitchen-backend/internal/core"
	"github.com/indiankitchen/kitchen-backend/internal/store"
)

func (s *Store) CreateSession(ctx context.Context, session *store.Session) error {
	return s.update(ctx, func(d *store.Snapshot) (bool, error) {
		d.Sessions = append(d.Sessions, *session)
		return true, nil
	})
}

func (s *Store) SessionByID(ctx context.Context, id string) (*store.Session, error) {
	var found *store.Session
	err := s.view(ctx, func(d *store.Snapshot) error {
		for i := range d.Sessions {
			if d.Sessions[i].ID == id {
				sess := d.Sessions[i]
				found = &sess
				return nil
			}
		}
		return fmt.Errorf("find session: %w", core.ErrNotFound)
	})
	return found, err
}

func (s *Store) DeleteSession(ctx context.Context, id string) (bool, error) {
	found := false
	err := s.update(ctx, func(d *store.Snapshot) (bool, error) {
		before := len(d.Sessions)
		d.Sessions = slices.DeleteFunc(d.Sessions, func(x store.Session) bool { return x.ID == id })
		found = len(d.Sessions) < before
		return found, nil
	})
	return found, err
}

func (s *Store) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	var removed int64
	err := s.update(ctx, func(d *store.Snapshot) (bool, error) {
		before := len(d.Sessions)
		d.Sessions = slices.DeleteFunc(d.Sessions, func(x store.Session) bool { return x.Expired(now) })
		removed = int64(before - len(d.Sessions))
		return removed > 0, nil
	})
	return removed, err
}
