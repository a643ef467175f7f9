// AngelaMos | 2026
// activities.go

package filestore

import (
	"context"
	"slices"

	"github.com/indiankitchen/kitchen-backend/internal/store"
)

func (s *Store) AppendActivity(ctx context.Context, activity *store.Activity) error {
	return s.update(ctx, func(d *store.Snapshot) (bool, error) {
		d.Activities = append(d.Activities, *activity)
		return true, nil
	})
}

func (s *Store) RecentActivities(ctx context.Context, limit int) ([]store.Activity, error) {
	var out []store.Activity
	err := s.view(ctx, func(d *store.Snapshot) error {
		out = slices.Clone(d.Activities)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sortNewestFirst(out, func(a store.Activity) int64 { return a.Timestamp.UnixNano() })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
