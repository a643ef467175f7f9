// AngelaMos | 2026
// activities.go

package mongostore

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/indiankitchen/kitchen-backend/internal/store"
)

func (s *Store) AppendActivity(ctx context.Context, activity *store.Activity) error {
	if _, err := s.activities.InsertOne(ctx, activity); err != nil {
		return fmt.Errorf("append activity: %w", err)
	}
	return nil
}

func (s *Store) RecentActivities(ctx context.Context, limit int) ([]store.Activity, error) {
	opts := options.Find().SetSort(newestFirst)
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	return findAll[store.Activity](ctx, s.activities, bson.M{}, opts)
}
