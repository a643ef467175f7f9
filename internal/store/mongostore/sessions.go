// AngelaMos | 2026
// sessions.go

package mongostore

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/indiankitchen/kitchen-backend/internal/store"
)

func (s *Store) CreateSession(ctx context.Context, session *store.Session) error {
	if _, err := s.sessions.InsertOne(ctx, session); err != nil {
		return fmt.Errorf("create session: %w", mapWriteError(err))
	}
	return nil
}

func (s *Store) SessionByID(ctx context.Context, id string) (*store.Session, error) {
	return findOne[store.Session](ctx, s.sessions, bson.M{"id": id})
}

func (s *Store) DeleteSession(ctx context.Context, id string) (bool, error) {
	res, err := s.sessions.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return false, fmt.Errorf("delete session: %w", err)
	}
	return res.DeletedCount > 0, nil
}

func (s *Store) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.sessions.DeleteMany(ctx, bson.M{"expiresAt": bson.M{"$lte": now}})
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	return res.DeletedCount, nil
}
