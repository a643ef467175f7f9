// AngelaMos | 2026
// users.go

package mongostore

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/indiankitchen/kitchen-backend/internal/store"
)

func (s *Store) CreateUser(ctx context.Context, user *store.User) error {
	if _, err := s.users.InsertOne(ctx, user); err != nil {
		return fmt.Errorf("create user: %w", mapWriteError(err))
	}
	return nil
}

func (s *Store) UserByID(ctx context.Context, id string) (*store.User, error) {
	return findOne[store.User](ctx, s.users, bson.M{"id": id})
}

func (s *Store) UserByEmail(ctx context.Context, email string) (*store.User, error) {
	return findOne[store.User](ctx, s.users, bson.M{"email": email})
}

func (s *Store) ListUsers(ctx context.Context) ([]store.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	return findAll[store.User](ctx, s.users, bson.M{}, opts)
}

func (s *Store) UpdateUserStatus(ctx context.Context, id, status string) (bool, error) {
	return s.setUserField(ctx, id, "status", status)
}

func (s *Store) UpdateUserRole(ctx context.Context, id, role string) (bool, error) {
	return s.setUserField(ctx, id, "role", role)
}

func (s *Store) UpdateUserPassword(ctx context.Context, id, passwordHash string) (bool, error) {
	return s.setUserField(ctx, id, "passwordHash", passwordHash)
}

func (s *Store) setUserField(ctx context.Context, id, field string, value any) (bool, error) {
	res, err := s.users.UpdateOne(ctx,
		bson.M{"id": id},
		bson.M{"$set": bson.M{field: value}},
	)
	if err != nil {
		return false, fmt.Errorf("update user %s: %w", field, err)
	}
	return res.MatchedCount > 0, nil
}

// DeleteUser removes the user first, then every record owned by it.
// The follow-up deletes are not transactional.
func (s *Store) DeleteUser(ctx context.Context, id string) (bool, error) {
	res, err := s.users.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return false, fmt.Errorf("delete user: %w", err)
	}
	if res.DeletedCount == 0 {
		return false, nil
	}

	owned := bson.M{"userId": id}
	for _, coll := range []*mongo.Collection{
		s.sessions,
		s.ratings,
		s.bookmarks,
		s.activities,
		s.comments,
	} {
		if _, err := coll.DeleteMany(ctx, owned); err != nil {
			return true, fmt.Errorf("delete user %s: %w", coll.Name(), err)
		}
	}

	return true, nil
}
