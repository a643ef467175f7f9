// AngelaMos | 2026
// comments.go

package mongostore

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/indiankitchen/kitchen-backend/internal/store"
)

var newestFirst = bson.D{{Key: "timestamp", Value: -1}, {Key: "_id", Value: -1}}

func (s *Store) CreateComment(ctx context.Context, comment *store.Comment) error {
	if _, err := s.comments.InsertOne(ctx, comment); err != nil {
		return fmt.Errorf("create comment: %w", mapWriteError(err))
	}
	return nil
}

func (s *Store) CommentsByRecipe(ctx context.Context, slug string) ([]store.Comment, error) {
	return findAll[store.Comment](ctx, s.comments,
		bson.M{"recipeSlug": slug},
		options.Find().SetSort(newestFirst),
	)
}

func (s *Store) ListComments(ctx context.Context) ([]store.Comment, error) {
	return findAll[store.Comment](ctx, s.comments, bson.M{}, options.Find().SetSort(newestFirst))
}

func (s *Store) DeleteComment(ctx context.Context, id string) (bool, error) {
	res, err := s.comments.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return false, fmt.Errorf("delete comment: %w", err)
	}
	return res.DeletedCount > 0, nil
}
