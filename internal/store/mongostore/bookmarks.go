// AngelaMos | 2026
// bookmarks.go

package mongostore

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/indiankitchen/kitchen-backend/internal/store"
)

// ToggleBookmark deletes first; when nothing was deleted the bookmark is
// inserted with an upsert so two racing inserts collapse into one
// document under the unique (userId, recipeSlug) index.
func (s *Store) ToggleBookmark(ctx context.Context, bookmark *store.Bookmark) (bool, error) {
	key := bson.M{"userId": bookmark.UserID, "recipeSlug": bookmark.RecipeSlug}

	res, err := s.bookmarks.DeleteOne(ctx, key)
	if err != nil {
		return false, fmt.Errorf("toggle bookmark: %w", err)
	}
	if res.DeletedCount > 0 {
		return false, nil
	}

	_, err = s.bookmarks.UpdateOne(ctx,
		key,
		bson.M{"$setOnInsert": bson.M{"timestamp": bookmark.Timestamp}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return false, fmt.Errorf("toggle bookmark: %w", mapWriteError(err))
	}
	return true, nil
}

func (s *Store) IsBookmarked(ctx context.Context, userID, slug string) (bool, error) {
	n, err := s.bookmarks.CountDocuments(ctx,
		bson.M{"userId": userID, "recipeSlug": slug},
		options.Count().SetLimit(1),
	)
	if err != nil {
		return false, fmt.Errorf("check bookmark: %w", err)
	}
	return n > 0, nil
}

func (s *Store) BookmarksByUser(ctx context.Context, userID string) ([]store.Bookmark, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}, {Key: "_id", Value: 1}})
	return findAll[store.Bookmark](ctx, s.bookmarks, bson.M{"userId": userID}, opts)
}
