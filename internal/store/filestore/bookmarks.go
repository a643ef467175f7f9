// AngelaMos | 2026
// bookmarks.go

package filestore

import (
	"context"
	"slices"

	"github.com/indiankitchen/kitchen-backend/internal/store"
)

func (s *Store) ToggleBookmark(ctx context.Context, bookmark *store.Bookmark) (bool, error) {
	var bookmarked bool
	err := s.update(ctx, func(d *store.Snapshot) (bool, error) {
		idx := slices.IndexFunc(d.Bookmarks, func(b store.Bookmark) bool {
			return b.UserID == bookmark.UserID && b.RecipeSlug == bookmark.RecipeSlug
		})
		if idx >= 0 {
			d.Bookmarks = slices.Delete(d.Bookmarks, idx, idx+1)
			bookmarked = false
			return true, nil
		}
		d.Bookmarks = append(d.Bookmarks, *bookmark)
		bookmarked = true
		return true, nil
	})
	return bookmarked, err
}

func (s *Store) IsBookmarked(ctx context.Context, userID, slug string) (bool, error) {
	var found bool
	err := s.view(ctx, func(d *store.Snapshot) error {
		found = slices.ContainsFunc(d.Bookmarks, func(b store.Bookmark) bool {
			return b.UserID == userID && b.RecipeSlug == slug
		})
		return nil
	})
	return found, err
}

func (s *Store) BookmarksByUser(ctx context.Context, userID string) ([]store.Bookmark, error) {
	out := []store.Bookmark{}
	err := s.view(ctx, func(d *store.Snapshot) error {
		for _, b := range d.Bookmarks {
			if b.UserID == userID {
				out = append(out, b)
			}
		}
		return nil
	})
	return out, err
}
