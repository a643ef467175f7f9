// AngelaMos | 2026
// comments.go

package filestore

import (
	"context"
	"slices"

	"github.com/indiankitchen/kitchen-backend/internal/store"
)

func (s *Store) CreateComment(ctx context.Context, comment *store.Comment) error {
	return s.update(ctx, func(d *store.Snapshot) (bool, error) {
		d.Comments = append(d.Comments, *comment)
		return true, nil
	})
}

func (s *Store) CommentsByRecipe(ctx context.Context, slug string) ([]store.Comment, error) {
	out := []store.Comment{}
	err := s.view(ctx, func(d *store.Snapshot) error {
		for _, c := range d.Comments {
			if c.RecipeSlug == slug {
				out = append(out, c)
			}
		}
		return nil
	})
	sortNewestFirst(out, func(c store.Comment) int64 { return c.Timestamp.UnixNano() })
	return out, err
}

func (s *Store) ListComments(ctx context.Context) ([]store.Comment, error) {
	var out []store.Comment
	err := s.view(ctx, func(d *store.Snapshot) error {
		out = slices.Clone(d.Comments)
		return nil
	})
	sortNewestFirst(out, func(c store.Comment) int64 { return c.Timestamp.UnixNano() })
	return out, err
}

func (s *Store) DeleteComment(ctx context.Context, id string) (bool, error) {
	found := false
	err := s.update(ctx, func(d *store.Snapshot) (bool, error) {
		before := len(d.Comments)
		d.Comments = slices.DeleteFunc(d.Comments, func(c store.Comment) bool { return c.ID == id })
		found = len(d.Comments) < before
		return found, nil
	})
	return found, err
}

// sortNewestFirst orders by descending timestamp. Records sharing a
// timestamp keep reverse insertion order.
func sortNewestFirst[T any](items []T, ts func(T) int64) {
	slices.Reverse(items)
	slices.SortStableFunc(items, func(a, b T) int {
		ta, tb := ts(a), ts(b)
		switch {
		case ta > tb:
			return -1
		case ta < tb:
			return 1
		default:
			return 0
		}
	})
}
