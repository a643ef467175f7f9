// AngelaMos | 2026
// users.go

package filestore

import (
	"context"
	"fmt"
	"slices"

	"github.com/indiankitchen/kitchen-backend/internal/core"
	"github.com/indiankitchen/kitchen-backend/internal/store"
)

func (s *Store) CreateUser(ctx context.Context, user *store.User) error {
	return s.update(ctx, func(d *store.Snapshot) (bool, error) {
		for i := range d.Users {
			if d.Users[i].Email == user.Email {
				return false, fmt.Errorf("create user: %w", core.ErrDuplicateKey)
			}
		}
		d.Users = append(d.Users, *user)
		return true, nil
	})
}

func (s *Store) UserByID(ctx context.Context, id string) (*store.User, error) {
	return s.findUser(ctx, func(u *store.User) bool { return u.ID == id })
}

func (s *Store) UserByEmail(ctx context.Context, email string) (*store.User, error) {
	return s.findUser(ctx, func(u *store.User) bool { return u.Email == email })
}

func (s *Store) findUser(
	ctx context.Context,
	match func(*store.User) bool,
) (*store.User, error) {
	var found *store.User
	err := s.view(ctx, func(d *store.Snapshot) error {
		for i := range d.Users {
			if match(&d.Users[i]) {
				u := d.Users[i]
				found = &u
				return nil
			}
		}
		return fmt.Errorf("find user: %w", core.ErrNotFound)
	})
	return found, err
}

func (s *Store) ListUsers(ctx context.Context) ([]store.User, error) {
	var users []store.User
	err := s.view(ctx, func(d *store.Snapshot) error {
		users = slices.Clone(d.Users)
		return nil
	})
	return users, err
}

func (s *Store) UpdateUserStatus(ctx context.Context, id, status string) (bool, error) {
	return s.modifyUser(ctx, id, func(u *store.User) { u.Status = status })
}

func (s *Store) UpdateUserRole(ctx context.Context, id, role string) (bool, error) {
	return s.modifyUser(ctx, id, func(u *store.User) { u.Role = role })
}

func (s *Store) UpdateUserPassword(ctx context.Context, id, passwordHash string) (bool, error) {
	return s.modifyUser(ctx, id, func(u *store.User) { u.PasswordHash = passwordHash })
}

func (s *Store) modifyUser(
	ctx context.Context,
	id string,
	apply func(*store.User),
) (bool, error) {
	found := false
	err := s.update(ctx, func(d *store.Snapshot) (bool, error) {
		for i := range d.Users {
			if d.Users[i].ID == id {
				apply(&d.Users[i])
				found = true
				return true, nil
			}
		}
		return false, nil
	})
	return found, err
}

func (s *Store) DeleteUser(ctx context.Context, id string) (bool, error) {
	found := false
	err := s.update(ctx, func(d *store.Snapshot) (bool, error) {
		before := len(d.Users)
		d.Users = slices.DeleteFunc(d.Users, func(u store.User) bool { return u.ID == id })
		if len(d.Users) == before {
			return false, nil
		}
		found = true

		d.Sessions = slices.DeleteFunc(d.Sessions, func(x store.Session) bool { return x.UserID == id })
		d.Ratings = slices.DeleteFunc(d.Ratings, func(x store.Rating) bool { return x.UserID == id })
		d.Bookmarks = slices.DeleteFunc(d.Bookmarks, func(x store.Bookmark) bool { return x.UserID == id })
		d.Activities = slices.DeleteFunc(d.Activities, func(x store.Activity) bool { return x.UserID == id })
		d.Comments = slices.DeleteFunc(d.Comments, func(x store.Comment) bool { return x.UserID == id })
		return true, nil
	})
	return found, err
}
