// AngelaMos | 2026
// store.go

package store

import (
	"context"
	"time"
)

// Lookups of a single record return core.ErrNotFound when nothing
// matches. Deletes and existence checks report absence with false.

type UserStore interface {
	// CreateUser fails with core.ErrDuplicateKey when the email is taken.
	CreateUser(ctx context.Context, user *User) error
	UserByID(ctx context.Context, id string) (*User, error)
	UserByEmail(ctx context.Context, email string) (*User, error)
	ListUsers(ctx context.Context) ([]User, error)
	UpdateUserStatus(ctx context.Context, id, status string) (bool, error)
	UpdateUserRole(ctx context.Context, id, role string) (bool, error)
	UpdateUserPassword(ctx context.Context, id, passwordHash string) (bool, error)
	// DeleteUser also removes the user's sessions, ratings, bookmarks,
	// activities and comments.
	DeleteUser(ctx context.Context, id string) (bool, error)
}

type SessionStore interface {
	CreateSession(ctx context.Context, session *Session) error
	SessionByID(ctx context.Context, id string) (*Session, error)
	DeleteSession(ctx context.Context, id string) (bool, error)
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}

type RatingStore interface {
	// UpsertRating keeps a single rating per (userId, recipeSlug); an
	// existing record keeps its id and takes the new value and timestamp.
	UpsertRating(ctx context.Context, rating *Rating) error
	RatingByUser(ctx context.Context, userID, slug string) (*Rating, error)
	RatingSummary(ctx context.Context, slug string) (RatingSummary, error)
	RatingSummaries(ctx context.Context) ([]RatingSummary, error)
}

type BookmarkStore interface {
	// ToggleBookmark removes the bookmark when present and inserts it
	// otherwise, reporting the resulting state.
	ToggleBookmark(ctx context.Context, bookmark *Bookmark) (bool, error)
	IsBookmarked(ctx context.Context, userID, slug string) (bool, error)
	BookmarksByUser(ctx context.Context, userID string) ([]Bookmark, error)
}

type CommentStore interface {
	CreateComment(ctx context.Context, comment *Comment) error
	// CommentsByRecipe and ListComments return newest first.
	CommentsByRecipe(ctx context.Context, slug string) ([]Comment, error)
	ListComments(ctx context.Context) ([]Comment, error)
	DeleteComment(ctx context.Context, id string) (bool, error)
}

type RecipeStore interface {
	ListRecipes(ctx context.Context) ([]Recipe, error)
	RecipeBySlug(ctx context.Context, slug string) (*Recipe, error)
	// CreateRecipe fails with core.ErrDuplicateKey when the slug is taken.
	CreateRecipe(ctx context.Context, recipe *Recipe) error
	// ReplaceRecipe overwrites the stored record with the same slug.
	ReplaceRecipe(ctx context.Context, recipe *Recipe) (bool, error)
	// DeleteRecipe also removes ratings, bookmarks and comments that
	// reference the slug.
	DeleteRecipe(ctx context.Context, slug string) (bool, error)
}

type ActivityStore interface {
	AppendActivity(ctx context.Context, activity *Activity) error
	// RecentActivities returns newest first; limit <= 0 returns all.
	RecentActivities(ctx context.Context, limit int) ([]Activity, error)
}

// Backend is the persistence facade. Exactly one implementation is
// constructed per process and shared by every service.
type Backend interface {
	UserStore
	SessionStore
	RatingStore
	BookmarkStore
	CommentStore
	RecipeStore
	ActivityStore

	Counts(ctx context.Context) (Counts, error)
	// Export returns every collection in the file layout.
	Export(ctx context.Context) (*Snapshot, error)
	// Import replaces every collection with the snapshot contents.
	Import(ctx context.Context, snapshot *Snapshot) error

	Name() string
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
