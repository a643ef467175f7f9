// AngelaMos | 2026
// mongostore.go

package mongostore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/indiankitchen/kitchen-backend/internal/core"
	"github.com/indiankitchen/kitchen-backend/internal/store"
)

const (
	colUsers      = "users"
	colSessions   = "sessions"
	colRatings    = "ratings"
	colBookmarks  = "bookmarks"
	colActivities = "activities"
	colComments   = "comments"
	colRecipes    = "recipes"
)

type Config struct {
	URI                    string
	Database               string
	ConnectTimeout         time.Duration
	SocketTimeout          time.Duration
	ServerSelectionTimeout time.Duration
	Logger                 *slog.Logger
}

type Store struct {
	client *mongo.Client
	db     *mongo.Database
	logger *slog.Logger

	users      *mongo.Collection
	sessions   *mongo.Collection
	ratings    *mongo.Collection
	bookmarks  *mongo.Collection
	activities *mongo.Collection
	comments   *mongo.Collection
	recipes    *mongo.Collection
}

// Open connects, verifies the primary is reachable and ensures indexes.
// An unreachable server is an error; there is no fallback.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.URI == "" {
		return nil, fmt.Errorf("mongo uri: %w", core.ErrInvalidInput)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	opts := options.Client().ApplyURI(cfg.URI)
	if cfg.ConnectTimeout > 0 {
		opts.SetConnectTimeout(cfg.ConnectTimeout)
	}
	if cfg.SocketTimeout > 0 {
		opts.SetSocketTimeout(cfg.SocketTimeout)
	}
	if cfg.ServerSelectionTimeout > 0 {
		opts.SetServerSelectionTimeout(cfg.ServerSelectionTimeout)
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		//nolint:errcheck // best-effort cleanup
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	db := client.Database(cfg.Database)
	s := &Store{
		client:     client,
		db:         db,
		logger:     logger.With("backend", "mongo", "database", cfg.Database),
		users:      db.Collection(colUsers),
		sessions:   db.Collection(colSessions),
		ratings:    db.Collection(colRatings),
		bookmarks:  db.Collection(colBookmarks),
		activities: db.Collection(colActivities),
		comments:   db.Collection(colComments),
		recipes:    db.Collection(colRecipes),
	}

	if err := s.ensureIndexes(ctx); err != nil {
		//nolint:errcheck // best-effort cleanup
		client.Disconnect(context.Background())
		return nil, err
	}

	return s, nil
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	unique := func() *options.IndexOptions { return options.Index().SetUnique(true) }

	indexes := map[*mongo.Collection][]mongo.IndexModel{
		s.users: {
			{Keys: bson.D{{Key: "id", Value: 1}}, Options: unique()},
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique()},
		},
		s.sessions: {
			{Keys: bson.D{{Key: "id", Value: 1}}, Options: unique()},
			{Keys: bson.D{{Key: "userId", Value: 1}}},
			{Keys: bson.D{{Key: "expiresAt", Value: 1}}},
		},
		s.ratings: {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "recipeSlug", Value: 1}}, Options: unique()},
			{Keys: bson.D{{Key: "recipeSlug", Value: 1}}},
		},
		s.bookmarks: {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "recipeSlug", Value: 1}}, Options: unique()},
		},
		s.comments: {
			{Keys: bson.D{{Key: "recipeSlug", Value: 1}, {Key: "timestamp", Value: -1}}},
			{Keys: bson.D{{Key: "id", Value: 1}}, Options: unique()},
		},
		s.recipes: {
			{Keys: bson.D{{Key: "slug", Value: 1}}, Options: unique()},
			{Keys: bson.D{{Key: "state", Value: 1}}},
			{Keys: bson.D{{Key: "region", Value: 1}}},
		},
		s.activities: {
			{Keys: bson.D{{Key: "timestamp", Value: -1}}},
			{Keys: bson.D{{Key: "userId", Value: 1}}},
		},
	}

	for coll, models := range indexes {
		if _, err := coll.Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create %s indexes: %w", coll.Name(), err)
		}
	}

	return nil
}

func (s *Store) Name() string {
	return "mongo"
}

func (s *Store) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.client.Ping(pingCtx, readpref.Primary()); err != nil {
		return fmt.Errorf("mongo ping failed: %w", err)
	}
	return nil
}

func (s *Store) Close(ctx context.Context) error {
	if err := s.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("disconnect mongo: %w", err)
	}
	return nil
}

// Drop removes the database. Used by tests and the migrate command.
func (s *Store) Drop(ctx context.Context) error {
	return s.db.Drop(ctx)
}

func (s *Store) Counts(ctx context.Context) (store.Counts, error) {
	var c store.Counts
	targets := []struct {
		coll *mongo.Collection
		dst  *int64
	}{
		{s.users, &c.Users},
		{s.sessions, &c.Sessions},
		{s.ratings, &c.Ratings},
		{s.bookmarks, &c.Bookmarks},
		{s.comments, &c.Comments},
		{s.recipes, &c.Recipes},
		{s.activities, &c.Activities},
	}

	for _, t := range targets {
		n, err := t.coll.CountDocuments(ctx, bson.M{})
		if err != nil {
			return store.Counts{}, fmt.Errorf("count %s: %w", t.coll.Name(), err)
		}
		*t.dst = n
	}

	return c, nil
}

func (s *Store) Export(ctx context.Context) (*store.Snapshot, error) {
	snap := &store.Snapshot{}
	var err error

	byInsertion := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})

	if snap.Users, err = findAll[store.User](ctx, s.users, bson.M{}, byInsertion); err != nil {
		return nil, err
	}
	if snap.Sessions, err = findAll[store.Session](ctx, s.sessions, bson.M{}, byInsertion); err != nil {
		return nil, err
	}
	if snap.Ratings, err = findAll[store.Rating](ctx, s.ratings, bson.M{}, byInsertion); err != nil {
		return nil, err
	}
	if snap.Bookmarks, err = findAll[store.Bookmark](ctx, s.bookmarks, bson.M{}, byInsertion); err != nil {
		return nil, err
	}
	if snap.Activities, err = findAll[store.Activity](ctx, s.activities, bson.M{}, byInsertion); err != nil {
		return nil, err
	}
	if snap.Comments, err = findAll[store.Comment](ctx, s.comments, bson.M{}, byInsertion); err != nil {
		return nil, err
	}
	if snap.Recipes, err = findAll[store.Recipe](ctx, s.recipes, bson.M{}, byInsertion); err != nil {
		return nil, err
	}

	snap.Normalize()
	return snap, nil
}

// Import clears each collection and bulk inserts the snapshot contents.
func (s *Store) Import(ctx context.Context, snapshot *store.Snapshot) error {
	snap := *snapshot
	snap.Normalize()

	steps := []struct {
		coll *mongo.Collection
		docs []any
	}{
		{s.users, toDocs(snap.Users)},
		{s.sessions, toDocs(snap.Sessions)},
		{s.ratings, toDocs(snap.Ratings)},
		{s.bookmarks, toDocs(snap.Bookmarks)},
		{s.activities, toDocs(snap.Activities)},
		{s.comments, toDocs(snap.Comments)},
		{s.recipes, toDocs(snap.Recipes)},
	}

	for _, step := range steps {
		if _, err := step.coll.DeleteMany(ctx, bson.M{}); err != nil {
			return fmt.Errorf("clear %s: %w", step.coll.Name(), err)
		}
		if len(step.docs) == 0 {
			continue
		}
		if _, err := step.coll.InsertMany(ctx, step.docs); err != nil {
			return fmt.Errorf("insert %s: %w", step.coll.Name(), mapWriteError(err))
		}
		s.logger.Info("imported collection",
			"collection", step.coll.Name(),
			"documents", len(step.docs),
		)
	}

	return nil
}

func toDocs[T any](items []T) []any {
	docs := make([]any, len(items))
	for i := range items {
		docs[i] = items[i]
	}
	return docs
}

func findAll[T any](
	ctx context.Context,
	coll *mongo.Collection,
	filter any,
	opts ...*options.FindOptions,
) ([]T, error) {
	cursor, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", coll.Name(), err)
	}

	out := []T{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", coll.Name(), err)
	}
	return out, nil
}

func findOne[T any](
	ctx context.Context,
	coll *mongo.Collection,
	filter any,
) (*T, error) {
	var out T
	err := coll.FindOne(ctx, filter).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("find %s: %w", coll.Name(), core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", coll.Name(), err)
	}
	return &out, nil
}

func mapWriteError(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %v", core.ErrDuplicateKey, err)
	}
	return err
}

var _ store.Backend = (*Store)(nil)
