// AngelaMos | 2026
// backend.go

package backend

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/indiankitchen/kitchen-backend/internal/config"
	"github.com/indiankitchen/kitchen-backend/internal/store"
	"github.com/indiankitchen/kitchen-backend/internal/store/filestore"
	"github.com/indiankitchen/kitchen-backend/internal/store/mongostore"
)

// Open picks the persistence backend once for the process: MongoDB when
// a URI is configured, the JSON file otherwise. A configured but
// unreachable MongoDB is a startup error.
func Open(
	ctx context.Context,
	cfg config.StorageConfig,
	logger *slog.Logger,
) (store.Backend, error) {
	if cfg.UsesMongo() {
		return openMongo(ctx, cfg, logger)
	}

	s, err := filestore.Open(cfg.FilePath, filestore.Options{
		Seed:   cfg.Seed,
		Logger: logger,
	})
	if err != nil {
		return nil, fmt.Errorf("open file backend: %w", err)
	}

	logger.Info("storage backend selected", "backend", s.Name(), "path", cfg.FilePath)
	return s, nil
}

func openMongo(
	ctx context.Context,
	cfg config.StorageConfig,
	logger *slog.Logger,
) (store.Backend, error) {
	s, err := OpenMongo(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	if cfg.Seed {
		if err := seedRecipes(ctx, s, logger); err != nil {
			//nolint:errcheck // already failing
			s.Close(ctx)
			return nil, err
		}
	}

	logger.Info("storage backend selected", "backend", s.Name(), "database", cfg.MongoDatabase)
	return s, nil
}

// OpenMongo connects to MongoDB regardless of the file settings. Used by
// tools that only make sense against the remote backend.
func OpenMongo(
	ctx context.Context,
	cfg config.StorageConfig,
	logger *slog.Logger,
) (*mongostore.Store, error) {
	if !cfg.UsesMongo() {
		return nil, fmt.Errorf("MONGODB_URI is not set")
	}

	s, err := mongostore.Open(ctx, mongostore.Config{
		URI:                    cfg.MongoURI,
		Database:               cfg.MongoDatabase,
		ConnectTimeout:         cfg.ConnectTimeout,
		SocketTimeout:          cfg.SocketTimeout,
		ServerSelectionTimeout: cfg.ServerSelectionTimeout,
		Logger:                 logger,
	})
	if err != nil {
		return nil, fmt.Errorf("open mongo backend: %w", err)
	}
	return s, nil
}

// seedRecipes loads the embedded catalogue into an empty recipes
// collection, mirroring what the file backend does for a new file.
func seedRecipes(ctx context.Context, s store.Backend, logger *slog.Logger) error {
	counts, err := s.Counts(ctx)
	if err != nil {
		return fmt.Errorf("count recipes: %w", err)
	}
	if counts.Recipes > 0 {
		return nil
	}

	recipes, err := store.SeedRecipes()
	if err != nil {
		return err
	}

	for i := range recipes {
		if err := s.CreateRecipe(ctx, &recipes[i]); err != nil {
			return fmt.Errorf("seed recipe %s: %w", recipes[i].Slug, err)
		}
	}

	logger.Info("seeded recipes", "count", len(recipes))
	return nil
}
