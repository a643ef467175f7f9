// AngelaMos | 2026
// filestore.go

package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/indiankitchen/kitchen-backend/internal/store"
)

// Store keeps the whole database as one JSON document. Every operation
// runs under a single mutex, so a read-modify-write cycle is never
// interleaved with another one.
type Store struct {
	path   string
	logger *slog.Logger

	mu   sync.Mutex
	data *store.Snapshot
}

type Options struct {
	// Seed loads the embedded recipe catalogue into a newly created file.
	Seed   bool
	Logger *slog.Logger
}

func Open(path string, opts Options) (*Store, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Store{
		path:   path,
		logger: logger.With("backend", "file", "path", path),
	}

	data, err := readSnapshot(path)
	switch {
	case err == nil:
		s.data = data
	case errors.Is(err, fs.ErrNotExist):
		if err := s.initialize(opts.Seed); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	return s, nil
}

func (s *Store) initialize(seed bool) error {
	data := store.EmptySnapshot()

	if seed {
		recipes, err := store.SeedRecipes()
		if err != nil {
			return err
		}
		data.Recipes = recipes
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	if err := writeSnapshot(s.path, data); err != nil {
		return err
	}

	s.data = data
	s.logger.Info("initialized database file",
		"recipes", len(data.Recipes),
	)
	return nil
}

func readSnapshot(path string) (*store.Snapshot, error) {
	raw, err := os.ReadFile(path) //nolint:gosec // path comes from config
	if err != nil {
		return nil, fmt.Errorf("read database file: %w", err)
	}

	var data store.Snapshot
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode database file %s: %w", path, err)
	}
	data.Normalize()

	return &data, nil
}

// writeSnapshot replaces the file atomically: temp file in the same
// directory, fsync, rename.
func writeSnapshot(path string, data *store.Snapshot) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode database: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".db-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	cleanup := func() {
		//nolint:errcheck // best-effort cleanup
		os.Remove(tmpName)
	}

	if _, err := tmp.Write(raw); err != nil {
		//nolint:errcheck // already failing
		tmp.Close()
		cleanup()
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := tmp.Sync(); err != nil {
		//nolint:errcheck // already failing
		tmp.Close()
		cleanup()
		return fmt.Errorf("sync temp file: %w", err)
	}

	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return fmt.Errorf("replace database file: %w", err)
	}

	return nil
}

func (s *Store) view(ctx context.Context, fn func(*store.Snapshot) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return fn(s.data)
}

// update runs fn on the in-memory document and persists it when fn
// reports a change. If persisting fails the in-memory state is reloaded
// from disk so memory never runs ahead of the file.
func (s *Store) update(
	ctx context.Context,
	fn func(*store.Snapshot) (bool, error),
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	changed, err := fn(s.data)
	if err != nil || !changed {
		return err
	}

	if err := writeSnapshot(s.path, s.data); err != nil {
		s.reloadLocked()
		return fmt.Errorf("persist database: %w", err)
	}

	return nil
}

func (s *Store) reloadLocked() {
	data, err := readSnapshot(s.path)
	if err != nil {
		s.logger.Error("reload database after failed write", "error", err)
		return
	}
	s.data = data
}

func (s *Store) Name() string {
	return "file"
}

func (s *Store) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if _, err := os.Stat(s.path); err != nil {
		return fmt.Errorf("stat database file: %w", err)
	}
	return nil
}

func (s *Store) Close(_ context.Context) error {
	return nil
}

func (s *Store) Counts(ctx context.Context) (store.Counts, error) {
	var c store.Counts
	err := s.view(ctx, func(d *store.Snapshot) error {
		c = store.Counts{
			Users:      int64(len(d.Users)),
			Sessions:   int64(len(d.Sessions)),
			Ratings:    int64(len(d.Ratings)),
			Bookmarks:  int64(len(d.Bookmarks)),
			Comments:   int64(len(d.Comments)),
			Recipes:    int64(len(d.Recipes)),
			Activities: int64(len(d.Activities)),
		}
		return nil
	})
	return c, err
}

func (s *Store) Export(ctx context.Context) (*store.Snapshot, error) {
	var out *store.Snapshot
	err := s.view(ctx, func(d *store.Snapshot) error {
		raw, err := json.Marshal(d)
		if err != nil {
			return fmt.Errorf("encode snapshot: %w", err)
		}
		out = &store.Snapshot{}
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decode snapshot: %w", err)
		}
		out.Normalize()
		return nil
	})
	return out, err
}

func (s *Store) Import(ctx context.Context, snapshot *store.Snapshot) error {
	next := *snapshot
	next.Normalize()

	return s.update(ctx, func(d *store.Snapshot) (bool, error) {
		*d = next
		return true, nil
	})
}

var _ store.Backend = (*Store)(nil)
