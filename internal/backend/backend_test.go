// AngelaMos | 2026
// backend_test.go

package backend

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/indiankitchen/kitchen-backend/internal/config"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestOpenSelectsFileWithoutMongoURI(t *testing.T) {
	b, err := Open(context.Background(), config.StorageConfig{
		FilePath: filepath.Join(t.TempDir(), "db.json"),
		Seed:     true,
	}, discardLogger())
	require.NoError(t, err)
	defer b.Close(context.Background())

	assert.Equal(t, "file", b.Name())

	counts, err := b.Counts(context.Background())
	require.NoError(t, err)
	assert.Positive(t, counts.Recipes)
}

func TestOpenFailsLoudlyOnUnreachableMongo(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := Open(ctx, config.StorageConfig{
		FilePath:               filepath.Join(t.TempDir(), "db.json"),
		MongoURI:               "mongodb://127.0.0.1:1",
		MongoDatabase:          "kitchen",
		ConnectTimeout:         200 * time.Millisecond,
		ServerSelectionTimeout: 200 * time.Millisecond,
	}, discardLogger())
	require.Error(t, err)
}

func TestOpenMongoRequiresURI(t *testing.T) {
	_, err := OpenMongo(context.Background(), config.StorageConfig{}, discardLogger())
	require.Error(t, err)
}
