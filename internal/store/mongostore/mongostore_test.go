// AngelaMos | 2026
// mongostore_test.go

package mongostore

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/indiankitchen/kitchen-backend/internal/store"
	"github.com/indiankitchen/kitchen-backend/internal/store/storetest"
)

// Runs only when MONGODB_TEST_URI points at a disposable server. Every
// subtest gets its own database, dropped on cleanup.
func TestConformance(t *testing.T) {
	uri := os.Getenv("MONGODB_TEST_URI")
	if uri == "" {
		t.Skip("MONGODB_TEST_URI not set")
	}

	storetest.Run(t, func(t *testing.T) store.Backend {
		ctx := context.Background()
		name := "kitchen_test_" + uuid.NewString()[:8]

		s, err := Open(ctx, Config{
			URI:                    uri,
			Database:               name,
			ConnectTimeout:         5 * time.Second,
			ServerSelectionTimeout: 5 * time.Second,
		})
		require.NoError(t, err)

		t.Cleanup(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = s.Drop(ctx)
			_ = s.Close(ctx)
		})
		return s
	})
}

func TestOpenRequiresURI(t *testing.T) {
	_, err := Open(context.Background(), Config{Database: "kitchen"})
	require.Error(t, err)
}

func TestOpenUnreachableServerFails(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := Open(ctx, Config{
		URI:                    "mongodb://127.0.0.1:1",
		Database:               "kitchen",
		ServerSelectionTimeout: 200 * time.Millisecond,
		ConnectTimeout:         200 * time.Millisecond,
	})
	require.Error(t, err)
}
