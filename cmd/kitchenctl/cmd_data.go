// AngelaMos | 2026
// cmd_data.go

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/indiankitchen/kitchen-backend/internal/backend"
	"github.com/indiankitchen/kitchen-backend/internal/store"
	"github.com/indiankitchen/kitchen-backend/internal/store/filestore"
)

var (
	migrateFrom  string
	migrateForce bool
	exportOut    string
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Copy the JSON file backend into MongoDB",
	Long: `Reads every collection from the JSON file and replaces the contents of
the configured MongoDB database with it. MONGODB_URI must be set.

The target must be empty unless --force is given.`,
	RunE: runMigrate,
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write every collection in the JSON file layout",
	Long: `Exports the configured backend (file or MongoDB) as one JSON document
with the same layout the file backend uses. Writes to stdout unless
--out is given.`,
	RunE: runExport,
}

func init() {
	migrateCmd.Flags().StringVar(&migrateFrom, "from", "", "source JSON file (default: storage.file_path)")
	migrateCmd.Flags().BoolVar(&migrateForce, "force", false, "replace a non-empty target")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file")
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	ctx, cancel, cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	defer cancel()

	from := migrateFrom
	if from == "" {
		from = cfg.Storage.FilePath
	}

	src, err := filestore.Open(from, filestore.Options{Logger: logger})
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer closeBackend(ctx, logger, src.Name(), src)

	dst, err := backend.OpenMongo(ctx, cfg.Storage, logger)
	if err != nil {
		return err
	}
	defer closeBackend(ctx, logger, dst.Name(), dst)

	counts, err := migrate(ctx, src, dst, migrateForce)
	if err != nil {
		return err
	}

	printf(cmd, "migrated %d users, %d sessions, %d ratings, %d bookmarks, %d comments, %d recipes, %d activities\n",
		counts.Users, counts.Sessions, counts.Ratings, counts.Bookmarks,
		counts.Comments, counts.Recipes, counts.Activities)
	return nil
}

// migrate copies src into dst and returns the counts of the target
// afterwards.
func migrate(ctx context.Context, src, dst store.Backend, force bool) (store.Counts, error) {
	if !force {
		existing, err := dst.Counts(ctx)
		if err != nil {
			return store.Counts{}, fmt.Errorf("inspect target: %w", err)
		}
		if total(existing) > 0 {
			return store.Counts{}, fmt.Errorf("target %s is not empty, use --force to replace it", dst.Name())
		}
	}

	snapshot, err := src.Export(ctx)
	if err != nil {
		return store.Counts{}, fmt.Errorf("export source: %w", err)
	}

	if err := dst.Import(ctx, snapshot); err != nil {
		return store.Counts{}, fmt.Errorf("import target: %w", err)
	}

	return dst.Counts(ctx)
}

func total(c store.Counts) int64 {
	return c.Users + c.Sessions + c.Ratings + c.Bookmarks + c.Comments + c.Recipes + c.Activities
}

func runExport(cmd *cobra.Command, _ []string) error {
	ctx, cancel, cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	defer cancel()

	cfg.Storage.Seed = false
	b, err := backend.Open(ctx, cfg.Storage, logger)
	if err != nil {
		return err
	}
	defer closeBackend(ctx, logger, b.Name(), b)

	if exportOut == "" {
		return exportSnapshot(ctx, b, cmd.OutOrStdout())
	}

	f, err := os.Create(exportOut)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := exportSnapshot(ctx, b, f); err != nil {
		//nolint:errcheck // already failing
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}

	printf(cmd, "exported %s to %s\n", b.Name(), exportOut)
	return nil
}

func exportSnapshot(ctx context.Context, b store.Backend, w io.Writer) error {
	snapshot, err := b.Export(ctx)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snapshot); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return nil
}
