// AngelaMos | 2026
// cmd_users.go

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/indiankitchen/kitchen-backend/internal/activity"
	"github.com/indiankitchen/kitchen-backend/internal/backend"
	"github.com/indiankitchen/kitchen-backend/internal/session"
	"github.com/indiankitchen/kitchen-backend/internal/store"
	"github.com/indiankitchen/kitchen-backend/internal/user"
)

var (
	adminEmail    string
	adminPassword string
	adminName     string
)

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an administrator or promote an existing account",
	Long: `Creates an administrator account. When an account with the email
already exists it is promoted to admin and its password is left alone.

Falls back to ADMIN_EMAIL, ADMIN_PASSWORD and ADMIN_NAME.`,
	RunE: runCreateAdmin,
}

var sweepSessionsCmd = &cobra.Command{
	Use:   "sweep-sessions",
	Short: "Delete expired sessions once",
	RunE:  runSweepSessions,
}

func init() {
	createAdminCmd.Flags().StringVar(&adminEmail, "email", "", "admin email")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "admin password")
	createAdminCmd.Flags().StringVar(&adminName, "name", "", "display name")
}

func runCreateAdmin(cmd *cobra.Command, _ []string) error {
	ctx, cancel, cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	defer cancel()

	email := firstNonEmpty(adminEmail, cfg.Admin.Email)
	password := firstNonEmpty(adminPassword, cfg.Admin.Password)
	name := firstNonEmpty(adminName, cfg.Admin.Name)
	if email == "" || len(password) < 8 {
		return fmt.Errorf("an email and a password of at least 8 characters are required")
	}

	b, err := backend.Open(ctx, cfg.Storage, logger)
	if err != nil {
		return err
	}
	defer closeBackend(ctx, logger, b.Name(), b)

	u, created, err := ensureAdmin(ctx, user.NewService(b), email, password, name)
	if err != nil {
		return err
	}

	if created {
		printf(cmd, "created admin %s (%s)\n", u.Email, u.ID)
	} else {
		printf(cmd, "promoted %s (%s) to admin\n", u.Email, u.ID)
	}
	return nil
}

func ensureAdmin(
	ctx context.Context,
	users *user.Service,
	email, password, name string,
) (*store.User, bool, error) {
	u, created, err := users.EnsureAdmin(ctx, email, password, name)
	if err != nil {
		return nil, false, err
	}
	if created || u.Role == store.RoleAdmin {
		return u, created, nil
	}

	if _, err := users.UpdateRole(ctx, u.ID, store.RoleAdmin); err != nil {
		return nil, false, err
	}
	u.Role = store.RoleAdmin
	return u, false, nil
}

func runSweepSessions(cmd *cobra.Command, _ []string) error {
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

	manager := session.NewManager(b, activity.NewService(b, logger), cfg.Session.TTL, logger)
	removed, err := manager.SweepExpired(ctx)
	if err != nil {
		return err
	}

	printf(cmd, "removed %d expired sessions\n", removed)
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
