package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Chandhu-cpp/Emergency-Blood-Finder/internal/bloodbank/store"
	"github.com/Chandhu-cpp/Emergency-Blood-Finder/internal/platform/config"
	"github.com/Chandhu-cpp/Emergency-Blood-Finder/internal/platform/postgres"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(func(m *postgres.Migrator) error {
				changed, version, err := m.Up()
				if err != nil {
					return fmt.Errorf("migration failed: %w", err)
				}
				if !changed {
					cmd.Printf("Schema already at version %d.\n", version)
					return nil
				}
				cmd.Printf("Schema migrated to version %d.\n", version)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(func(m *postgres.Migrator) error {
				statuses, err := m.Status()
				if err != nil {
					return fmt.Errorf("failed to get migration status: %w", err)
				}
				cmd.Printf("%-10s %-40s %s\n", "VERSION", "NAME", "STATUS")
				for _, s := range statuses {
					status := "pending"
					switch {
					case s.Dirty:
						status = "dirty"
					case s.Applied:
						status = "applied"
					}
					cmd.Printf("%-10d %-40s %s\n", s.Version, s.Name, status)
				}
				return nil
			})
		},
	})

	return cmd
}

// withMigrator runs fn against the configured database.
func withMigrator(fn func(*postgres.Migrator) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if !cfg.Database.Enabled() {
		return errors.New("DATABASE_URL is required")
	}
	m, err := postgres.NewMigrator(cfg.Database.URL, store.Migrations, "migrations")
	if err != nil {
		return err
	}
	defer m.Close()
	return fn(m)
}
