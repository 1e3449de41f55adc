package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/uptrace/bun/migrate"

	"github.com/kusitms-com/meetupd/internal/db/bunx"
	"github.com/kusitms-com/meetupd/internal/migrations"
)

var migrationsCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the meetupd schema",
	Long:  `Apply, inspect, and roll back the meetupd schema migrations.`,
}

type migratorFunc func(ctx context.Context, m *migrate.Migrator) error

// withMigrator opens the configured database for the duration of fn.
func withMigrator(ctx context.Context, fn migratorFunc) error {
	db, err := bunx.NewDB(ctx, cfg.DatabaseURL, bunx.WithMaxConns(cfg.MaxDBConnections))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if cerr := bunx.Close(db); cerr != nil {
			logger.Warn("closing database", "error", cerr)
		}
	}()
	return fn(ctx, migrate.NewMigrator(db, migrations.Migrations))
}

// locked runs fn between Lock and Unlock so two operators cannot migrate at once.
func locked(ctx context.Context, m *migrate.Migrator, fn func() (*migrate.MigrationGroup, error), verb string) error {
	if err := m.Lock(ctx); err != nil {
		return fmt.Errorf("lock migrations: %w", err)
	}
	defer func() {
		if err := m.Unlock(ctx); err != nil {
			logger.Warn("unlock migrations", "error", err)
		}
	}()

	group, err := fn()
	if err != nil {
		return fmt.Errorf("%s: %w", verb, err)
	}
	if group.IsZero() {
		logger.Info("nothing to " + verb)
		return nil
	}
	logger.Info(verb+" done", "group", group.ID, "migrations", group.Migrations.String())
	return nil
}

func printMigrationStatus(out io.Writer, ms migrate.MigrationSlice) {
	applied := ms.Applied()
	fmt.Fprintf(out, "%d applied, %d pending\n", len(applied), len(ms.Unapplied()))
	for _, m := range ms {
		if m.IsApplied() {
			fmt.Fprintf(out, "  [x] %s (group %d)\n", m.Name, m.GroupID)
		} else {
			fmt.Fprintf(out, "  [ ] %s\n", m.Name)
		}
	}
}

var migrationsInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the migration bookkeeping tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(cmd.Context(), func(ctx context.Context, m *migrate.Migrator) error {
			if err := m.Init(ctx); err != nil {
				return fmt.Errorf("init migrations: %w", err)
			}
			logger.Info("migration tables ready")
			return nil
		})
	},
}

var migrationsUpCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending migrations",
	Long:  `Creates the bookkeeping tables if needed, then applies every pending migration under the migration lock.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(cmd.Context(), func(ctx context.Context, m *migrate.Migrator) error {
			if err := m.Init(ctx); err != nil {
				return fmt.Errorf("init migrations: %w", err)
			}
			return locked(ctx, m, func() (*migrate.MigrationGroup, error) {
				return m.Migrate(ctx)
			}, "migrate")
		})
	},
}

var migrationsStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "List applied and pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(cmd.Context(), func(ctx context.Context, m *migrate.Migrator) error {
			ms, err := m.MigrationsWithStatus(ctx)
			if err != nil {
				return fmt.Errorf("read migration status: %w", err)
			}
			printMigrationStatus(cmd.OutOrStdout(), ms)
			return nil
		})
	},
}

var migrationsRollbackCmd = &cobra.Command{
	Use:   "rollback",
	Short: "Undo the last applied migration group",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(cmd.Context(), func(ctx context.Context, m *migrate.Migrator) error {
			return locked(ctx, m, func() (*migrate.MigrationGroup, error) {
				return m.Rollback(ctx)
			}, "rollback")
		})
	},
}

var migrationsUnlockCmd = &cobra.Command{
	Use:   "unlock",
	Short: "Release a migration lock left behind by a crashed run",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(cmd.Context(), func(ctx context.Context, m *migrate.Migrator) error {
			if err := m.Unlock(ctx); err != nil {
				return fmt.Errorf("unlock migrations: %w", err)
			}
			logger.Info("migration lock released")
			return nil
		})
	},
}

func init() {
	migrationsCmd.AddCommand(migrationsInitCmd, migrationsUpCmd, migrationsStatusCmd,
		migrationsRollbackCmd, migrationsUnlockCmd)
	rootCmd.AddCommand(migrationsCmd)
}
