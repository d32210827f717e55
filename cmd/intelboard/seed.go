package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/intelboard/intelboard/internal/auth"
	authpg "github.com/intelboard/intelboard/internal/auth/postgres"
	"github.com/intelboard/intelboard/internal/mirror"
	"github.com/intelboard/intelboard/internal/store"
)

// Default timeout for seed command.
const defaultSeedTimeout = 30 * time.Second

// seedConfig holds configuration for the seed command.
type seedConfig struct {
	timeout time.Duration
}

// NewSeedCmd creates the seed subcommand.
func NewSeedCmd() *cobra.Command {
	cfg := &seedConfig{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Bootstrap the database and the seed admin account",
		Long: `Runs migrations, imports the legacy users file, and ensures the seed
admin account exists with its fixed credentials and the admin role.
This command is idempotent - it is safe to run on every start.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd, args, cfg)
		},
	}

	cmd.Flags().DurationVar(&cfg.timeout, "timeout", defaultSeedTimeout, "timeout for database operations (e.g., 30s, 1m)")

	return cmd
}

func runSeed(cmd *cobra.Command, _ []string, seedCfg *seedConfig) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Use cmd.Context() to respect SIGINT/SIGTERM signals
	ctx, cancel := context.WithTimeout(cmd.Context(), seedCfg.timeout)
	defer cancel()

	cmd.Println("Running migrations...")
	migrator, err := store.NewMigrator(cfg.Database.URL)
	if err != nil {
		return oops.Code("MIGRATION_FAILED").With("operation", "create migrator").Wrap(err)
	}
	if err := migrator.Up(); err != nil {
		_ = migrator.Close() //nolint:errcheck // migration error takes precedence
		return oops.Code("MIGRATION_FAILED").With("operation", "run migrations").Wrap(err)
	}
	if err := migrator.Close(); err != nil {
		return oops.Code("MIGRATION_FAILED").With("operation", "close migrator").Wrap(err)
	}

	cmd.Println("Connecting to database...")
	db, err := store.Connect(ctx, cfg.Database.URL)
	if err != nil {
		return oops.Code("DB_CONNECT_FAILED").With("operation", "connect to database").Wrap(err)
	}
	defer db.Close()

	users := authpg.NewUserRepository(db.Pool())
	hasher := auth.NewArgon2idHasher()

	var m *mirror.File
	if cfg.Mirror.Path != "" {
		m = mirror.New(cfg.Mirror.Path)

		imported, importErr := auth.ImportMirror(ctx, users, m, slog.Default())
		if importErr != nil {
			return oops.Code("SEED_FAILED").With("operation", "import legacy mirror").Wrap(importErr)
		}
		if imported > 0 {
			cmd.Printf("Imported %d users from %s\n", imported, cfg.Mirror.Path)
		}
	}

	seeder, err := auth.NewSeedService(users, hasher, m, slog.Default())
	if err != nil {
		return oops.Code("SEED_FAILED").With("operation", "create seed service").Wrap(err)
	}
	if err := seeder.EnsureSeedAdmin(ctx); err != nil {
		return oops.Code("SEED_FAILED").With("operation", "ensure seed admin").Wrap(err)
	}

	cmd.Printf("Seed admin %q is present with the admin role\n", auth.SeedAdminUsername)
	cmd.Println("Seeding complete!")
	return nil
}
