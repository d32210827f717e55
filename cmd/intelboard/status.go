package main

import (
	"context"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	authpg "github.com/intelboard/intelboard/internal/auth/postgres"
	"github.com/intelboard/intelboard/internal/store"
)

const defaultStatusTimeout = 10 * time.Second

// NewStatusCmd creates the status subcommand.
func NewStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show database and schema status",
		Long:  `Reports database reachability, schema migration version, and the number of registered users.`,
		RunE:  runStatus,
	}
}

func runStatus(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), defaultStatusTimeout)
	defer cancel()

	db, err := store.Connect(ctx, cfg.Database.URL)
	if err != nil {
		return oops.Code("DB_CONNECT_FAILED").With("operation", "connect to database").Wrap(err)
	}
	defer db.Close()
	cmd.Println("Database: reachable")

	migrator, err := store.NewMigrator(cfg.Database.URL)
	if err != nil {
		return oops.Code("STATUS_FAILED").With("operation", "create migrator").Wrap(err)
	}
	defer migrator.Close() //nolint:errcheck // nothing to do at exit

	version, dirty, err := migrator.Version()
	if err != nil {
		return oops.Code("STATUS_FAILED").With("operation", "read schema version").Wrap(err)
	}
	if dirty {
		cmd.Printf("Schema: version %d (DIRTY)\n", version)
	} else {
		cmd.Printf("Schema: version %d\n", version)
	}

	users := authpg.NewUserRepository(db.Pool())
	count, err := users.Count(ctx)
	if err != nil {
		return oops.Code("STATUS_FAILED").With("operation", "count users").Wrap(err)
	}
	cmd.Printf("Users: %d\n", count)

	return nil
}
