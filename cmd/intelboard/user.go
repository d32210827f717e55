package main

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/intelboard/intelboard/internal/auth"
	authpg "github.com/intelboard/intelboard/internal/auth/postgres"
	"github.com/intelboard/intelboard/internal/mirror"
	"github.com/intelboard/intelboard/internal/store"
)

const defaultUserTimeout = 15 * time.Second

// NewUserCmd creates the user subcommand group.
func NewUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage user accounts",
	}
	cmd.AddCommand(newUserAddCmd())
	cmd.AddCommand(newUserCheckCmd())
	return cmd
}

func newUserAddCmd() *cobra.Command {
	var role string

	cmd := &cobra.Command{
		Use:   "add <username> <password>",
		Short: "Register a new user",
		Long: `Registers a new user after validating the credentials against policy.
An unrecognized role silently falls back to the default analyst role.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUserAdd(cmd, args[0], args[1], role)
		},
	}

	cmd.Flags().StringVar(&role, "role", string(auth.DefaultRole), "role for the new user (analyst or admin)")

	return cmd
}

func runUserAdd(cmd *cobra.Command, username, password, role string) error {
	svc, db, err := buildAuthService(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), defaultUserTimeout)
	defer cancel()

	user, err := svc.Register(ctx, username, password, role)
	if err != nil {
		if errors.Is(err, auth.ErrDuplicateUsername) {
			return oops.Code("USER_DUPLICATE").Errorf("username %q is already taken", username)
		}
		return err
	}

	cmd.Printf("Created user %q with role %s\n", user.Username, user.Role)
	return nil
}

func newUserCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <username> <password>",
		Short: "Verify a username/password pair",
		Long: `Attempts an authentication with the given credentials and reports the
result. The output does not reveal whether the username exists.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUserCheck(cmd, args[0], args[1])
		},
	}
}

func runUserCheck(cmd *cobra.Command, username, password string) error {
	svc, db, err := buildAuthService(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), defaultUserTimeout)
	defer cancel()

	ok, role, err := svc.Authenticate(ctx, username, password)
	if err != nil {
		return err
	}
	if !ok {
		cmd.Println("Authentication failed: invalid username or password")
		return nil
	}

	cmd.Printf("Authenticated, role: %s\n", role)
	return nil
}

// buildAuthService wires a Service against the configured database and
// mirror. The caller owns closing the returned store.
func buildAuthService(cmd *cobra.Command) (*auth.Service, *store.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), defaultUserTimeout)
	defer cancel()

	db, err := store.Connect(ctx, cfg.Database.URL)
	if err != nil {
		return nil, nil, oops.Code("DB_CONNECT_FAILED").With("operation", "connect to database").Wrap(err)
	}

	var m *mirror.File
	if cfg.Mirror.Path != "" {
		m = mirror.New(cfg.Mirror.Path)
	}

	svc, err := auth.NewServiceWithLogger(
		authpg.NewUserRepository(db.Pool()),
		auth.NewArgon2idHasher(),
		m,
		slog.Default(),
	)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return svc, db, nil
}
