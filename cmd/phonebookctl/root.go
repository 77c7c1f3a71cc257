package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/phonebook/internal/adapter/driven/auditlog"
	sqliteadapter "github.com/ericfisherdev/phonebook/internal/adapter/driven/sqlite"
	"github.com/ericfisherdev/phonebook/internal/application"
	"github.com/ericfisherdev/phonebook/internal/config"
)

// options holds flags shared by every subcommand.
type options struct {
	dbPath string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "phonebookctl",
		Short:         "Administer the phone book database",
		Long:          `phonebookctl manages user accounts and applies schema migrations to the phone book SQLite database.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&opts.dbPath, "db", config.LoadDBPath(), "SQLite database path (env: PHONEBOOK_DB_PATH)")

	root.AddCommand(newUsersCmd(opts))
	root.AddCommand(newMigrateCmd(opts))

	return root
}

// openDB opens the database and brings its schema up to date.
func openDB(ctx context.Context, path string) (*sqliteadapter.DB, uint, error) {
	db, err := sqliteadapter.NewDB(ctx, path)
	if err != nil {
		return nil, 0, err
	}

	version, err := sqliteadapter.RunMigrations(db.Writer)
	if err != nil {
		_ = db.Close()
		return nil, 0, err
	}

	return db, version, nil
}

// openAuthService wires an AuthService over the database at path. The
// returned func releases the database and the audit log.
func openAuthService(ctx context.Context, path string) (*application.AuthService, func(), error) {
	auditCfg, err := config.LoadAudit()
	if err != nil {
		return nil, nil, err
	}

	db, _, err := openDB(ctx, path)
	if err != nil {
		return nil, nil, err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	audit := auditlog.New(auditlog.Options{
		Path:       auditCfg.Path,
		MaxSizeMB:  auditCfg.MaxSizeMB,
		MaxBackups: auditCfg.MaxBackups,
		MaxAgeDays: auditCfg.MaxAgeDays,
		Compress:   auditCfg.Compress,
	}, logger)

	// The CLI never issues tokens.
	svc := application.NewAuthService(sqliteadapter.NewUserRepo(db), nil, audit)

	cleanup := func() {
		if err := audit.Close(); err != nil {
			logger.Error("error closing audit log", "error", err)
		}
		if err := db.Close(); err != nil {
			logger.Error("error closing database", "error", err)
		}
	}

	return svc, cleanup, nil
}

func newMigrateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, version, err := openDB(cmd.Context(), opts.dbPath)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Database %s is at schema version %d\n", opts.dbPath, version)
			return nil
		},
	}
}
