package main

import (
	"context"
	"database/sql"
	"fmt"
	"garage-spot-service/internal/adapters/repositories"
	"garage-spot-service/internal/config"
	"garage-spot-service/internal/platform/db"
	"os"

	"github.com/spf13/cobra"
)

type options struct {
	driver   string
	dsn      string
	seedPath string
	ifEmpty  bool
}

func main() {
	if err := config.LoadEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "dbtool",
		Short:         "Manage the trucks database",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&opts.driver, "driver", config.Get("DB_DRIVER", "sqlite"), "database driver: sqlite or pgx")
	root.PersistentFlags().StringVar(&opts.dsn, "dsn", "", "connection string (defaults to DB_PATH or DATABASE_URL)")

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create the trucks schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			conn, _, err := open(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer conn.Close()

			if err := repositories.InitSchema(cmd.Context(), conn); err != nil {
				return err
			}
			cmd.Println("Schema ready.")
			return nil
		},
	}

	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Load trucks from a JSON seed file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			conn, dialect, err := open(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer conn.Close()

			if err := repositories.InitSchema(cmd.Context(), conn); err != nil {
				return err
			}

			seed := repositories.SeedFromJSON
			if opts.ifEmpty {
				seed = repositories.SeedIfEmpty
			}
			n, err := seed(cmd.Context(), conn, dialect, opts.seedPath)
			if err != nil {
				return err
			}
			cmd.Printf("Seeded %d trucks from %s.\n", n, opts.seedPath)
			return nil
		},
	}
	seedCmd.Flags().StringVar(&opts.seedPath, "file", config.Get("SEED_PATH", "data/seeds/trucks.json"), "seed file")
	seedCmd.Flags().BoolVar(&opts.ifEmpty, "if-empty", false, "only seed when the table has no rows")

	root.AddCommand(initCmd, seedCmd)
	return root
}

func open(ctx context.Context, opts *options) (*sql.DB, repositories.Dialect, error) {
	dialect, err := repositories.ParseDialect(opts.driver)
	if err != nil {
		return nil, 0, err
	}

	dsn := opts.dsn
	driver := "sqlite"
	if dialect == repositories.Postgres {
		driver = "pgx"
		if dsn == "" {
			dsn = config.Get("DATABASE_URL", "")
		}
		if dsn == "" {
			return nil, 0, fmt.Errorf("DATABASE_URL or --dsn is required for driver %s", opts.driver)
		}
	} else if dsn == "" {
		dsn = config.Get("DB_PATH", "data/app.db")
	}

	conn, err := db.Open(ctx, driver, dsn)
	if err != nil {
		return nil, 0, err
	}
	return conn, dialect, nil
}
