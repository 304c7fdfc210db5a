package main

import (
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/yanizio/adeptcms/internal/database"
)

func newMigrateCommand(flags *dbFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Schema migrations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, dialect, err := flags.open(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			if err := database.Migrate(cmd.Context(), db, dialect); err != nil {
				return err
			}
			return printVersion(cmd, db, dialect)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, dialect, err := flags.open(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			if err := database.Rollback(cmd.Context(), db, dialect); err != nil {
				return err
			}
			return printVersion(cmd, db, dialect)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Log applied and pending migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, dialect, err := flags.open(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()
			return database.Status(cmd.Context(), db, dialect)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, dialect, err := flags.open(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()
			return printVersion(cmd, db, dialect)
		},
	})

	return cmd
}

func printVersion(cmd *cobra.Command, db *sqlx.DB, dialect database.Dialect) error {
	v, err := database.Version(cmd.Context(), db, dialect)
	if err != nil {
		return err
	}
	cmd.Printf("schema version: %d\n", v)
	return nil
}
