package main

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/yanizio/adeptcms/internal/config"
	"github.com/yanizio/adeptcms/internal/database"
	"github.com/yanizio/adeptcms/internal/vault"
)

type dbFlags struct {
	driver string
	dsn    string
}

func newRootCommand() *cobra.Command {
	var flags dbFlags

	cmd := &cobra.Command{
		Use:           "cmsctl",
		Short:         "Adept CMS operator tool",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	cmd.PersistentFlags().StringVar(&flags.driver, "driver", "", "Database driver (mysql or sqlite); overrides config")
	cmd.PersistentFlags().StringVar(&flags.dsn, "dsn", "", "Database DSN; overrides config")

	cmd.AddCommand(newMigrateCommand(&flags))
	cmd.AddCommand(newBackupsCommand(&flags))
	return cmd
}

// open connects using the flags when --dsn is set, else conf/global.yaml.
func (f *dbFlags) open(ctx context.Context) (*sqlx.DB, database.Dialect, error) {
	opts := database.Options{DSN: f.dsn, Retries: 1, RetryBackoff: time.Second}
	driver := f.driver

	if f.dsn == "" {
		cfg, err := config.Load()
		if err != nil {
			return nil, "", err
		}
		if driver == "" {
			driver = cfg.Database.Driver
		}
		opts.DSN = cfg.Database.DSN
		opts.Password = cfg.Database.Password
		opts.Retries = cfg.Database.Retries
		opts.RetryBackoff = cfg.Database.RetryBackoff

		if vault.IsRef(opts.Password) {
			vc, err := vault.New(ctx, nil)
			if err != nil {
				return nil, "", err
			}
			if opts.Password, err = vc.Resolve(ctx, opts.Password, 0); err != nil {
				return nil, "", err
			}
		}
	}

	dialect, err := database.ParseDialect(driver)
	if err != nil {
		return nil, "", err
	}
	opts.Dialect = dialect

	db, err := database.Open(ctx, opts)
	if err != nil {
		return nil, "", err
	}
	return db, dialect, nil
}
