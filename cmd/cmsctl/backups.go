package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/yanizio/adeptcms/internal/cms"
)

func newBackupsCommand(flags *dbFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backups",
		Short: "Backup bookkeeping",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List backup records",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, dialect, err := flags.open(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			list, err := cms.New(db, dialect).Backups(cmd.Context())
			if err != nil {
				return err
			}
			for _, b := range list {
				created := time.Unix(b.CreatedDate, 0).UTC().Format(time.RFC3339)
				cmd.Printf("%d\t%s\t%s\n", b.ID, b.Name, created)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "count",
		Short: "Print the number of backup records",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, dialect, err := flags.open(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			n, err := cms.New(db, dialect).BackupCount(cmd.Context())
			if err != nil {
				return err
			}
			cmd.Println(n)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete one backup record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid backup id %q", args[0])
			}

			db, dialect, err := flags.open(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			repo := cms.New(db, dialect)
			name, err := repo.BackupName(cmd.Context(), id)
			if err != nil {
				return err
			}
			if err := repo.DeleteBackup(cmd.Context(), id); err != nil {
				return err
			}
			cmd.Printf("deleted backup %d (%s)\n", id, name)
			return nil
		},
	})

	return cmd
}
