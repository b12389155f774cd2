package cmd

import (
	"fmt"

	"github.com/recipebox/recipebox/internal/db"
	"github.com/spf13/cobra"
)

func MigrateCmd() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back relational schema migrations",
	}

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := setup()
			conn, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer conn.Close()

			err = db.RunMigrations(conn.DB, cfg.DBDriver)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := setup()
			conn, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer conn.Close()

			err = db.MigrateDown(conn.DB, cfg.DBDriver)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "rolled back one migration")
			return nil
		},
	})

	return migrateCmd
}
