package cmd

import (
	"fmt"

	"github.com/recipebox/recipebox/internal/db"
	"github.com/recipebox/recipebox/internal/repository"
	"github.com/recipebox/recipebox/internal/service"
	"github.com/spf13/cobra"
)

func UsersCmd() *cobra.Command {
	usersCmd := &cobra.Command{
		Use:   "users",
		Short: "Manage user accounts",
	}

	usersCmd.AddCommand(&cobra.Command{
		Use:   "promote <email>",
		Short: "Grant the admin role to an existing account",
		Args:  cobra.ExactArgs(1),
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

			users := service.NewUserService(repository.NewUserRepository(conn))
			user, err := users.PromoteByEmail(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s) is now an admin\n", user.Email, user.ID)
			return nil
		},
	})

	return usersCmd
}
