package main

import (
	"os"

	"github.com/recipebox/recipebox/cmd/recipebox/cmd"
	"github.com/recipebox/recipebox/internal/logger"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "recipebox",
		Short:         "Administration tools for Recipe Box",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.AddCommand(cmd.MigrateCmd())
	rootCmd.AddCommand(cmd.UsersCmd())
	rootCmd.AddCommand(cmd.RecipesCmd())

	err := rootCmd.Execute()
	logger.Flush()
	if err != nil {
		os.Exit(1)
	}
}
