package cmd

import (
	"fmt"

	"github.com/recipebox/recipebox/internal/db"
	"github.com/recipebox/recipebox/internal/repository"
	"github.com/recipebox/recipebox/internal/service"
	"github.com/spf13/cobra"
)

func RecipesCmd() *cobra.Command {
	recipesCmd := &cobra.Command{
		Use:   "recipes",
		Short: "Manage recipes in the document store",
	}

	recipesCmd.AddCommand(&cobra.Command{
		Use:   "import <dir>",
		Short: "Import Markdown recipes with YAML front matter",
		Long: `Import every .md file in <dir> as a recipe.

Front matter keys: title, ingredients (string or list), imageUrl,
published, createdAt. The Markdown body becomes the instructions.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := setup()
			ctx := cmd.Context()

			client, database, err := db.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDatabase, true)
			if err != nil {
				return err
			}
			defer db.DisconnectMongo(client)

			importer := service.NewRecipeImporter(repository.NewRecipeRepository(database))
			count, err := importer.ImportDir(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d recipes\n", count)
			return nil
		},
	})

	return recipesCmd
}
