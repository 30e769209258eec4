package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/forgepm/forge/internal/recipe"
)

func newNewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "new name...",
		Short: "Create a new recipe in user_modules (name must contain @)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd.Context())
			if err != nil {
				return err
			}
			defer client.Close()

			for _, name := range args {
				path, err := client.NewRecipe(cmd.Context(), name)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", path)
				if err := recipe.OpenInEditor(path); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "forge: open editor: %v\n", err)
				}
			}
			return nil
		},
	}
}
