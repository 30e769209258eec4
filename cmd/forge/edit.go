package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/forgepm/forge/internal/recipe"
)

func newEditCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "edit name...",
		Short: "Open existing recipe(s) in the configured editor",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd.Context())
			if err != nil {
				return err
			}
			defer client.Close()

			for _, name := range args {
				path, err := client.EditRecipe(cmd.Context(), name)
				if err != nil {
					return err
				}
				if err := recipe.OpenInEditor(path); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "forge: open editor: %v\n", err)
				}
			}
			return nil
		},
	}
}
