package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSaveDepCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "save-dep name",
		Short: "Promote an implicitly-installed package to explicit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd.Context())
			if err != nil {
				return err
			}
			defer client.Close()

			if err := client.SaveDep(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now explicit\n", args[0])
			return nil
		},
	}
}
