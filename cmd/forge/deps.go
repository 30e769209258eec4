package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDepsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "deps name",
		Short: "Print the direct dependencies of name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd.Context())
			if err != nil {
				return err
			}
			defer client.Close()

			deps, err := client.Deps(args[0])
			if err != nil {
				return err
			}
			if len(deps) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "(no dependencies)")
				return nil
			}
			for _, d := range deps {
				fmt.Fprintln(cmd.OutOrStdout(), d)
			}
			return nil
		},
	}
}
