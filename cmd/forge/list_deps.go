package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newListDepsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list-deps",
		Short: "Print implicitly-installed packages and their dependents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd.Context())
			if err != nil {
				return err
			}
			defer client.Close()

			implicits, err := client.ListDeps(cmd.Context())
			if err != nil {
				return err
			}
			for _, i := range implicits {
				dependents := "(orphan)"
				if len(i.Dependents) > 0 {
					dependents = strings.Join(i.Dependents, ", ")
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-30s required by: %s\n", i.Name, dependents)
			}
			return nil
		},
	}
}
