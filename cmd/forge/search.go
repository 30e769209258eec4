package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

func newSearchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "search pattern",
		Short: "Filter the package list by a case-insensitive regular expression",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd.Context())
			if err != nil {
				return err
			}
			defer client.Close()

			rows, err := client.Search(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			sort.Slice(rows, func(i, j int) bool { return rows[i].Name < rows[j].Name })

			for _, row := range rows {
				fmt.Fprintf(cmd.OutOrStdout(), "%-30s %s\n", row.Name, row.Version)
			}
			return nil
		},
	}
}
