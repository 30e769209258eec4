package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

func newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Enumerate known packages with install status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd.Context())
			if err != nil {
				return err
			}
			defer client.Close()

			rows, err := client.List(cmd.Context())
			if err != nil {
				return err
			}
			sort.Slice(rows, func(i, j int) bool { return rows[i].Name < rows[j].Name })

			for _, row := range rows {
				status := "not installed"
				if row.Installed {
					status = "installed"
					if row.IsExplicit {
						status += ", explicit"
					} else {
						status += ", implicit"
					}
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-30s %-10s %s\n", row.Name, row.Version, status)
			}
			return nil
		},
	}
}
