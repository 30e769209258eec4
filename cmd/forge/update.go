package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newUpdateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "update [name...]",
		Short: "Update each named package, or every installed package if none are given",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd.Context())
			if err != nil {
				return err
			}
			defer client.Close()

			results, err := client.Update(cmd.Context(), args, globalCfg.force)
			if err != nil {
				return err
			}
			for _, r := range results {
				status := "updated"
				if r.UpToDate {
					status = "up-to-date"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", r.Name, status)
			}
			return nil
		},
	}
}
