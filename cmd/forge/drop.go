package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newDropCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "drop name",
		Short: "Delete the catalog row for name and tombstone its recipe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd.Context())
			if err != nil {
				return err
			}
			defer client.Close()

			if err := client.Drop(cmd.Context(), args[0], time.Now().Unix()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "dropped %s\n", args[0])
			return nil
		},
	}
}
