package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newFilesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "files name",
		Short: "Print files owned by name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd.Context())
			if err != nil {
				return err
			}
			defer client.Close()

			files, err := client.Files(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			for _, f := range files {
				fmt.Fprintln(cmd.OutOrStdout(), f)
			}
			return nil
		},
	}
}
