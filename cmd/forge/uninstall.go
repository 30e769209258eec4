package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newUninstallCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "uninstall name...",
		Short: "Uninstall each named package; retain source unless --force",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd.Context())
			if err != nil {
				return err
			}
			defer client.Close()

			if err := client.Uninstall(cmd.Context(), args, globalCfg.force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "uninstalled: %v\n", args)
			return nil
		},
	}
}
