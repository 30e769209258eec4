package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newInstallCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "install name...",
		Short: "Install each named package; dependency closure is automatic",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd.Context())
			if err != nil {
				return err
			}
			defer client.Close()

			if err := client.Install(cmd.Context(), args, globalCfg.only); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "installed: %v\n", args)
			return nil
		},
	}
}
