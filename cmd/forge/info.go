package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info name...",
		Short: "Print package metadata and dependency list",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd.Context())
			if err != nil {
				return err
			}
			defer client.Close()

			for _, name := range args {
				info, err := client.Info(cmd.Context(), name)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "name:         %s\n", info.Name)
				fmt.Fprintf(cmd.OutOrStdout(), "version:      %s\n", info.Version)
				fmt.Fprintf(cmd.OutOrStdout(), "description:  %s\n", info.Description)
				if info.Website != "" {
					fmt.Fprintf(cmd.OutOrStdout(), "website:      %s\n", info.Website)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "installed:    %t\n", info.Installed)
				fmt.Fprintf(cmd.OutOrStdout(), "explicit:     %t\n", info.IsExplicit)
				fmt.Fprintf(cmd.OutOrStdout(), "dependencies: %s\n", strings.Join(info.Dependencies, ", "))
				fmt.Fprintln(cmd.OutOrStdout())
			}
			return nil
		},
	}
}
