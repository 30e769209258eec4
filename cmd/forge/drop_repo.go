package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newDropRepoCommand() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "drop-repo name",
		Short: "Remove a repository directory, with confirmation; installed packages stay installed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd.Context())
			if err != nil {
				return err
			}
			defer client.Close()

			if !yes && !confirmDropRepo(cmd, args[0]) {
				fmt.Fprintln(cmd.OutOrStdout(), "aborted")
				return nil
			}

			if err := client.DropRepo(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed repository %s\n", args[0])
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

// confirmDropRepo prompts on the command's input stream, the way
// `dot unmanage` confirms a destructive batch operation.
func confirmDropRepo(cmd *cobra.Command, repoName string) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "Remove repository %q? Packages installed from it stay installed. [y/N]: ", repoName)
	reader := bufio.NewReader(cmd.InOrStdin())
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes"
}
