package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newAddRepoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add-repo url",
		Short: "Clone a recipe repository into the module tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd.Context())
			if err != nil {
				return err
			}
			defer client.Close()

			repoName := repoNameFromURL(args[0])
			if err := client.AddRepo(cmd.Context(), args[0], repoName); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "cloned %s into %s\n", args[0], repoName)
			return nil
		},
	}
}

// repoNameFromURL derives the module-tree subdirectory name from a
// repository URL, the way `git clone` derives its default checkout
// directory: the final path segment, with a trailing ".git" stripped.
func repoNameFromURL(url string) string {
	name := strings.TrimSuffix(strings.TrimSuffix(url, "/"), ".git")
	if i := strings.LastIndexAny(name, "/:"); i >= 0 {
		name = name[i+1:]
	}
	return name
}
