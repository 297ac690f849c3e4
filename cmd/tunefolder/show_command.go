package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"tunefolder/internal/folder"
	"tunefolder/internal/store"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	var folderName string
	var jsonOut bool
	var withABC bool

	cmd := &cobra.Command{
		Use:   "show SLUG",
		Short: "Display one set with its tunes and navigation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(st *store.Store) error {
				name, err := resolveFolderName(cmd.Context(), st, folderName)
				if err != nil {
					return err
				}
				build, err := st.Latest(cmd.Context(), name)
				if err != nil {
					return err
				}
				set, ok := folder.FindSet(build.Folder, args[0])
				if !ok {
					return fmt.Errorf("set %q not found in folder %s", args[0], build.FolderName)
				}
				if jsonOut {
					return writeJSON(cmd, set)
				}
				printSet(cmd.OutOrStdout(), set, withABC)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&folderName, "folder", "", "Folder to search (defaults to the only built folder)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output the set as JSON")
	cmd.Flags().BoolVar(&withABC, "abc", false, "Print each tune's ABC text")
	return cmd
}

func printSet(out io.Writer, set folder.Set, withABC bool) {
	fmt.Fprintf(out, "%s\n", set.Name)
	fmt.Fprintf(out, "  Slug:     %s\n", set.Slug)
	fmt.Fprintf(out, "  Previous: %s\n", set.PreviousSlug)
	fmt.Fprintf(out, "  Next:     %s\n", set.NextSlug)
	if len(set.Tags) > 0 {
		fmt.Fprintf(out, "  Tags:     %s\n", strings.Join(set.Tags, ", "))
	}
	for _, note := range set.Notes {
		fmt.Fprintf(out, "  Note:     %s\n", note)
	}
	fmt.Fprintf(out, "  Tunes:\n")
	for i, tune := range set.Content {
		fmt.Fprintf(out, "    %d. %s\n", i+1, tune.Slug)
		if withABC {
			for _, line := range strings.Split(tune.ABC, "\n") {
				fmt.Fprintf(out, "       %s\n", line)
			}
		}
	}
}
