package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"tunefolder/internal/search"
	"tunefolder/internal/store"
)

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var folderName string
	var limit int
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "search QUERY...",
		Short: "Find sets by name, tune, tag, or note",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			return ctx.withStore(func(st *store.Store) error {
				name, err := resolveFolderName(cmd.Context(), st, folderName)
				if err != nil {
					return err
				}
				build, err := st.Latest(cmd.Context(), name)
				if err != nil {
					return err
				}
				hits := search.NewIndex(build.Folder).Query(query, limit)
				if jsonOut {
					if hits == nil {
						hits = []search.Hit{}
					}
					return writeJSON(cmd, hits)
				}
				if len(hits) == 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "No sets match %q\n", query)
					return nil
				}
				rows := make([][]string, 0, len(hits))
				for _, h := range hits {
					rows = append(rows, []string{
						strconv.FormatFloat(h.Score, 'f', 2, 64),
						h.Section,
						h.Set.Name,
						h.Set.Slug,
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Score", "Section", "Set", "Slug"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft},
				))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&folderName, "folder", "", "Folder to search (defaults to the only built folder)")
	cmd.Flags().IntVarP(&limit, "limit", "l", 10, "Maximum number of sets to show")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output hits as JSON")
	return cmd
}
