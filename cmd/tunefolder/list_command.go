package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"tunefolder/internal/folder"
	"tunefolder/internal/store"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "list [FOLDER]",
		Short: "List built folders, or the sets of one folder",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(st *store.Store) error {
				if len(args) == 0 {
					summaries, err := st.List(cmd.Context())
					if err != nil {
						return err
					}
					if jsonOut {
						if summaries == nil {
							summaries = []store.Summary{}
						}
						return writeJSON(cmd, summaries)
					}
					if len(summaries) == 0 {
						fmt.Fprintln(cmd.OutOrStdout(), "No folders built yet")
						return nil
					}
					fmt.Fprintln(cmd.OutOrStdout(), renderFolderTable(summaries))
					return nil
				}

				build, err := st.Latest(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(cmd, build.Folder)
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderSetTable(build.Folder))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

func renderFolderTable(summaries []store.Summary) string {
	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []string{
			s.FolderName,
			s.Format,
			strconv.Itoa(s.Sections),
			strconv.Itoa(s.Sets),
			strconv.Itoa(s.Tunes),
			s.BuiltAt.Local().Format(time.DateTime),
		})
	}
	return renderTable(
		[]string{"Folder", "Format", "Sections", "Sets", "Tunes", "Built"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft},
	)
}

func renderSetTable(f folder.Folder) string {
	var rows [][]string
	for _, section := range f.Content {
		for _, set := range section.Content {
			rows = append(rows, []string{
				section.Name,
				set.Name,
				set.Slug,
				strconv.Itoa(len(set.Content)),
				strings.Join(set.Tags, ", "),
			})
		}
	}
	return renderTable(
		[]string{"Section", "Set", "Slug", "Tunes", "Tags"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
	)
}
