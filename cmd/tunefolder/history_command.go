package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"tunefolder/internal/store"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "history FOLDER",
		Short: "Show recorded builds of a folder, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(st *store.Store) error {
				builds, err := st.History(cmd.Context(), args[0], limit)
				if err != nil {
					return err
				}
				if len(builds) == 0 {
					return fmt.Errorf("%w: %s", store.ErrNotFound, args[0])
				}
				if jsonOut {
					return writeJSON(cmd, builds)
				}
				rows := make([][]string, 0, len(builds))
				for _, b := range builds {
					rows = append(rows, []string{
						shortID(b.ID),
						b.BuiltAt.Local().Format(time.DateTime),
						strconv.Itoa(b.Sets),
						strconv.Itoa(b.Tunes),
						shortID(b.Digest),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Build", "Built", "Sets", "Tunes", "Digest"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft},
				))
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 20, "Maximum number of builds to show")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

func newPruneCommand(ctx *commandContext) *cobra.Command {
	var keep int

	cmd := &cobra.Command{
		Use:   "prune FOLDER",
		Short: "Delete old builds of a folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(st *store.Store) error {
				removed, err := st.Prune(cmd.Context(), args[0], keep)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d build(s) of %s\n", removed, args[0])
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&keep, "keep", "k", 1, "Number of recent builds to keep")
	return cmd
}
