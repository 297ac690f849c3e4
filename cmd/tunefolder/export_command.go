package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"tunefolder/internal/fileutil"
	"tunefolder/internal/folder"
	"tunefolder/internal/store"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	var folderName string
	var withSets bool

	cmd := &cobra.Command{
		Use:   "export DIR",
		Short: "Write folder.json (and optionally one file per set) for static hosting",
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
				written, err := exportFolder(args[0], build.Folder, withSets)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %s to %s (%d files)\n", build.FolderName, args[0], written)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&folderName, "folder", "", "Folder to export (defaults to the only built folder)")
	cmd.Flags().BoolVar(&withSets, "sets", false, "Also write sets/<slug>.json for every set")
	return cmd
}

func exportFolder(dir string, f folder.Folder, withSets bool) (int, error) {
	written := 0
	write := func(rel string, v any) error {
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal %s: %w", rel, err)
		}
		if err := fileutil.WriteFileAtomic(filepath.Join(dir, rel), append(data, '\n'), 0o644); err != nil {
			return err
		}
		written++
		return nil
	}

	if err := write("folder.json", f); err != nil {
		return written, err
	}
	if withSets {
		for _, set := range f.Sets() {
			if err := write(filepath.Join("sets", set.Slug+".json"), set); err != nil {
				return written, err
			}
		}
	}
	return written, nil
}
