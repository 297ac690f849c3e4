package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"tunefolder/internal/catalog"
	"tunefolder/internal/config"
	"tunefolder/internal/store"
)

type buildOutput struct {
	Folder    string `json:"folder"`
	BuildID   string `json:"buildId"`
	Source    string `json:"source"`
	Format    string `json:"format"`
	Digest    string `json:"digest"`
	Unchanged bool   `json:"unchanged"`
	Sections  int    `json:"sections"`
	Sets      int    `json:"sets"`
	Tunes     int    `json:"tunes"`
	ElapsedMS int64  `json:"elapsedMs"`
}

func newBuildCommand(ctx *commandContext) *cobra.Command {
	var name string
	var format string
	var force bool
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "build [SOURCE]",
		Short: "Build folders from ABC collections or LaTeX outlines",
		Long: "Build parses a source document, links its sets, and records the folder.\n" +
			"Without SOURCE, every configured folder is built (or only --name).",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			sources, err := buildSources(cfg, args, name, format)
			if err != nil {
				return err
			}

			return ctx.withStore(func(st *store.Store) error {
				builder, err := catalog.New(cfg, st, ctx.ensureLogger())
				if err != nil {
					return err
				}

				var results []catalog.Result
				if sources == nil {
					results, err = builder.BuildAll(cmd.Context(), force)
				} else {
					var res *catalog.Result
					res, err = builder.Build(cmd.Context(), sources[0], force)
					if res != nil {
						results = []catalog.Result{*res}
					}
				}
				if err != nil {
					return err
				}

				outputs := make([]buildOutput, len(results))
				for i, res := range results {
					outputs[i] = toBuildOutput(res)
				}
				if jsonOut {
					return writeJSON(cmd, outputs)
				}
				names := make([]string, len(outputs))
				for i, o := range outputs {
					names[i] = o.Folder
				}
				status := newStatusWriter(cmd.OutOrStdout(), names)
				for _, o := range outputs {
					kind, detail := buildStatus(o)
					status.line(o.Folder, kind, detail)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Folder name (defaults to the source file name)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "Source format: abc or latex (inferred from the extension)")
	cmd.Flags().BoolVar(&force, "force", false, "Record a new build even when the folder is unchanged")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output results as JSON")
	return cmd
}

// buildSources resolves what to build. A nil result means every configured folder.
func buildSources(cfg *config.Config, args []string, name, format string) ([]config.FolderSource, error) {
	name = strings.TrimSpace(name)
	format = strings.ToLower(strings.TrimSpace(format))
	if format != "" && format != config.FormatABC && format != config.FormatLaTeX {
		return nil, fmt.Errorf("unsupported format %q (use abc or latex)", format)
	}

	if len(args) == 0 {
		if name == "" {
			if len(cfg.Folders) == 0 {
				return nil, fmt.Errorf("no folders configured; pass a SOURCE or add [[folders]] to the config")
			}
			return nil, nil
		}
		src, ok := cfg.FindFolder(name)
		if !ok {
			return nil, fmt.Errorf("folder %q is not configured", name)
		}
		if format != "" {
			src.Format = format
		}
		return []config.FolderSource{src}, nil
	}

	source, err := config.ExpandPath(args[0])
	if err != nil {
		return nil, fmt.Errorf("resolve source: %w", err)
	}
	if abs, err := filepath.Abs(source); err == nil {
		source = abs
	}
	if name == "" {
		base := filepath.Base(source)
		name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	if format == "" {
		format = config.InferFormat(source)
	}
	return []config.FolderSource{{Name: name, Source: source, Format: format}}, nil
}

func toBuildOutput(res catalog.Result) buildOutput {
	b := res.Build
	return buildOutput{
		Folder:    b.FolderName,
		BuildID:   b.ID,
		Source:    b.SourcePath,
		Format:    b.Format,
		Digest:    b.Digest,
		Unchanged: res.Unchanged,
		Sections:  len(b.Folder.Content),
		Sets:      len(b.Folder.Sets()),
		Tunes:     b.Folder.TuneCount(),
		ElapsedMS: res.Elapsed.Milliseconds(),
	}
}

// buildStatus describes one build result for the status line.
func buildStatus(o buildOutput) (outcome, string) {
	counts := fmt.Sprintf("%d sections, %d sets, %d tunes", o.Sections, o.Sets, o.Tunes)
	if o.Unchanged {
		return outcomeUnchanged, counts
	}
	elapsed := (time.Duration(o.ElapsedMS) * time.Millisecond).String()
	return outcomeBuilt, fmt.Sprintf("%s in %s (%s)", counts, elapsed, shortID(o.BuildID))
}
