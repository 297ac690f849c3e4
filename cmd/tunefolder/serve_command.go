package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"tunefolder/internal/server"
	"tunefolder/internal/store"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var folderName string
	var bind string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve built folders over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if bind == "" {
				bind = cfg.Paths.APIBind
			}

			return ctx.withStore(func(st *store.Store) error {
				srv, err := server.New(bind, folderName, st, ctx.ensureLogger())
				if err != nil {
					return err
				}

				runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
				defer stop()
				if err := srv.Start(runCtx); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Serving on http://%s (Ctrl+C to stop)\n", srv.Addr())
				<-runCtx.Done()
				srv.Stop()
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&folderName, "folder", "", "Folder served when a request names none")
	cmd.Flags().StringVar(&bind, "bind", "", "Listen address (defaults to paths.api_bind)")
	return cmd
}
