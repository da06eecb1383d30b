package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/speeddial/internal/server"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the speed dial HTTP API",
		Long: `Run the HTTP API for the speed dial page. Logs are written as JSON to
stderr. The server shuts down gracefully on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			cmd.SetContext(ctx)

			a, err := openApp(cmd, true)
			if err != nil {
				return err
			}
			defer a.Close()

			opts := server.Options{
				Addr:            a.cfg.Server.Addr,
				ReadTimeout:     a.cfg.Server.ReadTimeout,
				WriteTimeout:    a.cfg.Server.WriteTimeout,
				ShutdownTimeout: a.cfg.Server.ShutdownTimeout,
			}
			if cmd.Flags().Changed("addr") {
				opts.Addr, _ = cmd.Flags().GetString("addr")
			}

			var capturer server.Capturer
			if a.controller != nil {
				capturer = a.controller
			}

			return server.Serve(ctx, a.logger, opts, server.NewHandler(a.logger, a.store, capturer))
		},
	}

	cmd.Flags().String("addr", "", "Listen address (overrides server.addr)")
	return cmd
}
