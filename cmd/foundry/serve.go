package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var (
		address string
		port    string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the site and the JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			if cmd.Flags().Changed("address") {
				app.Config.ListenAddress = address
			}
			if cmd.Flags().Changed("port") {
				app.Config.ListenPort = port
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return app.Serve(ctx)
		},
	}
	cmd.Flags().StringVar(&address, "address", "", "listen address, overrides the config file")
	cmd.Flags().StringVarP(&port, "port", "p", "", "listen port, overrides the config file")
	return cmd
}
