package main

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/tfkr-ae/foundry"
)

type rootOptions struct {
	configDir string
	verbose   bool
	jsonLogs  bool
}

func defaultConfigDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "foundry"
	}
	return filepath.Join(dir, "foundry")
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "foundry",
		Short: "Catalog site for a foundry",
		Long: `foundry serves the catalog site of a foundry: product categories,
projects, leadership and the looping logo carousels of the home page.

Configuration is read from config.yaml in the config directory and may be
overridden with FOUNDRY_ environment variables or a .env file next to it.`,
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&opts.configDir, "config-dir", defaultConfigDir(), "directory holding config.yaml and the database")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log debug messages")
	cmd.PersistentFlags().BoolVar(&opts.jsonLogs, "json", false, "log in JSON")

	cmd.AddCommand(
		newServeCmd(opts),
		newMigrateCmd(opts),
		newSeedCmd(opts),
		newExportCmd(opts),
		newTUICmd(opts),
	)
	return cmd
}

func (o *rootOptions) logger(cmd *cobra.Command) *slog.Logger {
	handlerOptions := &slog.HandlerOptions{Level: slog.LevelInfo}
	if o.verbose {
		handlerOptions.Level = slog.LevelDebug
	}
	if o.jsonLogs {
		return slog.New(slog.NewJSONHandler(cmd.ErrOrStderr(), handlerOptions))
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), handlerOptions))
}

// open builds an app from the config dir with its configured database.
func (o *rootOptions) open(cmd *cobra.Command) (*foundry.App, error) {
	return foundry.New(
		foundry.WithLogger(o.logger(cmd)),
		foundry.WithConfigDir(o.configDir),
		foundry.WithDatabase(""),
	)
}
