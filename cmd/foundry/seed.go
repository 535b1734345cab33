package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tfkr-ae/foundry"
)

func newSeedCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed <fixtures.yaml>",
		Short: "Load catalog documents from a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening fixtures : %w", err)
			}
			defer file.Close()

			fixtures, err := foundry.LoadFixtures(file)
			if err != nil {
				return err
			}

			app, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			report, err := app.Seed(fixtures)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "categories: %d\nprojects: %d\nleaders: %d\nlogos: %d\nsettings: %t\n",
				report.Categories, report.Projects, report.Leaders, report.Logos, report.Settings)
			return err
		},
	}
}
