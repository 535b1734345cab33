package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tfkr-ae/foundry/api"
	"github.com/tfkr-ae/foundry/render"
)

func newExportCmd(opts *rootOptions) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the catalog as XML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			catalog, err := api.Catalog(app.Repo)
			if err != nil {
				return err
			}
			content, err := render.ExportXML(catalog)
			if err != nil {
				return err
			}

			if output == "" || output == "-" {
				_, err = cmd.OutOrStdout().Write(content)
				return err
			}
			if err := os.WriteFile(output, content, 0644); err != nil {
				return fmt.Errorf("writing %s : %w", output, err)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "file to write, stdout when empty")
	return cmd
}
