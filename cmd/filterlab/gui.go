package main

import (
	"filterlab/internal/app"

	"github.com/spf13/cobra"
)

func newGUICommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "gui",
		Short: "Open the desktop window (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGUI(opts)
		},
	}
}

func runGUI(opts *rootOptions) error {
	application, err := app.NewApplication(opts.cfg, opts.configPath, opts.log)
	if err != nil {
		return err
	}
	return application.Run()
}
