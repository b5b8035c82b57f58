package main

import (
	"fmt"
	"text/tabwriter"

	"filterlab/internal/algorithms"

	"github.com/spf13/cobra"
)

func newListCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the available operators and their default parameters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			manager := algorithms.NewManager(nil)
			if err := manager.ApplyOverrides(opts.cfg.Operators); err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, name := range manager.Names() {
				descriptor, err := manager.Describe(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%s\t%s\t%v\n", name, descriptor.Description, map[string]interface{}(manager.GetParameters(name)))
			}
			return w.Flush()
		},
	}
}
