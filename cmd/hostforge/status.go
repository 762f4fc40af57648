package main

import (
	"github.com/spf13/cobra"

	"github.com/opshall/hostforge/internal/messages"
)

func newStatusCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   messages.StatusUse,
		Short: messages.StatusShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newAppFunc(opts.configPath)
			if err != nil {
				return err
			}
			rep := a.collector.Build(cmd.Context(), a.catalog, a.runtime)
			rep.Render(cmd.OutOrStdout())
			return nil
		},
	}
}
