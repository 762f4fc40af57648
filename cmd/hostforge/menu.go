package main

import (
	"github.com/spf13/cobra"

	"github.com/opshall/hostforge/internal/menu"
	"github.com/opshall/hostforge/internal/messages"
)

func newMenuCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   messages.MenuUse,
		Short: messages.MenuShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMenu(cmd, opts)
		},
	}
}

func runMenu(cmd *cobra.Command, opts *rootOptions) error {
	if err := checkPrivilege(); err != nil {
		return err
	}
	a, err := newAppFunc(opts.configPath)
	if err != nil {
		return err
	}
	orch := &menu.Orchestrator{
		UI:           menu.NewHuhUI(),
		Catalog:      a.catalog,
		Runtime:      a.runtime,
		Bootstrapper: a.bootstrapper,
		Collector:    a.collector,
		Config:       a.cfg,
		Out:          cmd.OutOrStdout(),
	}
	return orch.Run(cmd.Context())
}
