package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/opshall/hostforge/internal/messages"
)

func newUninstallCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   messages.UninstallUse,
		Short: messages.UninstallShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkPrivilege(); err != nil {
				return err
			}
			a, err := newAppFunc(opts.configPath)
			if err != nil {
				return err
			}
			comp, err := lookupComponent(a, args[0])
			if err != nil {
				return err
			}
			if err := a.runtime.Uninstall(cmd.Context(), comp); err != nil {
				return err
			}
			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), messages.MenuComponentRemovedFmt+"\n", comp.Label)
			return nil
		},
	}
}
