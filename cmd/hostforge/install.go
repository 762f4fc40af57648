package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/opshall/hostforge/internal/catalog"
	"github.com/opshall/hostforge/internal/messages"
)

func newInstallCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   messages.InstallUse,
		Short: messages.InstallShort,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkPrivilege(); err != nil {
				return err
			}
			a, err := newAppFunc(opts.configPath)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if len(args) == 1 {
				comp, err := lookupComponent(a, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(out, messages.MenuInstallingFmt+"\n", comp.Label)
				if err := a.runtime.Install(cmd.Context(), comp); err != nil {
					return err
				}
				color.New(color.FgGreen).Fprintf(out, messages.MenuComponentInstalledFmt+"\n", comp.Label)
				return nil
			}

			green := color.New(color.FgGreen)
			red := color.New(color.FgRed)
			comps := a.catalog.InOrder()
			failed := 0
			for _, comp := range comps {
				fmt.Fprintf(out, messages.MenuInstallingFmt+"\n", comp.Label)
				if err := a.runtime.Install(cmd.Context(), comp); err != nil {
					failed++
					red.Fprintf(out, messages.MenuComponentFailedFmt+"\n", comp.Label, err)
					continue
				}
				green.Fprintf(out, messages.MenuComponentInstalledFmt+"\n", comp.Label)
			}
			if failed > 0 {
				return fmt.Errorf(messages.InstallPartialFmt, failed, len(comps))
			}
			return nil
		},
	}
}

func lookupComponent(a *app, arg string) (*catalog.Component, error) {
	id, err := catalog.ParseID(arg)
	if err != nil {
		return nil, err
	}
	comp, _ := a.catalog.Get(id)
	return comp, nil
}
