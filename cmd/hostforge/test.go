package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/opshall/hostforge/internal/messages"
)

func newTestCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   messages.TestUse,
		Short: messages.TestShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newAppFunc(opts.configPath)
			if err != nil {
				return err
			}
			comp, err := lookupComponent(a, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			results := a.runtime.Test(cmd.Context(), comp)
			failed := 0
			for _, res := range results {
				if res.Passed() {
					color.New(color.FgGreen).Fprintf(out, messages.MenuTestPassFmt+"\n", res.Name)
					continue
				}
				failed++
				color.New(color.FgRed).Fprintf(out, messages.MenuTestFailFmt+"\n", res.Name, res.Err)
			}
			if failed > 0 {
				fmt.Fprintf(out, messages.TestFailedFmt+"\n", failed, len(results))
				return &SilentExitError{Code: 1}
			}
			return nil
		},
	}
}
