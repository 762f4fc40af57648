package main

import (
	"github.com/spf13/cobra"

	"github.com/opshall/hostforge/internal/config"
	"github.com/opshall/hostforge/internal/messages"
)

type rootOptions struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           messages.RootUse,
		Short:         messages.RootShort,
		Long:          messages.RootLong,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// No subcommand: drop into the interactive menu.
			return runMenu(cmd, opts)
		},
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", config.DefaultPath, messages.FlagConfig)

	cmd.AddCommand(
		newInstallCmd(opts),
		newUninstallCmd(opts),
		newTestCmd(opts),
		newStatusCmd(opts),
		newBootstrapCmd(opts),
		newMenuCmd(opts),
	)
	return cmd
}
