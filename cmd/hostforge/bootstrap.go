package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/opshall/hostforge/internal/bootstrap"
	"github.com/opshall/hostforge/internal/messages"
)

var discoverKeysFunc = bootstrap.DiscoverPublicKeys

func newBootstrapCmd(opts *rootOptions) *cobra.Command {
	var (
		user     string
		keys     []string
		keyFiles []string
		reuse    bool
	)
	cmd := &cobra.Command{
		Use:   messages.BootstrapUse,
		Short: messages.BootstrapShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkPrivilege(); err != nil {
				return err
			}
			a, err := newAppFunc(opts.configPath)
			if err != nil {
				return err
			}
			if user == "" {
				user = a.cfg.Admin.Username
			}
			allKeys, err := gatherKeys(keys, keyFiles)
			if err != nil {
				return err
			}

			policy := bootstrap.PolicyAbort
			if reuse {
				policy = bootstrap.PolicyReuse
			}
			err = a.bootstrapper.CreateAdmin(cmd.Context(), bootstrap.Options{
				Username:   user,
				PublicKeys: allKeys,
				Policy:     policy,
			})
			if err != nil {
				return err
			}
			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), messages.MenuBootstrapDoneFmt+"\n", user)
			return nil
		},
	}
	cmd.Flags().StringVar(&user, "user", "", messages.BootstrapFlagUser)
	cmd.Flags().StringArrayVar(&keys, "key", nil, messages.BootstrapFlagKey)
	cmd.Flags().StringArrayVar(&keyFiles, "key-file", nil, messages.BootstrapFlagFile)
	cmd.Flags().BoolVar(&reuse, "reuse-existing", false, messages.BootstrapFlagReuse)
	return cmd
}

// gatherKeys merges --key values, --key-file contents, and, when neither is
// given, keys discovered under the invoking user's ~/.ssh.
func gatherKeys(keys []string, keyFiles []string) ([]string, error) {
	out := make([]string, 0, len(keys)+len(keyFiles))
	for _, key := range keys {
		if trimmed := strings.TrimSpace(key); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	for _, path := range keyFiles {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf(messages.BootstrapKeyFileFmt, path, err)
		}
		if trimmed := strings.TrimSpace(string(data)); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) > 0 {
		return out, nil
	}

	discovered, err := discoverKeysFunc()
	if err == nil && len(discovered) > 0 {
		return discovered, nil
	}
	return nil, errors.New(messages.BootstrapNoKeys)
}
