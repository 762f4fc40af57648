package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/opshall/hostforge/internal/config"
	"github.com/opshall/hostforge/internal/messages"
)

func firewallComponent(cfg *config.Config) *Component {
	sshRule := fmt.Sprintf("%d/tcp", cfg.SSH.Port)
	return &Component{
		ID:      IDFirewall,
		Label:   messages.CatalogLabelFirewall,
		Package: "ufw",
		Service: "ufw",
		// The SSH allow rule is committed before enabling; enabling a
		// deny-all ruleset without the exception would cut the session.
		InstallSteps: []Step{
			{
				Name:   "install ufw",
				Cmd:    []string{"apt-get", "install", "-y", "ufw"},
				Benign: []string{benignAptNewest},
			},
			{
				Name: "default deny incoming",
				Cmd:  []string{"ufw", "default", "deny", "incoming"},
			},
			{
				Name: "default allow outgoing",
				Cmd:  []string{"ufw", "default", "allow", "outgoing"},
			},
			{
				Name: "allow ssh",
				Cmd:  []string{"ufw", "allow", sshRule},
			},
			{
				// --force suppresses the enable confirmation prompt; the
				// command must never hang waiting for input.
				Name: "enable firewall",
				Cmd:  []string{"ufw", "--force", "enable"},
			},
		},
		UninstallSteps: []Step{
			{
				Name:   "disable firewall",
				Cmd:    []string{"ufw", "--force", "disable"},
				Benign: []string{"not enabled", "executable file not found"},
			},
			{
				Name:   "remove ufw",
				Cmd:    []string{"apt-get", "remove", "--purge", "-y", "ufw"},
				Benign: []string{benignAptMissing},
			},
		},
		Assertions: []Assertion{
			{
				Name: "default policy denies incoming",
				Check: func(ctx context.Context, rt *Runtime) error {
					res, err := rt.Runner.Run(ctx, "ufw", "status", "verbose")
					if err != nil {
						return err
					}
					if !strings.Contains(res.Output, "deny (incoming)") {
						return fmt.Errorf(messages.FirewallAssertDefaultDeny)
					}
					return nil
				},
			},
			{
				Name: "ssh allow rule present",
				Check: func(ctx context.Context, rt *Runtime) error {
					res, err := rt.Runner.Run(ctx, "ufw", "status")
					if err != nil {
						return err
					}
					for _, line := range strings.Split(res.Output, "\n") {
						if strings.Contains(line, sshRule) && strings.Contains(line, "ALLOW") {
							return nil
						}
					}
					return fmt.Errorf(messages.FirewallAssertSSHAllowFmt, sshRule)
				},
			},
			{
				Name: "firewall enabled",
				Check: func(ctx context.Context, rt *Runtime) error {
					res, err := rt.Runner.Run(ctx, "ufw", "status")
					if err != nil {
						return err
					}
					if !strings.Contains(res.Output, "Status: active") {
						return fmt.Errorf(messages.FirewallAssertEnabled)
					}
					return nil
				},
			},
		},
	}
}
