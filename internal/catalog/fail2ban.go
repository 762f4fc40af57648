package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/opshall/hostforge/internal/config"
	"github.com/opshall/hostforge/internal/messages"
)

// jailLocalContent renders the fail2ban local override. Written to
// jail.local, the path reserved for local overrides: it takes precedence
// over the packaged jail.conf and survives package upgrades.
func jailLocalContent(cfg *config.Config) string {
	return fmt.Sprintf(`# Managed by hostforge.
[DEFAULT]
bantime = %d
findtime = %d
maxretry = %d

[sshd]
enabled = true
port = %d
`, cfg.Fail2ban.BanSeconds, cfg.Fail2ban.FindSeconds, cfg.Fail2ban.MaxRetry, cfg.SSH.Port)
}

func fail2banComponent(cfg *config.Config, paths Paths) *Component {
	return &Component{
		ID:      IDIntrusionPrevention,
		Label:   messages.CatalogLabelIntrusionPrevention,
		Package: "fail2ban",
		Service: "fail2ban",
		InstallSteps: []Step{
			{
				Name:   "install fail2ban",
				Cmd:    []string{"apt-get", "install", "-y", "fail2ban"},
				Benign: []string{benignAptNewest},
			},
			{
				Name:  "write local override",
				Write: &FileEdit{Path: paths.JailLocal, Content: jailLocalContent(cfg), Perm: 0o644},
			},
			{
				Name: "enable fail2ban",
				Cmd:  []string{"systemctl", "enable", "fail2ban"},
			},
			{
				Name: "restart fail2ban",
				Cmd:  []string{"systemctl", "restart", "fail2ban"},
			},
		},
		UninstallSteps: []Step{
			{
				Name:   "stop fail2ban",
				Cmd:    []string{"systemctl", "stop", "fail2ban"},
				Benign: []string{benignUnitNotLoaded, benignUnitMissing},
			},
			{
				Name:   "disable fail2ban",
				Cmd:    []string{"systemctl", "disable", "fail2ban"},
				Benign: []string{benignUnitNotLoaded, benignUnitMissing},
			},
			{
				Name:   "remove fail2ban",
				Cmd:    []string{"apt-get", "remove", "--purge", "-y", "fail2ban"},
				Benign: []string{benignAptMissing},
			},
			{
				Name:        "delete local override",
				RemovePaths: []string{paths.JailLocal},
			},
		},
		Assertions: []Assertion{
			{
				Name: "local override present",
				Check: func(ctx context.Context, rt *Runtime) error {
					data, err := rt.Sys.ReadFile(paths.JailLocal)
					if err != nil {
						return err
					}
					want := fmt.Sprintf("bantime = %d", cfg.Fail2ban.BanSeconds)
					if !strings.Contains(string(data), want) {
						return fmt.Errorf(messages.Fail2banAssertOverrideFmt, paths.JailLocal, want)
					}
					return nil
				},
			},
			{
				Name: "sshd jail responding",
				Check: func(ctx context.Context, rt *Runtime) error {
					_, err := rt.Runner.Run(ctx, "fail2ban-client", "status", "sshd")
					return err
				},
			},
			{
				Name: "fail2ban service active",
				Check: func(ctx context.Context, rt *Runtime) error {
					_, err := rt.Runner.Run(ctx, "systemctl", "is-active", "--quiet", "fail2ban")
					return err
				},
			},
		},
	}
}
