package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/opshall/hostforge/internal/messages"
)

// SSHHardeningMarker frames the hardening block in sshd_config. The
// identity bootstrap applies the same marker, so the edit stays idempotent
// across both paths.
const SSHHardeningMarker = "# hostforge:sshd-hardening"

// SSHHardeningContent returns the hardening directives appended to
// sshd_config: key-only access, no root login.
func SSHHardeningContent() string {
	return "PasswordAuthentication no\nPermitRootLogin no\nPubkeyAuthentication yes"
}

func sshComponent(paths Paths) *Component {
	return &Component{
		ID:      IDSSH,
		Label:   messages.CatalogLabelSSH,
		Package: "openssh-server",
		Service: "ssh",
		InstallSteps: []Step{
			{
				Name:   "install openssh-server",
				Cmd:    []string{"apt-get", "install", "-y", "openssh-server"},
				Benign: []string{benignAptNewest},
			},
			{
				Name:  "apply sshd hardening",
				Apply: &BlockEdit{Path: paths.SSHDConfig, Marker: SSHHardeningMarker, Content: SSHHardeningContent()},
			},
			{
				Name: "restart ssh",
				Cmd:  []string{"systemctl", "restart", "ssh"},
			},
		},
		UninstallSteps: []Step{
			{
				Name:   "remove sshd hardening",
				Remove: &BlockEdit{Path: paths.SSHDConfig, Marker: SSHHardeningMarker},
			},
			{
				Name:   "stop ssh",
				Cmd:    []string{"systemctl", "stop", "ssh"},
				Benign: []string{benignUnitNotLoaded, benignUnitMissing},
			},
			{
				Name:   "disable ssh",
				Cmd:    []string{"systemctl", "disable", "ssh"},
				Benign: []string{benignUnitNotLoaded, benignUnitMissing},
			},
			{
				Name:   "remove openssh-server",
				Cmd:    []string{"apt-get", "remove", "--purge", "-y", "openssh-server"},
				Benign: []string{benignAptMissing},
			},
		},
		Assertions: []Assertion{
			{
				Name: "sshd config is valid",
				Check: func(ctx context.Context, rt *Runtime) error {
					_, err := rt.Runner.Run(ctx, "sshd", "-t")
					return err
				},
			},
			{
				Name: "password authentication disabled",
				Check: func(ctx context.Context, rt *Runtime) error {
					data, err := rt.Sys.ReadFile(paths.SSHDConfig)
					if err != nil {
						return err
					}
					content := string(data)
					if !strings.Contains(content, SSHHardeningMarker) {
						return fmt.Errorf(messages.SSHAssertMarkerMissingFmt, paths.SSHDConfig)
					}
					if !strings.Contains(content, "PasswordAuthentication no") {
						return fmt.Errorf(messages.SSHAssertPasswordAuthFmt, paths.SSHDConfig)
					}
					return nil
				},
			},
			{
				Name: "ssh service active",
				Check: func(ctx context.Context, rt *Runtime) error {
					_, err := rt.Runner.Run(ctx, "systemctl", "is-active", "--quiet", "ssh")
					return err
				},
			},
		},
	}
}
