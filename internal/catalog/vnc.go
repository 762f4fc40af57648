package catalog

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/opshall/hostforge/internal/config"
	"github.com/opshall/hostforge/internal/messages"
)

const vncXStartup = `#!/bin/sh
unset SESSION_MANAGER
unset DBUS_SESSION_BUS_ADDRESS
exec startxfce4
`

func vncSessionConfig(cfg *config.Config) string {
	return fmt.Sprintf("geometry=%s\ndepth=%d\nlocalhost=yes\n", cfg.VNC.Geometry, cfg.VNC.Depth)
}

func vncComponent(cfg *config.Config, paths Paths) *Component {
	xstartupPath := filepath.Join(paths.VNCDir, "xstartup")
	configPath := filepath.Join(paths.VNCDir, "config")
	display := fmt.Sprintf(":%d", cfg.VNC.Display)
	return &Component{
		ID:      IDRemoteDesktop,
		Label:   messages.CatalogLabelRemoteDesktop,
		Package: "tigervnc-standalone-server",
		// No long-running unit of its own; presence of the session startup
		// script marks the component active.
		StatusFile: xstartupPath,
		InstallSteps: []Step{
			{
				Name:   "install desktop and vnc server",
				Cmd:    []string{"apt-get", "install", "-y", "xfce4", "xfce4-goodies", "tigervnc-standalone-server"},
				Benign: []string{benignAptNewest},
			},
			{
				// Session startup script and config are private to the owner;
				// the VNC server refuses group/world-accessible session files.
				Name:  "write session startup script",
				Write: &FileEdit{Path: xstartupPath, Content: vncXStartup, Perm: 0o700},
			},
			{
				Name:  "write session config",
				Write: &FileEdit{Path: configPath, Content: vncSessionConfig(cfg), Perm: 0o600},
			},
		},
		UninstallSteps: []Step{
			{
				Name:   "kill vnc session",
				Cmd:    []string{"vncserver", "-kill", display},
				Benign: []string{"Can't find", "No matching VNC server", "executable file not found"},
			},
			{
				Name:   "remove vnc server",
				Cmd:    []string{"apt-get", "remove", "--purge", "-y", "tigervnc-standalone-server"},
				Benign: []string{benignAptMissing},
			},
			{
				Name:        "delete session files",
				RemovePaths: []string{paths.VNCDir},
			},
		},
		Assertions: []Assertion{
			{
				Name: "startup script private to owner",
				Check: func(ctx context.Context, rt *Runtime) error {
					info, err := rt.Sys.Stat(xstartupPath)
					if err != nil {
						return err
					}
					if perm := info.Mode().Perm(); perm != 0o700 {
						return fmt.Errorf(messages.VNCAssertPermFmt, xstartupPath, perm)
					}
					return nil
				},
			},
			{
				Name: "session config present",
				Check: func(ctx context.Context, rt *Runtime) error {
					data, err := rt.Sys.ReadFile(configPath)
					if err != nil {
						return err
					}
					want := "geometry=" + cfg.VNC.Geometry
					if !strings.Contains(string(data), want) {
						return fmt.Errorf(messages.VNCAssertGeometryFmt, configPath, want)
					}
					return nil
				},
			},
			{
				Name: "vnc server available",
				Check: func(ctx context.Context, rt *Runtime) error {
					_, err := rt.Runner.Run(ctx, "vncserver", "-list")
					return err
				},
			},
		},
	}
}
