// Package bootstrap creates the administrative identity: account, sudo
// membership, authorized SSH keys, and SSH daemon hardening. Bootstrap
// changes are permanent; component uninstall never reverts them.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/opshall/hostforge/internal/catalog"
	"github.com/opshall/hostforge/internal/cmdrun"
	"github.com/opshall/hostforge/internal/confedit"
	"github.com/opshall/hostforge/internal/messages"
)

// ErrUserExists is returned when the username is taken and the caller's
// policy is PolicyAbort. Nothing has been mutated when this is returned.
var ErrUserExists = errors.New("user already exists")

// Policy resolves the existing-user conflict ahead of the call; there is
// no silent default and no mid-operation prompt.
type Policy int

const (
	// PolicyAbort refuses to touch an existing account.
	PolicyAbort Policy = iota
	// PolicyReuse keeps the existing account and provisions access for it.
	PolicyReuse
)

// Options configures CreateAdmin.
type Options struct {
	Username   string
	PublicKeys []string
	Policy     Policy
	// RootPassword, when non-empty, is set on the root account for local
	// console access. SSH root login stays disabled either way.
	RootPassword string
}

// Bootstrapper runs the identity bootstrap against its collaborators.
type Bootstrapper struct {
	Runner     cmdrun.Runner
	Editor     *confedit.Editor
	Sys        confedit.System
	SSHDConfig string
	SSHService string
}

type step struct {
	name string
	run  func(ctx context.Context) error
}

// CreateAdmin provisions the administrative identity. Any step failure
// aborts the remaining steps and reports which step failed. The SSH daemon
// is only restarted after the hardening edit has been fully written.
func (b *Bootstrapper) CreateAdmin(ctx context.Context, opts Options) error {
	username := strings.TrimSpace(opts.Username)
	if username == "" {
		return errors.New(messages.BootstrapUsernameRequired)
	}
	keys := normalizeKeys(opts.PublicKeys)
	if len(keys) == 0 {
		return errors.New(messages.BootstrapKeyRequired)
	}

	exists, err := b.userExists(ctx, username)
	if err != nil {
		return fmt.Errorf(messages.BootstrapStepFailedFmt, messages.BootstrapStepCheckUser, err)
	}
	if exists && opts.Policy == PolicyAbort {
		return fmt.Errorf(messages.BootstrapUserExistsFmt, username, ErrUserExists)
	}

	steps := []step{
		{messages.BootstrapStepCreateUser, func(ctx context.Context) error {
			if exists {
				return nil
			}
			_, err := b.Runner.Run(ctx, "useradd", "-m", "-s", "/bin/bash", username)
			return err
		}},
		{messages.BootstrapStepGrantSudo, func(ctx context.Context) error {
			_, err := b.Runner.Run(ctx, "usermod", "-aG", "sudo", username)
			return err
		}},
		{messages.BootstrapStepAuthorizedKeys, func(ctx context.Context) error {
			return b.provisionKeys(ctx, username, keys)
		}},
		{messages.BootstrapStepRootPassword, func(ctx context.Context) error {
			if opts.RootPassword == "" {
				return nil
			}
			_, err := b.Runner.RunInput(ctx, "root:"+opts.RootPassword+"\n", "chpasswd")
			return err
		}},
		{messages.BootstrapStepHardenSSH, func(ctx context.Context) error {
			_, err := b.Editor.ApplyBlock(b.SSHDConfig, catalog.SSHHardeningMarker, catalog.SSHHardeningContent())
			return err
		}},
		{messages.BootstrapStepRestartSSH, func(ctx context.Context) error {
			_, err := b.Runner.Run(ctx, "systemctl", "restart", b.SSHService)
			return err
		}},
	}

	for _, s := range steps {
		if err := s.run(ctx); err != nil {
			return fmt.Errorf(messages.BootstrapStepFailedFmt, s.name, err)
		}
	}
	return nil
}

// userExists probes the account database without mutating anything.
func (b *Bootstrapper) userExists(ctx context.Context, username string) (bool, error) {
	_, err := b.Runner.Run(ctx, "id", "-u", username)
	if err == nil {
		return true, nil
	}
	var cmdErr *cmdrun.CommandError
	if errors.As(err, &cmdErr) && cmdErr.ExitCode > 0 {
		return false, nil
	}
	return false, err
}

// provisionKeys writes .ssh/authorized_keys for username, appending each
// supplied key exactly once and restricting both directory and file to the
// owner so the SSH daemon accepts them.
func (b *Bootstrapper) provisionKeys(ctx context.Context, username string, keys []string) error {
	home, err := b.homeDir(ctx, username)
	if err != nil {
		return err
	}
	sshDir := filepath.Join(home, ".ssh")
	if err := b.Sys.MkdirAll(sshDir, 0o700); err != nil {
		return err
	}
	if err := b.Sys.Chmod(sshDir, 0o700); err != nil {
		return err
	}

	keyPath := filepath.Join(sshDir, "authorized_keys")
	existing := ""
	if data, err := b.Sys.ReadFile(keyPath); err == nil {
		existing = string(data)
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}

	present := make(map[string]bool)
	lines := []string{}
	for _, line := range strings.Split(existing, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" {
			present[trimmed] = true
			lines = append(lines, trimmed)
		}
	}
	for _, key := range keys {
		if !present[key] {
			present[key] = true
			lines = append(lines, key)
		}
	}

	content := strings.Join(lines, "\n") + "\n"
	if err := b.Sys.WriteFileAtomic(keyPath, []byte(content), 0o600); err != nil {
		return err
	}
	_, err = b.Runner.Run(ctx, "chown", "-R", username+":"+username, sshDir)
	return err
}

// homeDir resolves the account's home directory from the passwd database.
func (b *Bootstrapper) homeDir(ctx context.Context, username string) (string, error) {
	res, err := b.Runner.Run(ctx, "getent", "passwd", username)
	if err != nil {
		return "", err
	}
	fields := strings.Split(strings.TrimSpace(res.Output), ":")
	if len(fields) < 6 || strings.TrimSpace(fields[5]) == "" {
		return "", fmt.Errorf(messages.BootstrapHomeDirParseFmt, username)
	}
	return fields[5], nil
}

func normalizeKeys(keys []string) []string {
	out := make([]string, 0, len(keys))
	for _, key := range keys {
		trimmed := strings.TrimSpace(key)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
