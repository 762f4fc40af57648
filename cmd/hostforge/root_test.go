package main

// NOTE: Tests in this file mutate package-level globals (newAppFunc,
// checkPrivilege, discoverKeysFunc). Do not use t.Parallel(); each test
// restores globals via t.Cleanup().

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opshall/hostforge/internal/bootstrap"
	"github.com/opshall/hostforge/internal/catalog"
	"github.com/opshall/hostforge/internal/cmdrun"
	"github.com/opshall/hostforge/internal/config"
	"github.com/opshall/hostforge/internal/confedit"
	"github.com/opshall/hostforge/internal/messages"
	"github.com/opshall/hostforge/internal/report"
)

// fakeRunner scripts command outcomes by command-line prefix.
type fakeRunner struct {
	calls     []string
	responses map[string]fakeResponse
}

type fakeResponse struct {
	output   string
	exitCode int
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) (cmdrun.Result, error) {
	line := strings.Join(append([]string{name}, args...), " ")
	f.calls = append(f.calls, line)
	best := ""
	for prefix := range f.responses {
		if strings.HasPrefix(line, prefix) && len(prefix) > len(best) {
			best = prefix
		}
	}
	if best != "" {
		resp := f.responses[best]
		if resp.exitCode != 0 {
			return cmdrun.Result{ExitCode: resp.exitCode, Output: resp.output},
				&cmdrun.CommandError{Cmd: line, ExitCode: resp.exitCode, Output: resp.output}
		}
		return cmdrun.Result{Output: resp.output}, nil
	}
	return cmdrun.Result{}, nil
}

func (f *fakeRunner) RunInput(ctx context.Context, _ string, name string, args ...string) (cmdrun.Result, error) {
	return f.Run(ctx, name, args...)
}

func (f *fakeRunner) called(prefix string) bool {
	for _, call := range f.calls {
		if strings.HasPrefix(call, prefix) {
			return true
		}
	}
	return false
}

// stubApp wires a fake runner into an app over temp paths and installs it
// as the assembly used by commands.
func stubApp(t *testing.T, runner *fakeRunner) *app {
	t.Helper()
	if runner.responses == nil {
		runner.responses = map[string]fakeResponse{}
	}
	dir := t.TempDir()
	home := filepath.Join(dir, "home")
	runner.responses["getent passwd"] = fakeResponse{output: "ops:x:1001:1001::" + home + ":/bin/bash\n"}

	cfg := config.Default()
	paths := catalog.Paths{
		SSHDConfig: filepath.Join(dir, "sshd_config"),
		JailLocal:  filepath.Join(dir, "jail.local"),
		VNCDir:     filepath.Join(dir, ".vnc"),
		DockerLib:  filepath.Join(dir, "docker-lib"),
		DockerEtc:  filepath.Join(dir, "docker-etc"),
	}
	editor := confedit.NewEditor(confedit.RealSystem{})
	a := &app{
		cfg:     cfg,
		catalog: catalog.New(cfg, paths),
		runtime: &catalog.Runtime{Runner: runner, Editor: editor, Sys: confedit.RealSystem{}},
		bootstrapper: &bootstrap.Bootstrapper{
			Runner:     runner,
			Editor:     editor,
			Sys:        confedit.RealSystem{},
			SSHDConfig: paths.SSHDConfig,
			SSHService: "ssh",
		},
		collector: report.NewCollector(),
	}

	origApp := newAppFunc
	newAppFunc = func(string) (*app, error) { return a, nil }
	t.Cleanup(func() { newAppFunc = origApp })

	origPriv := checkPrivilege
	checkPrivilege = func() error { return nil }
	t.Cleanup(func() { checkPrivilege = origPriv })

	return a
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	cmd.SetArgs(args)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootVersionFlag(t *testing.T) {
	cmd := newRootCmd()
	cmd.Version = "v1.2.3"
	cmd.SetVersionTemplate(messages.VersionTemplate)
	cmd.SetArgs([]string{"--version"})

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "v1.2.3", strings.TrimSpace(out.String()))
}

func TestRootHelp(t *testing.T) {
	out, err := runCommand(t, "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "install")
	assert.Contains(t, out, "bootstrap")
	assert.Contains(t, out, "status")
}

func TestInstallRequiresRoot(t *testing.T) {
	stubApp(t, &fakeRunner{})
	origPriv := checkPrivilege
	checkPrivilege = func() error { return cmdrun.ErrNotRoot }
	t.Cleanup(func() { checkPrivilege = origPriv })

	_, err := runCommand(t, "install")
	assert.ErrorIs(t, err, cmdrun.ErrNotRoot)
}

func TestInstallSingleComponent(t *testing.T) {
	a := stubApp(t, &fakeRunner{})
	out, err := runCommand(t, "install", "ssh")
	require.NoError(t, err)
	assert.Contains(t, out, messages.CatalogLabelSSH+" installed")

	data, readErr := os.ReadFile(a.bootstrapper.SSHDConfig)
	require.NoError(t, readErr)
	assert.Contains(t, string(data), "PasswordAuthentication no")
}

func TestInstallUnknownComponent(t *testing.T) {
	stubApp(t, &fakeRunner{})
	_, err := runCommand(t, "install", "nginx")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown component")
}

func TestInstallAllReportsPartialFailure(t *testing.T) {
	runner := &fakeRunner{responses: map[string]fakeResponse{
		"apt-get install -y docker.io": {exitCode: 100, output: "E: Unable to locate package docker.io"},
	}}
	stubApp(t, runner)

	out, err := runCommand(t, "install")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 5 components failed")
	assert.Contains(t, out, messages.CatalogLabelContainerRuntime)
	assert.True(t, runner.called("apt-get install -y xfce4"))
}

func TestUninstallToleratesNotInstalled(t *testing.T) {
	runner := &fakeRunner{responses: map[string]fakeResponse{
		"apt-get remove": {exitCode: 100, output: "Package 'fail2ban' is not installed, so not removed"},
		"systemctl stop": {exitCode: 5, output: "Failed to stop fail2ban.service: Unit fail2ban.service not loaded."},
	}}
	stubApp(t, runner)

	out, err := runCommand(t, "uninstall", "intrusion-prevention")
	require.NoError(t, err)
	assert.Contains(t, out, "removed")
}

func TestTestCommandFailuresExitSilently(t *testing.T) {
	runner := &fakeRunner{responses: map[string]fakeResponse{
		"ufw status": {exitCode: 1, output: "Status: inactive"},
	}}
	stubApp(t, runner)

	out, err := runCommand(t, "test", "firewall")
	var silent *SilentExitError
	require.ErrorAs(t, err, &silent)
	assert.Equal(t, 1, silent.Code)
	assert.Contains(t, out, "FAIL")
}

func TestStatusCommand(t *testing.T) {
	runner := &fakeRunner{responses: map[string]fakeResponse{
		"dpkg-query": {exitCode: 1, output: "no packages found"},
	}}
	stubApp(t, runner)

	out, err := runCommand(t, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "not-installed")
	assert.Contains(t, out, messages.CatalogLabelFirewall)
}

func TestBootstrapCommandWithKeyFlag(t *testing.T) {
	runner := &fakeRunner{responses: map[string]fakeResponse{
		"id -u ops": {exitCode: 1},
	}}
	a := stubApp(t, runner)

	out, err := runCommand(t, "bootstrap", "--user", "ops", "--key", "ssh-ed25519 AAAA ops@laptop")
	require.NoError(t, err)
	assert.Contains(t, out, "ops")
	assert.True(t, runner.called("useradd -m -s /bin/bash ops"))

	data, readErr := os.ReadFile(a.bootstrapper.SSHDConfig)
	require.NoError(t, readErr)
	assert.Contains(t, string(data), "PermitRootLogin no")
}

func TestBootstrapExistingUserWithoutReuseFails(t *testing.T) {
	runner := &fakeRunner{responses: map[string]fakeResponse{
		"id -u ops": {output: "1001"},
	}}
	stubApp(t, runner)

	_, err := runCommand(t, "bootstrap", "--user", "ops", "--key", "ssh-ed25519 AAAA ops@laptop")
	assert.ErrorIs(t, err, bootstrap.ErrUserExists)

	_, err = runCommand(t, "bootstrap", "--user", "ops", "--key", "ssh-ed25519 AAAA ops@laptop", "--reuse-existing")
	assert.NoError(t, err)
}

func TestGatherKeys(t *testing.T) {
	origDiscover := discoverKeysFunc
	discoverKeysFunc = func() ([]string, error) { return nil, nil }
	t.Cleanup(func() { discoverKeysFunc = origDiscover })

	keyFile := filepath.Join(t.TempDir(), "id_ed25519.pub")
	require.NoError(t, os.WriteFile(keyFile, []byte("ssh-ed25519 BBBB ops@desk\n"), 0o644))

	keys, err := gatherKeys([]string{" ssh-ed25519 AAAA ops@laptop "}, []string{keyFile})
	require.NoError(t, err)
	assert.Equal(t, []string{"ssh-ed25519 AAAA ops@laptop", "ssh-ed25519 BBBB ops@desk"}, keys)

	_, err = gatherKeys(nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--key")

	discoverKeysFunc = func() ([]string, error) { return []string{"ssh-ed25519 CCCC"}, nil }
	keys, err = gatherKeys(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"ssh-ed25519 CCCC"}, keys)

	_, err = gatherKeys(nil, []string{filepath.Join(t.TempDir(), "missing.pub")})
	require.Error(t, err)
}
