package report

import (
	"bytes"
	"context"
	"errors"
	"net"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/opshall/hostforge/internal/catalog"
	"github.com/opshall/hostforge/internal/cmdrun"
	"github.com/opshall/hostforge/internal/config"
	"github.com/opshall/hostforge/internal/confedit"
)

const meminfo = `MemTotal:        8046508 kB
MemFree:          512044 kB
MemAvailable:    4023254 kB
Buffers:          203012 kB
`

const osRelease = `NAME="Ubuntu"
PRETTY_NAME="Ubuntu 24.04.1 LTS"
VERSION_ID="24.04"
`

type stubRunner struct {
	active map[string]bool
}

func (s *stubRunner) Run(_ context.Context, name string, args ...string) (cmdrun.Result, error) {
	line := strings.Join(append([]string{name}, args...), " ")
	if strings.HasPrefix(line, "dpkg-query") {
		pkg := args[len(args)-1]
		if _, known := s.active[pkg]; known {
			return cmdrun.Result{Output: "install ok installed"}, nil
		}
		return cmdrun.Result{ExitCode: 1}, &cmdrun.CommandError{Cmd: line, ExitCode: 1}
	}
	if strings.HasPrefix(line, "systemctl is-active") {
		svc := args[len(args)-1]
		if s.active[pkgForService(svc)] {
			return cmdrun.Result{}, nil
		}
		return cmdrun.Result{ExitCode: 3}, &cmdrun.CommandError{Cmd: line, ExitCode: 3}
	}
	return cmdrun.Result{}, nil
}

func (s *stubRunner) RunInput(ctx context.Context, _ string, name string, args ...string) (cmdrun.Result, error) {
	return s.Run(ctx, name, args...)
}

func pkgForService(svc string) string {
	switch svc {
	case "ssh":
		return "openssh-server"
	case "docker":
		return "docker.io"
	}
	return svc
}

func testCollector(t *testing.T) *Collector {
	t.Helper()
	return &Collector{
		hostname: func() (string, error) { return "edge-01", nil },
		readFile: func(path string) ([]byte, error) {
			switch path {
			case "/proc/meminfo":
				return []byte(meminfo), nil
			case "/etc/os-release":
				return []byte(osRelease), nil
			}
			return nil, errors.New("unexpected read: " + path)
		},
		statfs: func(_ string, fs *unix.Statfs_t) error {
			fs.Bsize = 4096
			fs.Blocks = 25600000
			fs.Bavail = 12800000
			return nil
		},
		uname: func(uts *unix.Utsname) error {
			copy(uts.Release[:], "6.8.0-45-generic")
			return nil
		},
		interfaceAddrs: func() ([]net.Addr, error) {
			return []net.Addr{
				&net.IPNet{IP: net.ParseIP("127.0.0.1"), Mask: net.CIDRMask(8, 32)},
				&net.IPNet{IP: net.ParseIP("192.0.2.10"), Mask: net.CIDRMask(24, 32)},
			}, nil
		},
	}
}

func testSetup(t *testing.T, runner *stubRunner) (*catalog.Catalog, *catalog.Runtime) {
	t.Helper()
	dir := t.TempDir()
	cat := catalog.New(config.Default(), catalog.Paths{
		SSHDConfig: filepath.Join(dir, "sshd_config"),
		JailLocal:  filepath.Join(dir, "jail.local"),
		VNCDir:     filepath.Join(dir, ".vnc"),
		DockerLib:  filepath.Join(dir, "docker-lib"),
		DockerEtc:  filepath.Join(dir, "docker-etc"),
	})
	rt := &catalog.Runtime{
		Runner: runner,
		Editor: confedit.NewEditor(confedit.RealSystem{}),
		Sys:    confedit.RealSystem{},
	}
	return cat, rt
}

func TestBuild_CollectsFactsAndStates(t *testing.T) {
	runner := &stubRunner{active: map[string]bool{
		"openssh-server": true,
		"ufw":            false,
	}}
	cat, rt := testSetup(t, runner)

	rep := testCollector(t).Build(context.Background(), cat, rt)

	assert.Equal(t, "edge-01", rep.Facts.Hostname)
	assert.Equal(t, "Ubuntu 24.04.1 LTS", rep.Facts.OS)
	assert.Equal(t, "6.8.0-45-generic", rep.Facts.Kernel)
	assert.Equal(t, "192.0.2.10", rep.Facts.PrimaryIP)
	assert.Equal(t, uint64(8046508*1024), rep.Facts.MemTotal)
	assert.Equal(t, uint64(4023254*1024), rep.Facts.MemAvailable)
	assert.Equal(t, uint64(25600000*4096), rep.Facts.DiskTotal)

	require.Len(t, rep.Components, 5)
	byID := map[catalog.ID]catalog.State{}
	for _, comp := range rep.Components {
		byID[comp.ID] = comp.State
	}
	assert.Equal(t, catalog.StateActive, byID[catalog.IDSSH])
	assert.Equal(t, catalog.StateInactive, byID[catalog.IDFirewall])
	assert.Equal(t, catalog.StateNotInstalled, byID[catalog.IDContainerRuntime])
}

func TestBuild_ProbeFailuresLeaveFactsEmpty(t *testing.T) {
	runner := &stubRunner{active: map[string]bool{}}
	cat, rt := testSetup(t, runner)

	c := testCollector(t)
	c.readFile = func(string) ([]byte, error) { return nil, errors.New("denied") }
	c.statfs = func(string, *unix.Statfs_t) error { return errors.New("denied") }

	rep := c.Build(context.Background(), cat, rt)
	assert.Empty(t, rep.Facts.OS)
	assert.Zero(t, rep.Facts.MemTotal)
	assert.Zero(t, rep.Facts.DiskTotal)
	assert.Equal(t, "edge-01", rep.Facts.Hostname)
	require.Len(t, rep.Components, 5)
}

func TestRender(t *testing.T) {
	rep := Report{
		Facts: HostFacts{
			Hostname:      "edge-01",
			OS:            "Ubuntu 24.04.1 LTS",
			Kernel:        "6.8.0-45-generic",
			PrimaryIP:     "192.0.2.10",
			MemTotal:      8 << 30,
			MemAvailable:  4 << 30,
			DiskTotal:     100 << 30,
			DiskAvailable: 50 << 30,
		},
		Components: []ComponentStatus{
			{ID: catalog.IDSSH, Label: "SSH hardening", State: catalog.StateActive},
			{ID: catalog.IDFirewall, Label: "Firewall (UFW)", State: catalog.StateNotInstalled},
		},
	}

	var buf bytes.Buffer
	rep.Render(&buf)
	out := buf.String()

	assert.Contains(t, out, "edge-01")
	assert.Contains(t, out, "Ubuntu 24.04.1 LTS")
	assert.Contains(t, out, "4 GiB available of 8 GiB")
	assert.Contains(t, out, "SSH hardening")
	assert.Contains(t, out, "active")
	assert.Contains(t, out, "not-installed")
}

func TestRender_UnknownFactsPlaceholder(t *testing.T) {
	var buf bytes.Buffer
	Report{}.Render(&buf)
	assert.Contains(t, buf.String(), "unknown")
}

func TestParseMeminfo_Malformed(t *testing.T) {
	total, available := parseMeminfo("garbage\nMemTotal: abc kB\n")
	assert.Zero(t, total)
	assert.Zero(t, available)
}
