// Package report gathers host facts and component states into a status
// report. Everything is probed fresh at call time.
package report

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"golang.org/x/sys/unix"

	"github.com/opshall/hostforge/internal/catalog"
	"github.com/opshall/hostforge/internal/messages"
)

// HostFacts is a point-in-time snapshot of the host.
type HostFacts struct {
	Hostname      string
	OS            string
	Kernel        string
	PrimaryIP     string
	MemTotal      uint64
	MemAvailable  uint64
	DiskTotal     uint64
	DiskAvailable uint64
}

// ComponentStatus pairs a component with its live state.
type ComponentStatus struct {
	ID    catalog.ID
	Label string
	State catalog.State
}

// Report is the full status report.
type Report struct {
	Facts      HostFacts
	Components []ComponentStatus
}

// Collector probes the host. The function fields exist as test seams and
// default to the real system calls.
type Collector struct {
	hostname       func() (string, error)
	readFile       func(string) ([]byte, error)
	statfs         func(string, *unix.Statfs_t) error
	uname          func(*unix.Utsname) error
	interfaceAddrs func() ([]net.Addr, error)
}

// NewCollector returns a Collector backed by the real host.
func NewCollector() *Collector {
	return &Collector{
		hostname:       os.Hostname,
		readFile:       os.ReadFile,
		statfs:         unix.Statfs,
		uname:          unix.Uname,
		interfaceAddrs: net.InterfaceAddrs,
	}
}

// Build assembles the report for every cataloged component. Probe failures
// for individual host facts leave that fact empty rather than failing the
// whole report.
func (c *Collector) Build(ctx context.Context, cat *catalog.Catalog, rt *catalog.Runtime) Report {
	rep := Report{Facts: c.hostFacts()}
	for _, comp := range cat.InOrder() {
		rep.Components = append(rep.Components, ComponentStatus{
			ID:    comp.ID,
			Label: comp.Label,
			State: rt.Status(ctx, comp),
		})
	}
	return rep
}

func (c *Collector) hostFacts() HostFacts {
	facts := HostFacts{}
	if name, err := c.hostname(); err == nil {
		facts.Hostname = name
	}
	if data, err := c.readFile("/etc/os-release"); err == nil {
		facts.OS = osPrettyName(string(data))
	}
	var uts unix.Utsname
	if err := c.uname(&uts); err == nil {
		facts.Kernel = unixString(uts.Release[:])
	}
	var fs unix.Statfs_t
	if err := c.statfs("/", &fs); err == nil {
		facts.DiskTotal = fs.Blocks * uint64(fs.Bsize)
		facts.DiskAvailable = fs.Bavail * uint64(fs.Bsize)
	}
	if data, err := c.readFile("/proc/meminfo"); err == nil {
		facts.MemTotal, facts.MemAvailable = parseMeminfo(string(data))
	}
	if addrs, err := c.interfaceAddrs(); err == nil {
		facts.PrimaryIP = primaryIPv4(addrs)
	}
	return facts
}

// Render writes the report in the two-section layout: host facts first,
// then one line per component with a colored state.
func (r Report) Render(w io.Writer) {
	bold := color.New(color.Bold)
	bold.Fprintln(w, messages.ReportHostHeading)
	writeFact(w, messages.ReportFactHostname, r.Facts.Hostname)
	writeFact(w, messages.ReportFactOS, r.Facts.OS)
	writeFact(w, messages.ReportFactKernel, r.Facts.Kernel)
	writeFact(w, messages.ReportFactPrimaryIP, r.Facts.PrimaryIP)
	if r.Facts.MemTotal > 0 {
		writeFact(w, messages.ReportFactMemory, fmt.Sprintf(messages.ReportUsageFmt,
			humanize.IBytes(r.Facts.MemAvailable), humanize.IBytes(r.Facts.MemTotal)))
	}
	if r.Facts.DiskTotal > 0 {
		writeFact(w, messages.ReportFactDisk, fmt.Sprintf(messages.ReportUsageFmt,
			humanize.IBytes(r.Facts.DiskAvailable), humanize.IBytes(r.Facts.DiskTotal)))
	}

	fmt.Fprintln(w)
	bold.Fprintln(w, messages.ReportComponentsHeading)
	for _, comp := range r.Components {
		fmt.Fprintf(w, "  %-24s %s\n", comp.Label, stateColor(comp.State).Sprint(string(comp.State)))
	}
}

func writeFact(w io.Writer, label, value string) {
	if value == "" {
		value = messages.ReportFactUnknown
	}
	fmt.Fprintf(w, "  %-12s %s\n", label, value)
}

func stateColor(s catalog.State) *color.Color {
	switch s {
	case catalog.StateActive:
		return color.New(color.FgGreen)
	case catalog.StateInactive:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgRed)
	}
}

// osPrettyName extracts PRETTY_NAME from os-release content.
func osPrettyName(content string) string {
	scanner := bufio.NewScanner(strings.NewReader(content))
	for scanner.Scan() {
		line := scanner.Text()
		if value, ok := strings.CutPrefix(line, "PRETTY_NAME="); ok {
			return strings.Trim(value, `"`)
		}
	}
	return ""
}

// parseMeminfo reads MemTotal and MemAvailable, reported by the kernel
// in kibibytes, and returns both as bytes.
func parseMeminfo(content string) (total, available uint64) {
	scanner := bufio.NewScanner(strings.NewReader(content))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 {
			continue
		}
		kb, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			continue
		}
		switch fields[0] {
		case "MemTotal:":
			total = kb * 1024
		case "MemAvailable:":
			available = kb * 1024
		}
	}
	return total, available
}

// primaryIPv4 picks the first global unicast IPv4 address.
func primaryIPv4(addrs []net.Addr) string {
	for _, addr := range addrs {
		ipNet, ok := addr.(*net.IPNet)
		if !ok {
			continue
		}
		ip := ipNet.IP.To4()
		if ip == nil || !ip.IsGlobalUnicast() {
			continue
		}
		return ip.String()
	}
	return ""
}

func unixString(b []byte) string {
	if i := strings.IndexByte(string(b), 0); i >= 0 {
		return string(b[:i])
	}
	return string(b)
}
