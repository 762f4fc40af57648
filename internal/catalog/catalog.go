// Package catalog defines the fixed set of installable components and the
// data-driven steps, probes, and assertions for each. The registry is built
// once at startup from the loaded configuration; definitions are immutable
// after that.
package catalog

import (
	"fmt"
	"strings"

	"github.com/opshall/hostforge/internal/config"
	"github.com/opshall/hostforge/internal/messages"
)

// ID identifies one component of the fixed catalog.
type ID string

// The enumerated component set. Order of declaration is not significant;
// Order() defines install sequencing.
const (
	IDSSH                 ID = "ssh"
	IDFirewall            ID = "firewall"
	IDIntrusionPrevention ID = "intrusion-prevention"
	IDContainerRuntime    ID = "container-runtime"
	IDRemoteDesktop       ID = "remote-desktop"
)

// Order returns the component IDs in dependency order, leaves first.
// The SSH-allow firewall rule depends on the SSH hardening port, so ssh
// precedes firewall; the rest follow in catalog order.
func Order() []ID {
	return []ID{IDSSH, IDFirewall, IDIntrusionPrevention, IDContainerRuntime, IDRemoteDesktop}
}

// ParseID resolves a user-supplied component identifier.
func ParseID(s string) (ID, error) {
	id := ID(strings.TrimSpace(strings.ToLower(s)))
	for _, known := range Order() {
		if id == known {
			return id, nil
		}
	}
	return "", fmt.Errorf(messages.CatalogUnknownComponentFmt, s, idList())
}

func idList() string {
	ids := Order()
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = string(id)
	}
	return strings.Join(parts, ", ")
}

// State is a component's live operational state, computed on demand and
// never cached: the underlying system may change between queries.
type State string

const (
	StateActive       State = "active"
	StateInactive     State = "inactive"
	StateNotInstalled State = "not-installed"
)

// Component is one installable unit: ordered install and uninstall steps,
// a status probe, and test assertions, all carried as data.
type Component struct {
	ID             ID
	Label          string
	InstallSteps   []Step
	UninstallSteps []Step

	// Status probe inputs. Package is checked against the dpkg database;
	// when absent the component is not-installed. Service, when set, is
	// probed via the service manager; otherwise StatusFile presence marks
	// the component active.
	Package    string
	Service    string
	StatusFile string

	Assertions []Assertion
}

// Catalog is the process-wide registry of component definitions.
type Catalog struct {
	components map[ID]*Component
}

// Paths carries host-specific file locations baked into component
// definitions at registry build time.
type Paths struct {
	SSHDConfig string // sshd daemon config
	JailLocal  string // fail2ban local override file
	VNCDir     string // per-user VNC session directory
	DockerLib  string // docker image and container state
	DockerEtc  string // docker daemon configuration
}

// DefaultPaths returns the standard locations, with VNC session files under
// home.
func DefaultPaths(home string) Paths {
	return Paths{
		SSHDConfig: "/etc/ssh/sshd_config",
		JailLocal:  "/etc/fail2ban/jail.local",
		VNCDir:     home + "/.vnc",
		DockerLib:  "/var/lib/docker",
		DockerEtc:  "/etc/docker",
	}
}

// New builds the component registry from cfg and paths.
func New(cfg *config.Config, paths Paths) *Catalog {
	components := []*Component{
		sshComponent(paths),
		firewallComponent(cfg),
		fail2banComponent(cfg, paths),
		dockerComponent(paths),
		vncComponent(cfg, paths),
	}
	byID := make(map[ID]*Component, len(components))
	for _, c := range components {
		byID[c.ID] = c
	}
	return &Catalog{components: byID}
}

// Get returns the component registered under id.
func (c *Catalog) Get(id ID) (*Component, bool) {
	comp, ok := c.components[id]
	return comp, ok
}

// InOrder returns all components in dependency order.
func (c *Catalog) InOrder() []*Component {
	ids := Order()
	out := make([]*Component, 0, len(ids))
	for _, id := range ids {
		out = append(out, c.components[id])
	}
	return out
}

// Benign output patterns for idempotent package and service steps.
const (
	benignAptNewest     = "is already the newest version"
	benignAptMissing    = "is not installed"
	benignUnitNotLoaded = "not loaded"
	benignUnitMissing   = "does not exist"
)
