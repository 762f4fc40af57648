package cmdrun

import (
	"errors"
	"os"
)

// ErrNotRoot indicates the process lacks the privilege required for
// mutating operations.
var ErrNotRoot = errors.New("hostforge must run as root for this operation")

var geteuid = os.Geteuid

// CheckPrivilege returns ErrNotRoot when the effective UID is not root.
// Mutating commands call this before touching any system state so an
// unprivileged invocation fails fast instead of partially running.
func CheckPrivilege() error {
	if geteuid() != 0 {
		return ErrNotRoot
	}
	return nil
}
