// Package cmdrun executes privileged external commands and classifies
// their outcomes. Package-manager, service-manager, and firewall commands
// all pass through here so every invocation lands in the audit log.
package cmdrun

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"go.uber.org/zap"

	"github.com/opshall/hostforge/internal/messages"
)

// Result holds the captured outcome of an external command.
type Result struct {
	ExitCode int
	Output   string
}

// CommandError reports an external command that exited unexpectedly.
// Callers decide whether the failure aborts the current operation; nothing
// in this package terminates the process.
type CommandError struct {
	Cmd      string
	ExitCode int
	Output   string
	Err      error
}

// Error formats the command line, exit code, and trailing output.
func (e *CommandError) Error() string {
	out := strings.TrimSpace(e.Output)
	if out == "" {
		return fmt.Sprintf(messages.RunnerCommandFailedFmt, e.Cmd, e.ExitCode)
	}
	return fmt.Sprintf(messages.RunnerCommandFailedOutputFmt, e.Cmd, e.ExitCode, lastLines(out, 3))
}

// Unwrap exposes the underlying exec error.
func (e *CommandError) Unwrap() error {
	return e.Err
}

// Runner executes external commands. Implementations must never terminate
// the process on failure; errors are returned for the caller to classify.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (Result, error)
	RunInput(ctx context.Context, input string, name string, args ...string) (Result, error)
}

// ExecRunner runs commands via os/exec. Audit, when set, receives one entry
// per invocation.
type ExecRunner struct {
	Audit *zap.SugaredLogger
}

// Run executes name with args and captures combined output.
// A non-zero exit is returned as a *CommandError; the Result is populated
// either way so callers can inspect output on failure.
func (r ExecRunner) Run(ctx context.Context, name string, args ...string) (Result, error) {
	return r.run(ctx, "", name, args...)
}

// RunInput executes name with args, feeding input on stdin.
// Used for commands like chpasswd that only accept credentials via stdin.
func (r ExecRunner) RunInput(ctx context.Context, input string, name string, args ...string) (Result, error) {
	return r.run(ctx, input, name, args...)
}

func (r ExecRunner) run(ctx context.Context, input string, name string, args ...string) (Result, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	if input != "" {
		cmd.Stdin = strings.NewReader(input)
	}
	out, err := cmd.CombinedOutput()
	res := Result{Output: string(out)}
	cmdline := commandLine(name, args)
	if err == nil {
		r.audit(cmdline, 0, nil)
		return res, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
	} else {
		// Start failures (binary missing, permission denied) have no exit code.
		res.ExitCode = -1
	}
	cmdErr := &CommandError{Cmd: cmdline, ExitCode: res.ExitCode, Output: res.Output, Err: err}
	r.audit(cmdline, res.ExitCode, cmdErr)
	return res, cmdErr
}

func (r ExecRunner) audit(cmdline string, exitCode int, err error) {
	if r.Audit == nil {
		return
	}
	if err != nil {
		r.Audit.Warnw(messages.RunnerAuditFailed, "cmd", cmdline, "exit", exitCode)
		return
	}
	r.Audit.Infow(messages.RunnerAuditOK, "cmd", cmdline)
}

// Benign reports whether err is a CommandError matching one of the known
// benign patterns ("already installed", "not loaded", ...). Patterns are
// checked against the captured output and against the exec error itself;
// start failures such as a missing binary produce no output, only an error
// like `exec: "ufw": executable file not found in $PATH`. Such failures are
// treated as success by idempotent install and uninstall steps.
func Benign(err error, patterns []string) bool {
	if err == nil || len(patterns) == 0 {
		return false
	}
	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		return false
	}
	for _, p := range patterns {
		if p == "" {
			continue
		}
		if strings.Contains(cmdErr.Output, p) {
			return true
		}
		if cmdErr.Err != nil && strings.Contains(cmdErr.Err.Error(), p) {
			return true
		}
	}
	return false
}

func commandLine(name string, args []string) string {
	if len(args) == 0 {
		return name
	}
	return name + " " + strings.Join(args, " ")
}

func lastLines(s string, n int) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) <= n {
		return strings.Join(lines, "\n")
	}
	return strings.Join(lines[len(lines)-n:], "\n")
}
