package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/opshall/hostforge/internal/cmdrun"
	"github.com/opshall/hostforge/internal/confedit"
	"github.com/opshall/hostforge/internal/messages"
)

// Runtime bundles the collaborators component operations run against.
type Runtime struct {
	Runner cmdrun.Runner
	Editor *confedit.Editor
	Sys    confedit.System
}

// Assertion is one test check, stricter than the status probe: it verifies
// the component is functioning, not merely present.
type Assertion struct {
	Name  string
	Check func(ctx context.Context, rt *Runtime) error
}

// TestResult is the outcome of one assertion.
type TestResult struct {
	Name string
	Err  error
}

// Passed reports whether the assertion held.
func (r TestResult) Passed() bool {
	return r.Err == nil
}

// Install runs the component's install steps strictly in order. The first
// unexpected failure aborts the remaining steps; completed steps are not
// rolled back.
func (rt *Runtime) Install(ctx context.Context, c *Component) error {
	return rt.runSteps(ctx, c.InstallSteps)
}

// Uninstall runs the component's uninstall steps strictly in order. Every
// step tolerates the not-installed case, so uninstall is safe to call even
// when install never completed or already ran.
func (rt *Runtime) Uninstall(ctx context.Context, c *Component) error {
	return rt.runSteps(ctx, c.UninstallSteps)
}

func (rt *Runtime) runSteps(ctx context.Context, steps []Step) error {
	for _, step := range steps {
		if err := step.run(ctx, rt); err != nil {
			return fmt.Errorf(messages.CatalogStepFailedFmt, step.Name, err)
		}
	}
	return nil
}

// Status probes the component's live state. Read-only: nothing here
// mutates the system, and the result is never cached.
func (rt *Runtime) Status(ctx context.Context, c *Component) State {
	if c.Package != "" && !rt.packageInstalled(ctx, c.Package) {
		return StateNotInstalled
	}
	if c.Service != "" {
		if _, err := rt.Runner.Run(ctx, "systemctl", "is-active", "--quiet", c.Service); err != nil {
			return StateInactive
		}
		return StateActive
	}
	if c.StatusFile != "" {
		if _, err := rt.Sys.Stat(c.StatusFile); err != nil {
			return StateInactive
		}
		return StateActive
	}
	return StateActive
}

// Test runs every assertion and reports each outcome. Assertions keep
// running past failures so the report covers the full set.
func (rt *Runtime) Test(ctx context.Context, c *Component) []TestResult {
	results := make([]TestResult, 0, len(c.Assertions))
	for _, a := range c.Assertions {
		results = append(results, TestResult{Name: a.Name, Err: a.Check(ctx, rt)})
	}
	return results
}

// packageInstalled checks the dpkg database for an installed package.
// Any query failure is treated as not-installed.
func (rt *Runtime) packageInstalled(ctx context.Context, pkg string) bool {
	res, err := rt.Runner.Run(ctx, "dpkg-query", "-W", "-f=${Status}", pkg)
	if err != nil {
		return false
	}
	return strings.Contains(res.Output, "install ok installed")
}
