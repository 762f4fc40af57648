// Package menu drives the interactive session: a main-menu loop that
// dispatches to install, uninstall, test, status, and identity bootstrap.
package menu

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/opshall/hostforge/internal/bootstrap"
	"github.com/opshall/hostforge/internal/catalog"
	"github.com/opshall/hostforge/internal/config"
	"github.com/opshall/hostforge/internal/messages"
	"github.com/opshall/hostforge/internal/report"
)

var (
	// ErrInputCancelled means the user hit Ctrl+C: leave the program.
	ErrInputCancelled = errors.New("input cancelled")
	// errBack means the user hit Esc: return to the previous prompt.
	errBack = errors.New("back requested")
)

// Orchestrator owns the interactive session over the assembled
// collaborators. Operation failures are reported and return control to the
// main menu; only UI transport errors end the session.
type Orchestrator struct {
	UI           UI
	Catalog      *catalog.Catalog
	Runtime      *catalog.Runtime
	Bootstrapper *bootstrap.Bootstrapper
	Collector    *report.Collector
	Config       *config.Config
	Out          io.Writer

	// DiscoverKeys finds candidate SSH public keys for the bootstrap flow.
	// Defaults to bootstrap.DiscoverPublicKeys.
	DiscoverKeys func() ([]string, error)

	diffsShown int
}

func menuActions() []string {
	return []string{
		messages.MenuActionStatus,
		messages.MenuActionInstallAll,
		messages.MenuActionInstallOne,
		messages.MenuActionUninstallOne,
		messages.MenuActionTestOne,
		messages.MenuActionBootstrap,
		messages.MenuActionExit,
	}
}

// Run loops the main menu until the user exits. Esc on the main menu asks
// for confirmation; Ctrl+C anywhere leaves immediately.
func (o *Orchestrator) Run(ctx context.Context) error {
	for {
		action := messages.MenuActionStatus
		err := o.UI.Select(messages.MenuTitle, menuActions(), &action)
		switch {
		case errors.Is(err, ErrInputCancelled):
			fmt.Fprintln(o.Out, messages.MenuGoodbye)
			return nil
		case errors.Is(err, errBack):
			exit, confirmErr := o.confirmExit()
			if confirmErr != nil {
				return confirmErr
			}
			if exit {
				fmt.Fprintln(o.Out, messages.MenuGoodbye)
				return nil
			}
			continue
		case err != nil:
			return err
		}

		if action == messages.MenuActionExit {
			fmt.Fprintln(o.Out, messages.MenuGoodbye)
			return nil
		}

		if err := o.dispatch(ctx, action); err != nil {
			if errors.Is(err, ErrInputCancelled) {
				fmt.Fprintln(o.Out, messages.MenuGoodbye)
				return nil
			}
			if errors.Is(err, errBack) {
				continue
			}
			color.New(color.FgRed).Fprintf(o.Out, messages.MenuOperationFailedFmt+"\n", err)
		}
	}
}

func (o *Orchestrator) confirmExit() (bool, error) {
	exit := true
	if err := o.UI.Confirm(messages.MenuExitPrompt, &exit); err != nil {
		if errors.Is(err, errBack) {
			return false, nil
		}
		if errors.Is(err, ErrInputCancelled) {
			return true, nil
		}
		return false, err
	}
	return exit, nil
}

func (o *Orchestrator) dispatch(ctx context.Context, action string) error {
	switch action {
	case messages.MenuActionStatus:
		return o.statusReport(ctx)
	case messages.MenuActionInstallAll:
		return o.installAll(ctx)
	case messages.MenuActionInstallOne:
		return o.installOne(ctx)
	case messages.MenuActionUninstallOne:
		return o.uninstallOne(ctx)
	case messages.MenuActionTestOne:
		return o.testOne(ctx)
	case messages.MenuActionBootstrap:
		return o.createAdmin(ctx)
	}
	return fmt.Errorf(messages.MenuUnknownActionFmt, action)
}

func (o *Orchestrator) statusReport(ctx context.Context) error {
	rep := o.Collector.Build(ctx, o.Catalog, o.Runtime)
	rep.Render(o.Out)
	return nil
}

// installAll runs every component in dependency order. A component failure
// aborts that component's remaining steps only; the rest still run, and
// the summary reports the partial result.
func (o *Orchestrator) installAll(ctx context.Context) error {
	type outcome struct {
		label string
		err   error
	}
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)

	comps := o.Catalog.InOrder()
	outcomes := make([]outcome, 0, len(comps))
	for _, comp := range comps {
		fmt.Fprintf(o.Out, messages.MenuInstallingFmt+"\n", comp.Label)
		err := o.Runtime.Install(ctx, comp)
		outcomes = append(outcomes, outcome{comp.Label, err})
		if err != nil {
			red.Fprintf(o.Out, messages.MenuComponentFailedFmt+"\n", comp.Label, err)
		}
	}
	o.printNewDiffs()

	failed := 0
	fmt.Fprintln(o.Out, messages.MenuSummaryHeading)
	for _, oc := range outcomes {
		if oc.err != nil {
			failed++
			red.Fprintf(o.Out, "  %-32s %s\n", oc.label, messages.MenuResultFailed)
		} else {
			green.Fprintf(o.Out, "  %-32s %s\n", oc.label, messages.MenuResultInstalled)
		}
	}
	if failed > 0 {
		fmt.Fprintf(o.Out, messages.MenuSummaryPartialFmt+"\n", len(outcomes)-failed, failed)
	}
	return nil
}

func (o *Orchestrator) installOne(ctx context.Context) error {
	comp, err := o.selectComponent(messages.MenuSelectInstallTitle)
	if err != nil {
		return err
	}
	fmt.Fprintf(o.Out, messages.MenuInstallingFmt+"\n", comp.Label)
	if err := o.Runtime.Install(ctx, comp); err != nil {
		return err
	}
	o.printNewDiffs()
	color.New(color.FgGreen).Fprintf(o.Out, messages.MenuComponentInstalledFmt+"\n", comp.Label)
	return nil
}

func (o *Orchestrator) uninstallOne(ctx context.Context) error {
	comp, err := o.selectComponent(messages.MenuSelectUninstallTitle)
	if err != nil {
		return err
	}
	confirm := false
	if err := o.UI.Confirm(fmt.Sprintf(messages.MenuConfirmUninstallFmt, comp.Label), &confirm); err != nil {
		return err
	}
	if !confirm {
		return nil
	}
	if err := o.Runtime.Uninstall(ctx, comp); err != nil {
		return err
	}
	o.printNewDiffs()
	color.New(color.FgGreen).Fprintf(o.Out, messages.MenuComponentRemovedFmt+"\n", comp.Label)
	return nil
}

func (o *Orchestrator) testOne(ctx context.Context) error {
	comp, err := o.selectComponent(messages.MenuSelectTestTitle)
	if err != nil {
		return err
	}
	results := o.Runtime.Test(ctx, comp)
	failed := 0
	for _, res := range results {
		if res.Passed() {
			color.New(color.FgGreen).Fprintf(o.Out, messages.MenuTestPassFmt+"\n", res.Name)
		} else {
			failed++
			color.New(color.FgRed).Fprintf(o.Out, messages.MenuTestFailFmt+"\n", res.Name, res.Err)
		}
	}
	if failed > 0 {
		fmt.Fprintf(o.Out, messages.MenuTestSummaryFmt+"\n", len(results)-failed, len(results))
	}
	return nil
}

// createAdmin walks the identity bootstrap flow. The existing-user conflict
// is resolved by an explicit prompt, never silently.
func (o *Orchestrator) createAdmin(ctx context.Context) error {
	username := o.Config.Admin.Username
	if err := o.UI.Input(messages.MenuUsernamePrompt, &username); err != nil {
		return err
	}

	keys, err := o.collectKeys()
	if err != nil {
		return err
	}

	var rootPassword string
	if err := o.UI.SecretInput(messages.MenuRootPasswordPrompt, &rootPassword); err != nil {
		return err
	}

	passwordState := messages.MenuRootPasswordUnset
	if rootPassword != "" {
		passwordState = messages.MenuRootPasswordSet
	}
	review := fmt.Sprintf(messages.MenuBootstrapReviewFmt, username, len(keys), passwordState)
	if err := o.UI.Note(messages.MenuBootstrapReviewTitle, review); err != nil {
		return err
	}

	confirm := true
	if err := o.UI.Confirm(fmt.Sprintf(messages.MenuConfirmBootstrapFmt, username, len(keys)), &confirm); err != nil {
		return err
	}
	if !confirm {
		fmt.Fprintln(o.Out, messages.MenuBootstrapSkipped)
		return nil
	}

	opts := bootstrap.Options{
		Username:     username,
		PublicKeys:   keys,
		Policy:       bootstrap.PolicyAbort,
		RootPassword: rootPassword,
	}
	err = o.Bootstrapper.CreateAdmin(ctx, opts)
	if errors.Is(err, bootstrap.ErrUserExists) {
		reuse := false
		if confirmErr := o.UI.Confirm(fmt.Sprintf(messages.MenuUserExistsReuseFmt, username), &reuse); confirmErr != nil {
			return confirmErr
		}
		if !reuse {
			fmt.Fprintln(o.Out, messages.MenuBootstrapSkipped)
			return nil
		}
		opts.Policy = bootstrap.PolicyReuse
		err = o.Bootstrapper.CreateAdmin(ctx, opts)
	}
	if err != nil {
		return err
	}
	o.printNewDiffs()
	color.New(color.FgGreen).Fprintf(o.Out, messages.MenuBootstrapDoneFmt+"\n", username)
	return nil
}

// collectKeys offers discovered ~/.ssh public keys first and falls back to
// manual entry.
func (o *Orchestrator) collectKeys() ([]string, error) {
	discover := o.DiscoverKeys
	if discover == nil {
		discover = bootstrap.DiscoverPublicKeys
	}
	if found, err := discover(); err == nil && len(found) > 0 {
		use := true
		prompt := fmt.Sprintf(messages.MenuUseDiscoveredKeysFmt, len(found))
		if err := o.UI.Confirm(prompt, &use); err != nil {
			return nil, err
		}
		if use {
			return found, nil
		}
	}

	var key string
	if err := o.UI.Input(messages.MenuPasteKeyPrompt, &key); err != nil {
		return nil, err
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, errors.New(messages.BootstrapKeyRequired)
	}
	return []string{key}, nil
}

func (o *Orchestrator) selectComponent(title string) (*catalog.Component, error) {
	comps := o.Catalog.InOrder()
	labels := make([]string, len(comps))
	byLabel := make(map[string]*catalog.Component, len(comps))
	for i, comp := range comps {
		labels[i] = comp.Label
		byLabel[comp.Label] = comp
	}
	choice := labels[0]
	if err := o.UI.Select(title, labels, &choice); err != nil {
		return nil, err
	}
	comp, ok := byLabel[choice]
	if !ok {
		return nil, fmt.Errorf(messages.MenuUnknownActionFmt, choice)
	}
	return comp, nil
}

// printNewDiffs shows the config edits applied since the last print so the
// user sees exactly what changed on disk.
func (o *Orchestrator) printNewDiffs() {
	diffs := o.Runtime.Editor.Diffs()
	if o.diffsShown >= len(diffs) {
		return
	}
	faint := color.New(color.Faint)
	for _, d := range diffs[o.diffsShown:] {
		fmt.Fprintf(o.Out, messages.MenuConfigChangedFmt+"\n", d.Path)
		faint.Fprintln(o.Out, strings.TrimRight(d.Unified, "\n"))
	}
	o.diffsShown = len(diffs)
}
