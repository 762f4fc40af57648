package messages

// Interactive menu.
const (
	MenuRequiresTerminal = "interactive mode requires a terminal; use the subcommands instead"

	MenuTitle                = "hostforge — what would you like to do?"
	MenuActionStatus         = "Show status report"
	MenuActionInstallAll     = "Install all components"
	MenuActionInstallOne     = "Install a component"
	MenuActionUninstallOne   = "Uninstall a component"
	MenuActionTestOne        = "Test a component"
	MenuActionBootstrap      = "Create admin user"
	MenuActionExit           = "Exit"
	MenuExitPrompt           = "Leave hostforge?"
	MenuGoodbye              = "Bye."
	MenuUnknownActionFmt     = "unknown menu action %q"
	MenuOperationFailedFmt   = "operation failed: %v"
	MenuSelectInstallTitle   = "Install which component?"
	MenuSelectUninstallTitle = "Uninstall which component?"
	MenuSelectTestTitle      = "Test which component?"
	MenuConfirmUninstallFmt  = "Really uninstall %s?"

	MenuInstallingFmt         = "Installing %s..."
	MenuComponentInstalledFmt = "%s installed"
	MenuComponentRemovedFmt   = "%s removed"
	MenuComponentFailedFmt    = "%s failed: %v"
	MenuSummaryHeading        = "Summary"
	MenuResultInstalled       = "installed"
	MenuResultFailed          = "failed"
	MenuSummaryPartialFmt     = "%d installed, %d failed"
	MenuConfigChangedFmt      = "updated %s:"

	MenuTestPassFmt    = "  ok   %s"
	MenuTestFailFmt    = "  FAIL %s: %v"
	MenuTestSummaryFmt = "%d of %d checks passed"

	MenuUsernamePrompt       = "Admin username"
	MenuPasteKeyPrompt       = "Paste an SSH public key for the admin user"
	MenuUseDiscoveredKeysFmt = "Use %d public key(s) found under ~/.ssh?"
	MenuRootPasswordPrompt   = "Root password (leave empty to skip)"
	MenuBootstrapReviewTitle = "Review"
	MenuBootstrapReviewFmt   = "username: %s\npublic keys: %d\nroot password: %s"
	MenuRootPasswordSet      = "will be set"
	MenuRootPasswordUnset    = "unchanged"
	MenuConfirmBootstrapFmt  = "Create admin %q with %d key(s)?"
	MenuUserExistsReuseFmt   = "User %q already exists. Grant access to the existing account?"
	MenuBootstrapSkipped     = "Bootstrap skipped. Nothing was changed."
	MenuBootstrapDoneFmt     = "Admin %q is ready. Key-based SSH access is configured."
)
