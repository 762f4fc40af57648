package messages

// CLI messages for user-facing commands and flags.
const (
	// RootUse is the CLI command name.
	RootUse = "hostforge"
	// RootShort is the short description for the root command.
	RootShort = "Provision a single Debian/Ubuntu host: SSH hardening, firewall, fail2ban, Docker, VNC"
	RootLong  = "hostforge installs, verifies, and removes the base services of a freshly\ninstalled server. Run it without arguments for the interactive menu, or use\nthe subcommands for scripted provisioning."

	// VersionCommitFmt formats the commit hash for version display.
	VersionCommitFmt = "commit %s"
	VersionBuildFmt  = "built %s"
	VersionFullFmt   = "%s (%s)"
	VersionTemplate  = "{{.Version}}\n"

	FlagConfig = "Path to the hostforge config file"

	InstallUse        = "install [component]"
	InstallShort      = "Install all components, or a single one"
	InstallPartialFmt = "%d of %d components failed to install"

	UninstallUse   = "uninstall <component>"
	UninstallShort = "Uninstall a component and remove its managed configuration"

	TestUse       = "test <component>"
	TestShort     = "Run a component's verification checks"
	TestFailedFmt = "%d of %d checks failed"

	StatusUse   = "status"
	StatusShort = "Show host facts and the state of every component"

	BootstrapUse        = "bootstrap"
	BootstrapShort      = "Create the admin user with key-based SSH access"
	BootstrapFlagUser   = "Username for the admin account"
	BootstrapFlagKey    = "SSH public key to authorize (repeatable)"
	BootstrapFlagFile   = "File containing an SSH public key to authorize (repeatable)"
	BootstrapFlagReuse  = "Provision access for an already existing account instead of failing"
	BootstrapNoKeys     = "no SSH public keys given and none found under ~/.ssh; pass --key or --key-file"
	BootstrapKeyFileFmt = "read key file %s: %w"

	MenuUse   = "menu"
	MenuShort = "Interactive provisioning menu (the default)"
)
