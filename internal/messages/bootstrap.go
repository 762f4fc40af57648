package messages

// Identity bootstrap.
const (
	BootstrapUsernameRequired = "a username is required"
	BootstrapKeyRequired      = "at least one SSH public key is required"
	BootstrapUserExistsFmt    = "user %q: %w"
	BootstrapStepFailedFmt    = "bootstrap %s: %w"
	BootstrapHomeDirParseFmt  = "could not resolve home directory for %q"

	BootstrapStepCheckUser      = "check user"
	BootstrapStepCreateUser     = "create user"
	BootstrapStepGrantSudo      = "grant sudo"
	BootstrapStepAuthorizedKeys = "install authorized keys"
	BootstrapStepRootPassword   = "set root password"
	BootstrapStepHardenSSH      = "harden sshd config"
	BootstrapStepRestartSSH     = "restart ssh"
)
