package messages

// Component assertion messages.
const (
	SSHAssertMarkerMissingFmt = "hardening block missing from %s"
	SSHAssertPasswordAuthFmt  = "%s does not disable password authentication"

	FirewallAssertDefaultDeny = "default incoming policy is not deny"
	FirewallAssertSSHAllowFmt = "no ALLOW rule for %s in the committed ruleset"
	FirewallAssertEnabled     = "firewall is not enabled"

	Fail2banAssertOverrideFmt = "%s does not contain %q"

	DockerAssertVersionParseFmt  = "cannot parse docker version from %q"
	DockerAssertVersionTooOldFmt = "docker engine %s is older than required %s"

	VNCAssertPermFmt     = "%s has mode %v, want 0700"
	VNCAssertGeometryFmt = "%s does not contain %q"
)
