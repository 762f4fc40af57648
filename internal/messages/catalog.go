package messages

// Component catalog messages.
const (
	// CatalogStepFailedFmt wraps a failed install or uninstall step.
	CatalogStepFailedFmt = "step %q: %w"
	// CatalogUnknownComponentFmt reports an unrecognized component identifier.
	CatalogUnknownComponentFmt = "unknown component %q (valid: %s)"

	CatalogLabelSSH                 = "SSH hardening"
	CatalogLabelFirewall            = "UFW firewall"
	CatalogLabelIntrusionPrevention = "fail2ban intrusion prevention"
	CatalogLabelContainerRuntime    = "Docker container runtime"
	CatalogLabelRemoteDesktop       = "XFCE/VNC remote desktop"
)
