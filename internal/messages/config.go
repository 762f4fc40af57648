package messages

// Config loading messages.
const (
	ConfigReadFailedFmt   = "failed to read config %s: %v"
	ConfigInvalidTOMLFmt  = "invalid config %s: %v"
	ConfigInvalidValueFmt = "invalid config %s: %w"

	ConfigSSHPortRangeFmt    = "ssh.port %d is outside 1-65535"
	ConfigAdminUsernameEmpty = "admin.username must not be empty"
	ConfigFail2banPositive   = "fail2ban.ban_seconds, fail2ban.find_seconds, and fail2ban.max_retry must be positive"
	ConfigVNCDisplayRangeFmt = "vnc.display %d is outside 1-99"
	ConfigVNCGeometryFmt     = "vnc.geometry %q must look like 1920x1080"
)
