package messages

// Command runner messages.
const (
	// RunnerCommandFailedFmt formats a failed command without output.
	RunnerCommandFailedFmt = "command %q exited with code %d"
	// RunnerCommandFailedOutputFmt formats a failed command with trailing output.
	RunnerCommandFailedOutputFmt = "command %q exited with code %d: %s"

	RunnerAuditOK     = "command succeeded"
	RunnerAuditFailed = "command failed"
)
