package messages

// Config editor messages.
const (
	// ConfeditFilesystemErrorFmt formats a failed filesystem mutation.
	ConfeditFilesystemErrorFmt = "%s %s: %v"

	ConfeditOpRead   = "read"
	ConfeditOpWrite  = "write"
	ConfeditOpMkdir  = "create directory"
	ConfeditOpBackup = "back up"
	ConfeditOpRemove = "remove"
)
