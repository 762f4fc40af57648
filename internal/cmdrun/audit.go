package cmdrun

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// NewAuditLogger builds a zap logger that appends one line per executed
// command to hostforge.log under logDir. The directory is created when
// missing.
func NewAuditLogger(logDir string) (*zap.SugaredLogger, error) {
	if _, err := os.Stat(logDir); os.IsNotExist(err) {
		if err := os.MkdirAll(logDir, 0o755); err != nil {
			return nil, err
		}
	}
	logFile := filepath.Join(logDir, "hostforge.log")
	loggerConfig := zap.NewProductionConfig()
	loggerConfig.OutputPaths = []string{logFile}
	loggerConfig.ErrorOutputPaths = []string{logFile}
	logger, err := loggerConfig.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}
