package types

import (
	"fmt"

	"github.com/samber/lo"
)

// LogLevel represents the logging level
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

func (l LogLevel) Validate() error {
	allowed := []LogLevel{LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError}
	if !lo.Contains(allowed, l) {
		return fmt.Errorf("invalid log level: %s", l)
	}
	return nil
}
