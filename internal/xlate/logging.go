package xlate

import (
	"sync"

	"go.uber.org/zap"
)

var (
	logger     *zap.Logger
	loggerOnce sync.Once
)

// Logger returns the xlate package's logger instance. It defaults to a
// no-op logger so embedding a translator never forces a logging
// dependency onto a caller that doesn't want one.
func Logger() *zap.Logger {
	loggerOnce.Do(func() {
		if logger == nil {
			logger = zap.NewNop()
		}
	})
	return logger
}

// SetLogger replaces the package-wide logger that Logger returns. No
// translator code path writes to it: translating a function body logs
// nothing at any level.
func SetLogger(l *zap.Logger) {
	logger = l
}
