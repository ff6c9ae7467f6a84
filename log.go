package pool

import "go.uber.org/zap"

// logger is package-wide, matching the single process-wide free list
// and mutexes it reports on. It defaults to a no-op core so embedding
// a library consumer that never calls SetLogger pays nothing.
var logger = zap.NewNop()

// SetLogger installs the *zap.Logger used for corruption diagnostics
// (logged by fatal before it panics) and for the warning logged when a
// cleanup callback returns an error. Passing nil restores the no-op
// logger.
func SetLogger(l *zap.Logger) {
	if l == nil {
		logger = zap.NewNop()
		return
	}
	logger = l
}
