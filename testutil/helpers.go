package testutil

import "go.uber.org/zap"

// NopLogger returns a logger that discards everything, for tests that need
// a *zap.Logger but don't assert on log output.
func NopLogger() *zap.Logger {
	return zap.NewNop()
}
