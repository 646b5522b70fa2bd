package logger

import (
	"go.uber.org/zap"
)

// New builds the process logger. Production gets JSON output, everything
// else gets the console encoder with debug enabled.
func New(env string) (*zap.Logger, error) {
	if env == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// NewNop returns a logger that discards everything. For tests.
func NewNop() *zap.Logger {
	return zap.NewNop()
}
