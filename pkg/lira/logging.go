package lira

import (
	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds a logr.Logger backed by zap, at the given verbosity
// (0 = info; any verbosity above 0 selects zap's debug level, which enables
// the V(1) dispatch call sites in propagator.go, while the V(2) per-pivot
// call site in simplex.go stays disabled at every verbosity). Facade and
// Propagator default to logr.Discard() until WithLogger attaches one of
// these; cmd/lira wires this in from --log-level.
func NewLogger(verbosity int) (logr.Logger, error) {
	level := zapcore.InfoLevel
	if verbosity > 0 {
		level = zapcore.DebugLevel
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	zl, err := cfg.Build()
	if err != nil {
		return logr.Discard(), err
	}
	return zapr.NewLoggerWithOptions(zl, zapr.LogInfoLevel("v")), nil
}
