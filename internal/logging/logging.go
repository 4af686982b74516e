// Package logging builds the logr.Logger used throughout the module and
// defines the verbosity levels shared by all packages.
//
// Level conventions:
//   - V(0): normal operations and warnings
//   - V(DEBUG): per-block and per-step detail
//   - V(TRACE): inner-loop detail, group-wise values
package logging

import (
	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Verbosity levels for logger.V(...).
const (
	DEBUG = 1
	TRACE = 2
)

// Config controls logger construction.
type Config struct {
	// Development switches to the human-readable console encoder.
	Development bool

	// Verbosity is the maximum V level that will be emitted.
	Verbosity int
}

// New constructs a zap-backed logr.Logger.
func New(cfg Config) (logr.Logger, error) {
	var zapCfg zap.Config
	if cfg.Development {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}
	// logr V levels map onto negative zap levels.
	zapCfg.Level = zap.NewAtomicLevelAt(zapcore.Level(-cfg.Verbosity)) //nolint:gosec
	zl, err := zapCfg.Build()
	if err != nil {
		return logr.Logger{}, err
	}
	return zapr.NewLogger(zl), nil
}

// NewTest returns a development logger suitable for unit tests; construction
// failures panic since they indicate a broken zap config, not runtime input.
func NewTest() logr.Logger {
	log, err := New(Config{Development: true, Verbosity: TRACE})
	if err != nil {
		panic(err)
	}
	return log
}
