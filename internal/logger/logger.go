// Package logger holds the process-wide structured logger.
package logger

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Standard field names for structured logging across wikiqa.
const (
	FieldComponent  = "component"
	FieldBackend    = "backend"
	FieldEntityID   = "entity_id"
	FieldQuestion   = "question"
	FieldPath       = "path"
	FieldCount      = "count"
	FieldDurationMS = "duration_ms"
	FieldError      = "error"
)

var (
	// Logger is the global logger. It is a no-op until Initialize is called.
	Logger *zap.SugaredLogger
	// JSONOutput records whether Initialize selected JSON output.
	JSONOutput bool
)

func init() {
	Logger = zap.NewNop().Sugar()
}

// Initialize replaces the global logger. jsonOutput selects zap's production
// JSON encoder; otherwise a console encoder is written to stderr.
func Initialize(jsonOutput bool, level string) error {
	lvl, err := ParseLevel(level)
	if err != nil {
		return err
	}

	var zl *zap.Logger
	if jsonOutput {
		cfg := zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(lvl)
		zl, err = cfg.Build()
		if err != nil {
			return err
		}
	} else {
		encCfg := zap.NewDevelopmentEncoderConfig()
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zl = zap.New(zapcore.NewCore(
			zapcore.NewConsoleEncoder(encCfg),
			zapcore.AddSync(os.Stderr),
			lvl,
		))
	}

	JSONOutput = jsonOutput
	Logger = zl.Sugar()
	return nil
}

// ParseLevel maps a level name to a zap level. Empty means info.
func ParseLevel(level string) (zapcore.Level, error) {
	if strings.TrimSpace(level) == "" {
		return zapcore.InfoLevel, nil
	}
	return zapcore.ParseLevel(strings.ToLower(level))
}

// Named returns a child of l (or of the global logger when l is nil) tagged
// with the component name.
func Named(l *zap.SugaredLogger, component string) *zap.SugaredLogger {
	if l == nil {
		l = Logger
	}
	return l.Named(component).With(FieldComponent, component)
}

// Sync flushes the global logger.
func Sync() {
	_ = Logger.Sync()
}
