// Package logger holds the process-wide zap logger and the field names,
// verbosity levels and statement glyph helpers tagd logs with.
package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger discards everything until Initialize runs, so packages may log
// unconditionally.
var Logger = zap.NewNop().Sugar()

// Level is shared by every core Initialize builds; SetVerbosity moves it at runtime.
var Level = zap.NewAtomicLevelAt(zap.WarnLevel)

// Initialize installs a logger writing to stderr. Stdout is reserved for
// statement results.
func Initialize(jsonOutput bool) error {
	if jsonOutput {
		cfg := zap.NewProductionConfig()
		cfg.Level = Level
		cfg.OutputPaths = []string{"stderr"}
		cfg.ErrorOutputPaths = []string{"stderr"}
		cfg.DisableStacktrace = true
		l, err := cfg.Build()
		if err != nil {
			return err
		}
		Logger = l.Sugar()
		return nil
	}

	enc := zap.NewDevelopmentEncoderConfig()
	enc.EncodeLevel = zapcore.CapitalColorLevelEncoder
	enc.TimeKey = ""
	enc.CallerKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.Lock(os.Stderr), Level)
	Logger = zap.New(core).Sugar()
	return nil
}

// SetVerbosity moves the shared level to match a -v count
func SetVerbosity(verbosity int) {
	Level.SetLevel(VerbosityToLevel(verbosity))
}

// Cleanup flushes buffered entries. Sync errors on a terminal are expected.
func Cleanup() {
	_ = Logger.Sync()
}

func Debugw(msg string, keysAndValues ...interface{}) { Logger.Debugw(msg, keysAndValues...) }
func Infow(msg string, keysAndValues ...interface{})  { Logger.Infow(msg, keysAndValues...) }
func Warnw(msg string, keysAndValues ...interface{})  { Logger.Warnw(msg, keysAndValues...) }
func Errorw(msg string, keysAndValues ...interface{}) { Logger.Errorw(msg, keysAndValues...) }
