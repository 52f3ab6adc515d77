package logger

import "go.uber.org/zap/zapcore"

// Verbosity is the -v count, after [log] verbosity from am.toml is merged in.
// It selects output categories (see output.go) as well as the zap level.
const (
	VerbosityUser  = 0 // results and error tags
	VerbosityInfo  = 1 // -v
	VerbosityDebug = 2 // -vv, also implied by --trace
	VerbosityTrace = 3 // -vvv, turns on store tracing
)

var levelNames = [...]string{
	VerbosityUser:  "User",
	VerbosityInfo:  "Info (-v)",
	VerbosityDebug: "Debug (-vv)",
	VerbosityTrace: "Trace (-vvv)",
}

// VerbosityToLevel maps a -v count to a zap level; warnings always show.
func VerbosityToLevel(verbosity int) zapcore.Level {
	switch {
	case verbosity >= VerbosityDebug:
		return zapcore.DebugLevel
	case verbosity == VerbosityInfo:
		return zapcore.InfoLevel
	default:
		return zapcore.WarnLevel
	}
}

func ShouldLogTrace(verbosity int) bool {
	return verbosity >= VerbosityTrace
}

func LevelName(verbosity int) string {
	switch {
	case verbosity < 0:
		return "Unknown"
	case verbosity > VerbosityTrace:
		return "Trace (-vvv+)"
	}
	return levelNames[verbosity]
}
