package logger

import (
	"context"

	"go.uber.org/zap"
)

// Standard field names for consistent structured logging across tagd.
// Use these constants instead of raw strings to ensure consistency.
const (
	// Identity and context
	FieldSession   = "session"
	FieldComponent = "component"

	// Operations
	FieldOperation = "operation"
	FieldStatement = "statement"
	FieldSQL       = "sql"

	// Tag structure
	FieldTag         = "tag"
	FieldSubRelator  = "sub_relator"
	FieldSuperObject = "super_object"
	FieldRank        = "rank"
	FieldPOS         = "pos"
	FieldRelator     = "relator"
	FieldObject      = "object"
	FieldContext     = "context"

	// Timing
	FieldDurationMS = "duration_ms"

	// Errors
	FieldError     = "error"
	FieldErrorCode = "error_code"

	// Counts and sizes
	FieldCount = "count"
	FieldSize  = "size"

	// Files and paths
	FieldFile = "file"
	FieldPath = "path"

	FieldSymbol = "symbol" // statement glyph (>>, <<, !!, ??, %%)
)

// Context keys for propagating logging context
type contextKey string

const (
	sessionKey   contextKey = "logger_session"
	componentKey contextKey = "logger_component"
)

// WithSession adds a session ID to the context for logging
func WithSession(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionKey, sessionID)
}

// WithComponent adds a component name to the context for logging
func WithComponent(ctx context.Context, component string) context.Context {
	return context.WithValue(ctx, componentKey, component)
}

// FieldsFromContext extracts logging fields from context.
// Returns key-value pairs suitable for use with Infow/Errorw/etc.
func FieldsFromContext(ctx context.Context) []interface{} {
	var fields []interface{}

	if session, ok := ctx.Value(sessionKey).(string); ok && session != "" {
		fields = append(fields, FieldSession, session)
	}
	if component, ok := ctx.Value(componentKey).(string); ok && component != "" {
		fields = append(fields, FieldComponent, component)
	}

	return fields
}

// LoggerFromContext returns a logger with fields extracted from context.
func LoggerFromContext(ctx context.Context) *zap.SugaredLogger {
	fields := FieldsFromContext(ctx)
	if len(fields) == 0 {
		return Logger
	}
	return Logger.With(fields...)
}

// ComponentLogger returns a named logger for a specific component.
// This is the preferred way to get a logger for dependency injection.
//
// Example:
//
//	store, err := storage.New(conn, storage.Config{}, logger.ComponentLogger("storage"))
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}

// ChildLogger creates a child logger with additional context.
//
// Example:
//
//	sessLogger := logger.ChildLogger(baseLogger, logger.FieldSession, sess.ID())
func ChildLogger(parent *zap.SugaredLogger, keysAndValues ...interface{}) *zap.SugaredLogger {
	return parent.With(keysAndValues...)
}
