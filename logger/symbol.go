package logger

import (
	"github.com/musetronstar/tagd/sym"
	"go.uber.org/zap"
)

// Statement-aware logging helpers.
// These functions log with the statement glyph as a structured field, not in the message.
//
// Usage:
//
//	logger.AddStatementSymbol(s.logger, sym.Put).Debugw("inserted", logger.FieldTag, id)

// AddStatementSymbol wraps a logger with a statement glyph
func AddStatementSymbol(l *zap.SugaredLogger, glyph string) *zap.SugaredLogger {
	return l.With(FieldSymbol, glyph)
}

// PutDebugw logs a debug message with the put glyph (>>)
func PutDebugw(msg string, keysAndValues ...interface{}) {
	if Logger != nil {
		fields := append([]interface{}{FieldSymbol, sym.Put}, keysAndValues...)
		Logger.Debugw(msg, fields...)
	}
}

// QueryDebugw logs a debug message with the query glyph (??)
func QueryDebugw(msg string, keysAndValues ...interface{}) {
	if Logger != nil {
		fields := append([]interface{}{FieldSymbol, sym.Query}, keysAndValues...)
		Logger.Debugw(msg, fields...)
	}
}

// SymbolInfow logs with any glyph - for dynamic statement usage
func SymbolInfow(glyph, msg string, keysAndValues ...interface{}) {
	if Logger != nil {
		fields := append([]interface{}{FieldSymbol, glyph}, keysAndValues...)
		Logger.Infow(msg, fields...)
	}
}
