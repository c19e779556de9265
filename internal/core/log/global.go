package log

import (
	"os"
)

// ============================================================================
// package-level convenience functions delegating to Default()
// ============================================================================

// Debug logs at debug level.
func Debug(args ...interface{}) {
	Default().Debug(args...)
}

// Info logs at info level.
func Info(args ...interface{}) {
	Default().Info(args...)
}

// Warn logs at warn level.
func Warn(args ...interface{}) {
	Default().Warn(args...)
}

// Error logs at error level.
func Error(args ...interface{}) {
	Default().Error(args...)
}

// Debugf logs a formatted message at debug level.
func Debugf(format string, args ...interface{}) {
	Default().Debugf(format, args...)
}

// Infof logs a formatted message at info level.
func Infof(format string, args ...interface{}) {
	Default().Infof(format, args...)
}

// Warnf logs a formatted message at warn level.
func Warnf(format string, args ...interface{}) {
	Default().Warnf(format, args...)
}

// Errorf logs a formatted message at error level.
func Errorf(format string, args ...interface{}) {
	Default().Errorf(format, args...)
}

// Fatal logs at error level and exits.
func Fatal(args ...interface{}) {
	Default().Error(args...)
	os.Exit(1)
}

// Fatalf logs a formatted message at error level and exits.
func Fatalf(format string, args ...interface{}) {
	Default().Errorf(format, args...)
	os.Exit(1)
}

// WithField creates a logger with an attached field.
func WithField(key string, value interface{}) Logger {
	return Default().WithField(key, value)
}

// WithFields creates a logger with attached fields.
func WithFields(fields map[string]interface{}) Logger {
	return Default().WithFields(fields)
}

// WithError creates a logger with an attached error.
func WithError(err error) Logger {
	return Default().WithError(err)
}
