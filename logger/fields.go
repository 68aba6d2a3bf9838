package logger

import (
	"go.uber.org/zap"
)

// Standard field names for consistent structured logging across parigen.
// Use these constants instead of raw strings to ensure consistency.
const (
	// Identity
	FieldRunID     = "run_id"
	FieldComponent = "component"

	// Descriptors
	FieldFunction  = "function"
	FieldCName     = "cname"
	FieldPrototype = "prototype"
	FieldClass     = "class"
	FieldSection   = "section"
	FieldReceiver  = "receiver"
	FieldReason    = "reason"
	FieldArgs      = "args"
	FieldReturn    = "return"

	// Errors
	FieldError = "error"

	// Counts and sizes
	FieldCount    = "count"
	FieldAccepted = "accepted"
	FieldRejected = "rejected"
	FieldSkipped  = "skipped"
	FieldBytes    = "bytes"

	// Status
	FieldState     = "state"
	FieldVerbosity = "verbosity"

	// Files and paths
	FieldFile    = "file"
	FieldPath    = "path"
	FieldLine    = "line"
	FieldOp      = "op"
	FieldVersion = "version"
	FieldCommand = "command"
)

// ComponentLogger returns a named logger for a specific component.
// This is the preferred way to get a logger for dependency injection.
//
// Example:
//
//	g := gen.New(gen.Options{
//	    Logger: logger.ComponentLogger("gen"),
//	})
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}

// ChildLogger creates a child logger with additional context.
//
// Example:
//
//	runLogger := logger.ChildLogger(baseLogger, logger.FieldRunID, runID)
func ChildLogger(parent *zap.SugaredLogger, keysAndValues ...interface{}) *zap.SugaredLogger {
	return parent.With(keysAndValues...)
}
