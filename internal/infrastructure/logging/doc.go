// Package logging provides structured logging using uber/zap.
//
// This package offers production-ready logging with two modes:
//   - Production: JSON output for machine parsing
//   - Development: Colored console output for human readability
//
// Log Levels:
//   - Debug: Verbose debugging information
//   - Info: General informational messages
//   - Warn: Warning messages
//   - Error: Error messages
//   - Fatal: Fatal errors (exits process)
//
// Components receive the embedded *zap.Logger, usually named after the
// component ("history", "snapshot", "tools"), and log with structured fields.
// The level can be changed at runtime with SetLevel.
//
// Example Usage:
//
//	logger := logging.NewDefault()
//	logger.Info("Restored snapshot", zap.String("snapshot_id", sid))
//	logger.Warn("Font unavailable, using fallback", zap.Error(err))
package logging
