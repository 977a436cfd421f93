// Package logger provides structured logging for playharvest.
//
// It wraps zerolog behind the Logger interface so packages can accept a
// logger without depending on zerolog directly. Console output goes to
// stderr in a compact human readable form; when a log file is configured
// JSON lines are appended to it as well.
//
// Basic Usage:
//
//	err := logger.Initialize(&config.LoggingConfig{Level: "info"})
//
//	logger.Info("harvest started")
//	logger.WithFields(logger.UnitFields("us", "TOOLS", "")).Info("unit started")
//
// Tests use NewTestLogger to capture messages or NewNopLogger to discard
// them.
package logger
