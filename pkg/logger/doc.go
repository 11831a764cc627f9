// Package logger provides a structured logging interface for the issue miner.
//
// It wraps the zerolog library to provide a clean, easy-to-use API with support for:
// - Multiple log levels (Debug, Info, Warn, Error, Fatal)
// - Structured logging with fields
// - Pretty console output with colors
// - JSON output for machine consumption
// - File output alongside the console
// - Context support for request tracing
// - Global logger instance for easy access
//
// Basic Usage:
//
//	import "l10nminer/pkg/logger"
//
//	// Initialize the global logger
//	cfg := &config.LoggingConfig{
//	    Level: "info",
//	    File: "/var/log/l10nminer.log",
//	}
//	err := logger.Initialize(cfg)
//
//	// Use the global logger
//	logger.Info("Campaign started")
//	logger.WithField("term", "i18n").Info("Searching issues")
//	logger.WithError(err).Error("Failed to fetch search page")
//
// Advanced Usage:
//
//	// Create a logger instance with fields
//	log := logger.GetLogger().
//	    WithField("component", "crawler").
//	    WithField("run_id", "83f1c7e2")
//
//	// Use structured logging
//	log.InfoWithFields("Quarter saved", map[string]interface{}{
//	    "year":    2021,
//	    "quarter": 1,
//	    "issues":  412,
//	})
//
// The logger supports the following configuration options:
// - Level: Log level (debug, info, warn, error, fatal)
// - Format: Output format (console or json)
// - File: Path to log file (empty for console only)
package logger
