// Package logger provides structured logging for streamkit pipelines
// using zerolog.
//
// It supports multiple output formats (JSON, console), log level
// configuration, and component- or stage-scoped loggers with structured
// fields.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.GetGlobalLogger().WithComponent("kafka.source")
//	log.Info("consumer started", logger.Fields(logger.FieldTopic, "events"))
package logger
