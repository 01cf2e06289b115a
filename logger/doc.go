// Package logger provides structured logging for gostream using zerolog.
//
// Terminal runs of a pipeline log through the "pipeline" component logger
// with the run id, operation name, element count and duration attached.
// Debug level shows every run; failed runs are logged at warn.
//
// # Configuration
//
//	logging:
//	  level: "debug"
//	  format: "json"
//
// # Usage
//
//	logger.Init(logger.Config{Level: "debug", Format: "json"})
//	log := logger.Get("pipeline")
//	log.Info("loaded", logger.Fields(logger.FieldElements, 12))
package logger
