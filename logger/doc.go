// Package logger provides structured logging on top of zerolog.
//
// Services receive an injected *Logger and derive scoped loggers from it:
//
//	log := logger.New(&cfg.Logging, "transcriber")
//	reqLog := log.WithComponent("workflow").WithFields(logger.Fields(
//		logger.FieldRequestID, id,
//		logger.FieldFilename, filename,
//	))
//	reqLog.Info("state changed", logger.Fields(logger.FieldState, "downloading"))
//
// A process-wide default exists for bootstrap code that runs before the
// configured logger is built.
package logger
