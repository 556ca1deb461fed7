// Package logger provides structured logging utilities built on Go's standard slog package.
//
// Loggers are created with New and a set of options:
//
//	log := logger.New(
//		logger.WithDevelopment("chaoxing"),
//		logger.WithContextExtractors(logger.RunIDExtractor),
//	)
//
//	log.InfoContext(ctx, "attachment submitted",
//		logger.Component("playback"),
//		logger.ObjectID(objectID),
//		logger.StatusCode(resp.StatusCode),
//	)
//
// # Environment Presets
//
//	logger.WithDevelopment("app") // text, debug level
//	logger.WithStaging("app")     // JSON, info level
//	logger.WithProduction("app")  // JSON, info level
//
// ForEnv picks one of the presets by environment name.
//
// # Attribute Helpers
//
// Helpers such as Error, Errors, ObjectID and RunID return an empty slog.Attr
// for zero values, so they can be passed unconditionally:
//
//	log.Error("status fetch failed", logger.Error(err), logger.ObjectID(id))
//
// # Context Attributes
//
// WithContextValue and WithContextExtractors decorate the handler so attributes
// stored in the context are added to every record logged with a *Context method.
// WithRunID / RunIDExtractor cover the run identifier used by the replay app.
package logger
