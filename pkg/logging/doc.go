// Package logging builds the zap loggers used across the intake service.
//
//	level, err := logging.ParseLevel("info")
//	logger := logging.NewWithLevel(level, "json", zapcore.Lock(os.Stdout))
//	logger.Info("record stored", logging.ContextFields(ctx)...)
//
// Request-scoped fields travel in the context: the request id middleware
// stores the id with WithRequestID and ContextFields turns it back into zap
// fields.
//
// Identity field values (names, addresses, CNP) must never be passed to a
// logger. Log record ids and label names instead.
package logging
