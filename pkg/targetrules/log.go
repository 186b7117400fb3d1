package targetrules

import (
	"context"

	"github.com/rs/zerolog"
)

type loggerKey struct{}

var nopLogger = zerolog.Nop()

// WithLogger attaches the given logger to the context. Everything in this package that
// reports progress (script loading, discovery, cache handling) logs through it.
func WithLogger(ctx context.Context, logger *zerolog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// log returns the logger attached with WithLogger or a disabled logger if there is none.
func log(ctx context.Context) *zerolog.Logger {
	logger, ok := ctx.Value(loggerKey{}).(*zerolog.Logger)
	if !ok || logger == nil {
		return &nopLogger
	}

	return logger
}
