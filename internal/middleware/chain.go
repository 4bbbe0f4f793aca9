package middleware

import (
	"context"
	"net/http"

	"pkt.systems/pslog"
)

// Func wraps an http.Handler.
type Func func(http.Handler) http.Handler

// Chain applies mws to h so the first middleware sees the request first.
func Chain(h http.Handler, mws ...Func) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

func loggerFrom(ctx context.Context) pslog.Logger {
	if logger := pslog.LoggerFromContext(ctx); logger != nil {
		return logger
	}
	return pslog.NoopLogger()
}
