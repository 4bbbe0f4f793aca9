package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"pkt.systems/pslog"
)

// DefaultRequestIDHeader carries the request ID when none is configured.
const DefaultRequestIDHeader = "X-Request-ID"

type requestIDKey struct{}

// RequestIDFromContext returns the request ID stored by RequestID, or "".
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}

// RequestIDConfig configures the RequestID middleware.
type RequestIDConfig struct {
	// HeaderName overrides DefaultRequestIDHeader.
	HeaderName string

	// TrustIncoming reuses a request ID sent by the client.
	TrustIncoming bool

	// Logger is attached to the request context with the request_id field.
	// When nil, the logger already in the context is used.
	Logger pslog.Logger
}

// RequestID returns a middleware that assigns every request a time-ordered
// UUID, echoes it in the response header and binds it to the request
// logger.
func RequestID(cfg RequestIDConfig) Func {
	headerName := cfg.HeaderName
	if headerName == "" {
		headerName = DefaultRequestIDHeader
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := ""
			if cfg.TrustIncoming {
				id = r.Header.Get(headerName)
			}
			if id == "" {
				id = newRequestID()
			}

			logger := cfg.Logger
			if logger == nil {
				logger = loggerFrom(r.Context())
			}

			w.Header().Set(headerName, id)
			ctx := context.WithValue(r.Context(), requestIDKey{}, id)
			ctx = pslog.ContextWithLogger(ctx, logger.With("request_id", id))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func newRequestID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
