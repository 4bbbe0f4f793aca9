package middleware

import (
	"errors"
	"net/http"
)

// ErrInvalidFrameOption is returned for a FrameOption other than DENY,
// SAMEORIGIN or empty.
var ErrInvalidFrameOption = errors.New("security headers: frame option must be DENY, SAMEORIGIN, or empty")

// SecurityHeadersConfig configures the SecurityHeaders middleware.
type SecurityHeadersConfig struct {
	// FrameOption sets X-Frame-Options. Defaults to "DENY".
	FrameOption string

	// ReferrerPolicy defaults to "strict-origin-when-cross-origin".
	ReferrerPolicy string
}

// SecurityHeaders returns a middleware that sets X-Content-Type-Options,
// X-Frame-Options and Referrer-Policy before calling the next handler.
func SecurityHeaders(cfg SecurityHeadersConfig) (Func, error) {
	switch cfg.FrameOption {
	case "":
		cfg.FrameOption = "DENY"
	case "DENY", "SAMEORIGIN":
	default:
		return nil, ErrInvalidFrameOption
	}

	if cfg.ReferrerPolicy == "" {
		cfg.ReferrerPolicy = "strict-origin-when-cross-origin"
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", cfg.FrameOption)
			h.Set("Referrer-Policy", cfg.ReferrerPolicy)

			next.ServeHTTP(w, r)
		})
	}, nil
}
