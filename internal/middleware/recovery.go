package middleware

import (
	"fmt"
	"net/http"
)

// Recovery returns a middleware that turns panics in downstream handlers
// into 500 Internal Server Error responses and logs the recovered value.
func Recovery() Func {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					if err == http.ErrAbortHandler {
						panic(err)
					}
					loggerFrom(r.Context()).Error("http.panic",
						"method", r.Method,
						"path", r.URL.Path,
						"panic", fmt.Sprint(err),
					)
					http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
