// Package middleware provides the HTTP middleware wrapped around the
// documentation server: panic recovery, request IDs, access logging and
// security response headers.
//
// Every middleware is a Func and composes with Chain:
//
//	handler := middleware.Chain(mux,
//		middleware.RequestID(middleware.RequestIDConfig{Logger: logger}),
//		middleware.AccessLog(),
//		middleware.Recovery(),
//	)
//
// Middlewares log through the pslog logger stored in the request context,
// so RequestID should run first.
package middleware
