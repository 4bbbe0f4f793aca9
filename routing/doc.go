// Package routing holds the route model shared by every resolution stage and
// the pure functions that compute explicit (annotation-driven) routes.
//
// # Annotations
//
// Raw annotation records are classified into a closed set of routing
// attributes. Attribute is a sealed interface; the variants are:
//
//	ApiController          marks a class as a request handler
//	Route("api/widgets")   path prefix propagating to actions without a path
//	HttpGet("{id}")        verb-specific marker (HttpPost, HttpPut, ...)
//	NonAction              excludes a method from convention routing
//	ActionName("List")     overrides the action name used by conventions
//	Area("Admin")          assigns a class to an area
//
// Unrecognized records are dropped by Classify without error.
//
// # Paths
//
// JoinPaths produces canonical paths: a single leading slash, no trailing
// slash, and exactly one slash between prefix and suffix:
//
//	routing.JoinPaths("/api/", "/users/") // "/api/users"
//	routing.JoinPaths("api", "")          // "/api"
//	routing.JoinPaths("", "")             // "" (no route)
//
// # Verbs
//
// Routes carry a VerbSet. A verb-specific attribute that produced a route
// restricts it to its own verb; otherwise the union of verb overrides on the
// method applies, and a method without any override accepts every verb.
package routing
