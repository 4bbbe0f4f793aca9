// Package resolve computes the route inventory of a compiled web-service
// binary from its metadata.
//
// Resolution runs as a pipeline of pure stages:
//
//  1. annotation records are classified into routing attributes;
//  2. handler classes are discovered by marker attribute or base type;
//  3. explicit routes are computed from method attributes and the prefix
//     propagated by the class;
//  4. convention templates are matched against each handler class;
//  5. both results are merged per class, explicit routes taking precedence;
//  6. [controller], [action] and [area] tokens left in paths are inlined.
//
// A Query holds the inputs of one resolution pass:
//
//	routes, _, err := convention.LoadNearest(binaryPath)
//	if err != nil {
//		return err
//	}
//	q := resolve.New(manifest,
//		resolve.WithConventionRoutes(routes),
//		resolve.WithFeatures(resolve.FeatureInferVerbFromName),
//	)
//	controllers, err := q.Controllers(ctx)
//
// The result preserves the declaration order of types, methods and
// annotations, so resolving the same inputs twice yields identical output.
package resolve
