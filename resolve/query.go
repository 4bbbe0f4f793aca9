package resolve

import (
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"pkt.systems/pslog"

	"github.com/vitalvas/routescope/convention"
	"github.com/vitalvas/routescope/metadata"
	"github.com/vitalvas/routescope/routing"
)

// Feature is an opt-in resolution behavior.
type Feature uint

const (
	// FeatureInferVerbFromName derives the verb of a convention action whose
	// template names neither controller nor action from the action name
	// prefix (GetX -> GET), defaulting to POST.
	FeatureInferVerbFromName Feature = 1 << iota
)

func (f Feature) has(flag Feature) bool {
	return f&flag != 0
}

// Option configures a Query.
type Option func(*Query)

// WithConventionRoutes sets the convention route templates, in the order
// they are matched.
func WithConventionRoutes(routes []*convention.Route) Option {
	return func(q *Query) {
		q.routes = routes
	}
}

// WithFeatures enables opt-in behaviors.
func WithFeatures(features ...Feature) Option {
	return func(q *Query) {
		for _, f := range features {
			q.features |= f
		}
	}
}

// WithLogger sets the logger used when the context carries none.
func WithLogger(logger pslog.Logger) Option {
	return func(q *Query) {
		if logger != nil {
			q.logger = logger
		}
	}
}

// WithControllers restricts resolution to classes whose name is one of
// names, with or without the Controller suffix.
func WithControllers(names ...string) Option {
	return func(q *Query) {
		q.controllers = append(q.controllers, names...)
	}
}

// WithNonPublicActions includes non-public methods as actions.
func WithNonPublicActions(include bool) Option {
	return func(q *Query) {
		q.includeNonPublic = include
	}
}

// Query resolves the routes of one metadata source. A Query holds no state
// between calls and may be reused.
type Query struct {
	src              metadata.Source
	routes           []*convention.Route
	features         Feature
	controllers      []string
	includeNonPublic bool
	logger           pslog.Logger
}

// New returns a Query over src.
func New(src metadata.Source, opts ...Option) *Query {
	q := &Query{
		src:    src,
		logger: pslog.NoopLogger(),
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// ControllerTypes returns the handler classes of the source in declaration
// order, after the controller name filter.
func (q *Query) ControllerTypes() []*metadata.Type {
	var out []*metadata.Type
	for _, t := range q.src.Types() {
		if !q.selected(t.Name) {
			continue
		}
		if IsController(q.src, t, routing.ClassifyAll(t.Annotations)) {
			out = append(out, t)
		}
	}
	return out
}

func (q *Query) selected(className string) bool {
	if len(q.controllers) == 0 {
		return true
	}
	return slices.ContainsFunc(q.controllers, func(filter string) bool {
		return routing.MatchesControllerName(className, filter)
	})
}

// Controllers resolves every handler class into its actions and routes.
// Explicit routes are computed first, convention routes are merged in
// template order, and route placeholders are inlined last.
func (q *Query) Controllers(ctx context.Context) ([]routing.Controller, error) {
	logger := q.logger
	if l := pslog.LoggerFromContext(ctx); l != nil {
		logger = l
	}
	logger = logger.With("query_id", uuid.NewString())

	types := q.ControllerTypes()
	logger.Info("resolve.start",
		"controllers", len(types),
		"convention_routes", len(q.routes),
	)

	explicit := make([]routing.Controller, 0, len(types))
	for _, t := range types {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("resolve: %w", err)
		}
		c := ExplicitController(t, q.includeNonPublic)
		logger.Debug("resolve.controller",
			"class", t.Ref().FullName(),
			"prefix", c.Prefix,
			"actions", len(c.Actions),
		)
		explicit = append(explicit, c)
	}

	var conventional []routing.Controller
	for _, route := range q.routes {
		for _, t := range types {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("resolve: %w", err)
			}
			c := q.conventionalController(logger, route, t)
			if len(c.Actions) == 0 {
				continue
			}
			conventional = append(conventional, c)
		}
	}

	controllers := InlinePlaceholders(Merge(explicit, conventional))

	routes := 0
	for _, c := range controllers {
		for _, a := range c.Actions {
			routes += len(a.Routes)
		}
	}
	logger.Info("resolve.done",
		"controllers", len(controllers),
		"routes", routes,
	)
	return controllers, nil
}
