package routing

import (
	"slices"
	"strings"
)

// Route is a URL path template together with the verbs it accepts.
type Route struct {
	Path    string  `json:"path" yaml:"path"`
	Methods VerbSet `json:"methods" yaml:"methods"`
}

// Action is a handler-class method reachable as a request target.
type Action struct {
	MethodName     string     `json:"methodName" yaml:"methodName"`
	Routes         []Route    `json:"routes" yaml:"routes"`
	Attributes     Attributes `json:"attributes,omitempty" yaml:"attributes,omitempty"`
	IsConventional bool       `json:"isConventional" yaml:"isConventional"`
}

// Clone returns a copy of a whose route list can be modified independently.
func (a Action) Clone() Action {
	a.Routes = slices.Clone(a.Routes)
	return a
}

// Name returns the action name used for placeholders: the action-name
// override when declared, otherwise the method name.
func (a Action) Name() string {
	if n, ok := ActionNameOverride(a.Attributes); ok {
		return n
	}
	return a.MethodName
}

// Controller is a discovered handler class with its actions. Identity is
// (ClassName, Namespace).
type Controller struct {
	ControllerName string     `json:"controllerName" yaml:"controllerName"`
	ClassName      string     `json:"className" yaml:"className"`
	Namespace      string     `json:"namespace" yaml:"namespace"`
	Prefix         string     `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	Area           string     `json:"area,omitempty" yaml:"area,omitempty"`
	Actions        []Action   `json:"actions" yaml:"actions"`
	Attributes     Attributes `json:"attributes,omitempty" yaml:"attributes,omitempty"`
}

// SameClass reports whether c and o describe the same class.
func (c *Controller) SameClass(o *Controller) bool {
	return c.ClassName == o.ClassName && c.Namespace == o.Namespace
}

// Action returns the index of the action with the given method name, or -1.
func (c *Controller) Action(methodName string) int {
	return slices.IndexFunc(c.Actions, func(a Action) bool {
		return a.MethodName == methodName
	})
}

// Clone returns a deep copy of c's action list.
func (c Controller) Clone() Controller {
	actions := make([]Action, len(c.Actions))
	for i, a := range c.Actions {
		actions[i] = a.Clone()
	}
	c.Actions = actions
	return c
}

const controllerSuffix = "Controller"

// ControllerName derives the convention name of a class by stripping the
// "Controller" suffix. A class named exactly "Controller" keeps its name.
func ControllerName(className string) string {
	if trimmed := strings.TrimSuffix(className, controllerSuffix); trimmed != "" {
		return trimmed
	}
	return className
}

// MatchesControllerName reports whether filter names the class either by its
// class name or by its convention name plus the "Controller" suffix.
func MatchesControllerName(className, filter string) bool {
	return filter == className || filter+controllerSuffix == className
}

// JoinPaths joins a prefix and a suffix into a canonical path. Slashes around
// both parts are trimmed; when both are empty the result is "" and no route
// should be produced.
func JoinPaths(prefix, suffix string) string {
	prefix = strings.Trim(prefix, "/")
	suffix = strings.Trim(suffix, "/")
	if prefix == "" && suffix == "" {
		return ""
	}
	route := prefix + "/" + suffix
	if !strings.HasPrefix(route, "/") {
		route = "/" + route
	}
	return strings.TrimSuffix(route, "/")
}

// IsCanonicalPath reports whether p satisfies the finalized route invariant:
// "/" or a single leading slash and no trailing slash.
func IsCanonicalPath(p string) bool {
	if p == "/" {
		return true
	}
	return strings.HasPrefix(p, "/") && !strings.HasPrefix(p, "//") && !strings.HasSuffix(p, "/")
}

// AllowedVerbs returns the verbs a route produced by source accepts. A verb
// override on source wins; otherwise the union of overrides across attrs
// applies; without any override every verb is allowed. source may be nil
// for routes not produced by a specific attribute.
func AllowedVerbs(attrs []Attribute, source Attribute) VerbSet {
	if source != nil {
		if v, ok := source.HTTPMethodOverride(); ok {
			return NewVerbSet(v)
		}
	}
	var set VerbSet
	for _, a := range attrs {
		if v, ok := a.HTTPMethodOverride(); ok {
			set = set.Add(v)
		}
	}
	if set.IsEmpty() {
		return AllVerbs
	}
	return set
}

// Coalesce merges routes sharing a path into one route with the union of
// their verbs. Paths keep the order of their first appearance.
func Coalesce(routes []Route) []Route {
	out := make([]Route, 0, len(routes))
	index := make(map[string]int, len(routes))
	for _, r := range routes {
		if i, ok := index[r.Path]; ok {
			out[i].Methods = out[i].Methods.Union(r.Methods)
			continue
		}
		index[r.Path] = len(out)
		out = append(out, r)
	}
	return out
}

// PropagatedRoute returns the path of the first attribute that propagates
// to actions and carries a path.
func PropagatedRoute(attrs []Attribute) (string, bool) {
	for _, a := range attrs {
		if a.Propagation() != PropagateToActions {
			continue
		}
		if p, ok := a.Route(); ok {
			return p, true
		}
	}
	return "", false
}

// PropagatedRoutes returns the paths of every attribute that propagates to
// actions and carries a path, in declaration order.
func PropagatedRoutes(attrs []Attribute) []string {
	var out []string
	for _, a := range attrs {
		if a.Propagation() != PropagateToActions {
			continue
		}
		if p, ok := a.Route(); ok {
			out = append(out, p)
		}
	}
	return out
}

// AttributeRoutes computes the explicit routes of a method from its
// attributes and the prefix propagated by its class. hasPrefix distinguishes
// an absent prefix from an empty one.
func AttributeRoutes(attrs []Attribute, prefix string, hasPrefix bool) []Route {
	suffix, hasSuffix := PropagatedRoute(attrs)

	var routes []Route
	for _, a := range attrs {
		if !a.CanGenerateRoute() {
			continue
		}
		own, ok := a.Route()
		if !ok && hasSuffix {
			own = suffix
		}
		p := JoinPaths(prefix, own)
		if p == "" {
			continue
		}
		routes = append(routes, Route{Path: p, Methods: AllowedVerbs(attrs, a)})
	}

	if len(routes) == 0 && hasPrefix {
		if p := JoinPaths(prefix, ""); p != "" {
			routes = append(routes, Route{Path: p, Methods: AllowedVerbs(attrs, nil)})
		}
	}

	return Coalesce(routes)
}
