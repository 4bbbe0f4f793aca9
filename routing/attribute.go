package routing

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/vitalvas/routescope/metadata"
)

// Propagation describes how a path-carrying attribute extends to actions.
type Propagation int

const (
	// PropagationNone means the attribute does not propagate a path.
	PropagationNone Propagation = iota
	// PropagateToActions extends the path to actions without their own
	// path and enables routing for them.
	PropagateToActions
	// PropagateToRoutedActions extends the path only to actions that are
	// already routed.
	PropagateToRoutedActions
)

func (p Propagation) String() string {
	switch p {
	case PropagateToActions:
		return "PropagateToActions"
	case PropagateToRoutedActions:
		return "PropagateToRoutedActions"
	default:
		return "None"
	}
}

// Attribute is a classified routing annotation. The set of implementations
// is closed; every capability has a fixed default that variants override.
type Attribute interface {
	// Name is the annotation name without namespace or "Attribute" suffix.
	Name() string
	// EnablesController reports whether the attribute marks a class as a
	// request handler.
	EnablesController() bool
	// Route returns the path template carried by the attribute, if any.
	Route() (string, bool)
	Propagation() Propagation
	// HTTPMethodOverride returns the verb the attribute binds its action to.
	HTTPMethodOverride() (Verb, bool)
	// CanGenerateRoute reports whether the attribute yields a route for the
	// action it is attached to.
	CanGenerateRoute() bool
	DisablesConventionalRoutes() bool
	// ActionName returns an action-name override used by conventions.
	ActionName() (string, bool)
	// Area returns the area a class belongs to.
	Area() (string, bool)

	attribute()
}

// defaults implements the capability defaults: no route, no propagation, no
// verb override.
type defaults struct{}

func (defaults) EnablesController() bool          { return false }
func (defaults) Route() (string, bool)            { return "", false }
func (defaults) Propagation() Propagation         { return PropagationNone }
func (defaults) HTTPMethodOverride() (Verb, bool) { return 0, false }
func (defaults) CanGenerateRoute() bool           { return false }
func (defaults) DisablesConventionalRoutes() bool { return false }
func (defaults) ActionName() (string, bool)       { return "", false }
func (defaults) Area() (string, bool)             { return "", false }
func (defaults) attribute()                       {}

// APIControllerAttribute marks a class as a request handler.
type APIControllerAttribute struct{ defaults }

// NewAPIController returns the handler-enabling marker.
func NewAPIController() *APIControllerAttribute { return &APIControllerAttribute{} }

func (*APIControllerAttribute) Name() string            { return "ApiController" }
func (*APIControllerAttribute) EnablesController() bool { return true }

// RouteAttribute carries an optional path that propagates to actions.
type RouteAttribute struct {
	defaults
	path    string
	hasPath bool
}

// NewRoute returns a path-prefix marker. Called without a path, the marker
// carries none; at most one path is used.
func NewRoute(path ...string) *RouteAttribute {
	a := &RouteAttribute{}
	if len(path) > 0 {
		a.path, a.hasPath = path[0], true
	}
	return a
}

func (*RouteAttribute) Name() string             { return "Route" }
func (a *RouteAttribute) Route() (string, bool)  { return a.path, a.hasPath }
func (*RouteAttribute) Propagation() Propagation { return PropagateToActions }
func (*RouteAttribute) CanGenerateRoute() bool   { return true }

// HTTPAttribute binds an action to a single verb, optionally with a path.
type HTTPAttribute struct {
	defaults
	method  Verb
	path    string
	hasPath bool
}

// NewHTTP returns a verb-specific marker bound to method.
func NewHTTP(method Verb, path ...string) *HTTPAttribute {
	a := &HTTPAttribute{method: method}
	if len(path) > 0 {
		a.path, a.hasPath = path[0], true
	}
	return a
}

func (a *HTTPAttribute) Name() string                     { return "Http" + a.method.TitleCase() }
func (a *HTTPAttribute) Route() (string, bool)            { return a.path, a.hasPath }
func (a *HTTPAttribute) HTTPMethodOverride() (Verb, bool) { return a.method, true }
func (*HTTPAttribute) CanGenerateRoute() bool             { return true }

// Method returns the verb the marker is bound to.
func (a *HTTPAttribute) Method() Verb { return a.method }

// NonActionAttribute excludes a method from convention routing.
type NonActionAttribute struct{ defaults }

// NewNonAction returns the convention-disabling marker.
func NewNonAction() *NonActionAttribute { return &NonActionAttribute{} }

func (*NonActionAttribute) Name() string                     { return "NonAction" }
func (*NonActionAttribute) DisablesConventionalRoutes() bool { return true }

// ActionNameAttribute overrides the action name matched by conventions.
type ActionNameAttribute struct {
	defaults
	name string
}

// NewActionName returns an action-name override.
func NewActionName(name string) *ActionNameAttribute { return &ActionNameAttribute{name: name} }

func (*ActionNameAttribute) Name() string                 { return "ActionName" }
func (a *ActionNameAttribute) ActionName() (string, bool) { return a.name, true }

// AreaAttribute assigns a class to an area.
type AreaAttribute struct {
	defaults
	area string
}

// NewArea returns an area marker.
func NewArea(area string) *AreaAttribute { return &AreaAttribute{area: area} }

func (*AreaAttribute) Name() string           { return "Area" }
func (a *AreaAttribute) Area() (string, bool) { return a.area, true }

// Format renders an attribute the way it is declared in source, e.g.
// HttpGet("{id}").
func Format(a Attribute) string {
	var arg string
	var ok bool
	switch a := a.(type) {
	case *RouteAttribute, *HTTPAttribute:
		arg, ok = a.Route()
	case *ActionNameAttribute:
		arg, ok = a.ActionName()
	case *AreaAttribute:
		arg, ok = a.Area()
	}
	if !ok {
		return a.Name()
	}
	return a.Name() + "(" + strconv.Quote(arg) + ")"
}

// Classify maps a raw annotation record to its routing attribute. Records
// that are not routing annotations report false.
func Classify(raw metadata.Annotation) (Attribute, bool) {
	name := annotationName(raw.Type)

	if strings.HasPrefix(name, "Http") {
		verb, ok := ParseVerb(name[len("Http"):])
		if !ok || name != "Http"+verb.TitleCase() {
			return nil, false
		}
		if path, ok := templateArg(raw); ok {
			return NewHTTP(verb, path), true
		}
		return NewHTTP(verb), true
	}

	switch name {
	case "ApiController":
		return NewAPIController(), true
	case "Route":
		if path, ok := templateArg(raw); ok {
			return NewRoute(path), true
		}
		return NewRoute(), true
	case "NonAction":
		return NewNonAction(), true
	case "ActionName":
		if n, ok := nameArg(raw, "Name"); ok {
			return NewActionName(n), true
		}
	case "Area":
		if n, ok := nameArg(raw, "AreaName", "Name", "RouteValue"); ok {
			return NewArea(n), true
		}
	}
	return nil, false
}

// ClassifyAll classifies records in order, dropping unrecognized ones.
func ClassifyAll(raw []metadata.Annotation) []Attribute {
	attrs := make([]Attribute, 0, len(raw))
	for _, r := range raw {
		if a, ok := Classify(r); ok {
			attrs = append(attrs, a)
		}
	}
	return attrs
}

// annotationName strips namespace qualification and the "Attribute" suffix.
func annotationName(typeName string) string {
	if i := strings.LastIndexAny(typeName, ".+"); i >= 0 {
		typeName = typeName[i+1:]
	}
	if trimmed := strings.TrimSuffix(typeName, "Attribute"); trimmed != "" {
		typeName = trimmed
	}
	return typeName
}

func templateArg(raw metadata.Annotation) (string, bool) {
	if s, ok := raw.StringArg(0); ok {
		return s, true
	}
	return raw.NamedString("Template")
}

func nameArg(raw metadata.Annotation, named ...string) (string, bool) {
	if s, ok := raw.StringArg(0); ok {
		return s, true
	}
	for _, n := range named {
		if s, ok := raw.NamedString(n); ok {
			return s, true
		}
	}
	return "", false
}

// Attributes is an ordered attribute list that renders as declared source
// text when serialized.
type Attributes []Attribute

func (as Attributes) strings() []string {
	out := make([]string, len(as))
	for i, a := range as {
		out[i] = Format(a)
	}
	return out
}

// MarshalJSON encodes the attributes as formatted declarations.
func (as Attributes) MarshalJSON() ([]byte, error) {
	return json.Marshal(as.strings())
}

// MarshalYAML encodes the attributes as formatted declarations.
func (as Attributes) MarshalYAML() (any, error) {
	return as.strings(), nil
}

// ActionNameOverride returns the first action-name override in attrs.
func ActionNameOverride(attrs []Attribute) (string, bool) {
	for _, a := range attrs {
		if n, ok := a.ActionName(); ok {
			return n, true
		}
	}
	return "", false
}

// AreaOf returns the first area declared in attrs.
func AreaOf(attrs []Attribute) (string, bool) {
	for _, a := range attrs {
		if n, ok := a.Area(); ok {
			return n, true
		}
	}
	return "", false
}
