package resolve

import (
	"github.com/vitalvas/routescope/metadata"
	"github.com/vitalvas/routescope/routing"
)

// EligibleMethods returns the methods that may become actions: instance,
// concrete, non-constructor, non-accessor methods. Non-public methods are
// skipped unless includeNonPublic is set, and methods disabling convention
// routing are skipped when forConvention is set.
func EligibleMethods(methods []*metadata.Method, includeNonPublic, forConvention bool) []*metadata.Method {
	out := make([]*metadata.Method, 0, len(methods))
	for _, m := range methods {
		if m.Constructor || m.Accessor || m.Static || m.Abstract {
			continue
		}
		if !includeNonPublic && !m.IsPublic() {
			continue
		}
		if forConvention && disablesConvention(routing.ClassifyAll(m.Annotations)) {
			continue
		}
		out = append(out, m)
	}
	return out
}

func disablesConvention(attrs []routing.Attribute) bool {
	for _, a := range attrs {
		if a.DisablesConventionalRoutes() {
			return true
		}
	}
	return false
}

// explicitActions computes annotation-driven actions for every eligible
// method under one class prefix.
func explicitActions(methods []*metadata.Method, prefix string, hasPrefix, includeNonPublic bool) []routing.Action {
	eligible := EligibleMethods(methods, includeNonPublic, false)
	actions := make([]routing.Action, 0, len(eligible))
	for _, m := range eligible {
		attrs := routing.ClassifyAll(m.Annotations)
		actions = append(actions, routing.Action{
			MethodName: m.Name,
			Routes:     routing.AttributeRoutes(attrs, prefix, hasPrefix),
			Attributes: attrs,
		})
	}
	return actions
}

// newController builds the controller shell shared by explicit and
// conventional resolution.
func newController(t *metadata.Type, attrs []routing.Attribute) routing.Controller {
	c := routing.Controller{
		ControllerName: routing.ControllerName(t.Name),
		ClassName:      t.Name,
		Namespace:      t.Namespace,
		Attributes:     attrs,
		Actions:        []routing.Action{},
	}
	if p, ok := routing.PropagatedRoute(attrs); ok {
		c.Prefix = p
	}
	if area, ok := routing.AreaOf(attrs); ok {
		c.Area = area
	}
	return c
}

// ExplicitController resolves the annotation-routed actions of a handler
// class. Each class-level prefix yields a pass over the methods; routes of
// the same method across passes are appended in prefix order.
func ExplicitController(t *metadata.Type, includeNonPublic bool) routing.Controller {
	attrs := routing.ClassifyAll(t.Annotations)
	c := newController(t, attrs)

	prefixes := routing.PropagatedRoutes(attrs)
	if len(prefixes) == 0 {
		c.Actions = explicitActions(t.Methods, "", false, includeNonPublic)
		return c
	}

	for _, prefix := range prefixes {
		for _, a := range explicitActions(t.Methods, prefix, true, includeNonPublic) {
			if i := c.Action(a.MethodName); i >= 0 {
				c.Actions[i].Routes = append(c.Actions[i].Routes, a.Routes...)
				continue
			}
			c.Actions = append(c.Actions, a)
		}
	}
	return c
}
