package resolve

import (
	"github.com/vitalvas/routescope/metadata"
	"github.com/vitalvas/routescope/routing"
)

// Base types that make a class a request handler in the analyzed framework.
const (
	BaseController     = "Controller"
	BaseControllerBase = "ControllerBase"
)

// maxInheritanceDepth bounds base-type walks over malformed metadata.
const maxInheritanceDepth = 64

// InheritsFrom reports whether t derives, directly or transitively, from a
// type named base. The walk stops at the first base link that cannot be
// resolved within src.
func InheritsFrom(src metadata.Source, t *metadata.Type, base string) bool {
	link := t.Base
	for range maxInheritanceDepth {
		if link == nil {
			return false
		}
		if link.Name == base {
			return true
		}
		next, ok := src.Resolve(*link)
		if !ok {
			return false
		}
		link = next.Base
	}
	return false
}

// IsController reports whether t is a request-handling class: it is not
// abstract and either carries a handler-enabling attribute or derives from
// one of the framework's controller base types.
func IsController(src metadata.Source, t *metadata.Type, attrs []routing.Attribute) bool {
	if t.Abstract {
		return false
	}
	for _, a := range attrs {
		if a.EnablesController() {
			return true
		}
	}
	return InheritsFrom(src, t, BaseController) || InheritsFrom(src, t, BaseControllerBase)
}
