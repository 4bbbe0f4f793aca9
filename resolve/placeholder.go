package resolve

import (
	"regexp"
	"strings"

	"github.com/vitalvas/routescope/routing"
)

// placeholderRegexp matches route tokens such as [controller] or [action].
var placeholderRegexp = regexp.MustCompile(`\[([A-Za-z_][A-Za-z0-9_]*)\]`)

// InlinePlaceholders returns a copy of controllers with the [controller],
// [action] and [area] tokens of every route path replaced by the
// controller name, the action name and the controller area. Tokens that are
// unknown or have no value are left verbatim. No controller, action or route
// is added or removed.
func InlinePlaceholders(controllers []routing.Controller) []routing.Controller {
	out := make([]routing.Controller, len(controllers))
	for i, c := range controllers {
		c = c.Clone()
		for j := range c.Actions {
			a := &c.Actions[j]
			values := map[string]string{
				"controller": c.ControllerName,
				"action":     a.Name(),
				"area":       c.Area,
			}
			for k := range a.Routes {
				a.Routes[k].Path = inlinePath(a.Routes[k].Path, values)
			}
		}
		out[i] = c
	}
	return out
}

func inlinePath(path string, values map[string]string) string {
	if !strings.Contains(path, "[") {
		return path
	}
	return placeholderRegexp.ReplaceAllStringFunc(path, func(token string) string {
		if v := values[strings.ToLower(token[1:len(token)-1])]; v != "" {
			return v
		}
		return token
	})
}
