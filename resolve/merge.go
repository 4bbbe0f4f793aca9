package resolve

import (
	"slices"

	"github.com/vitalvas/routescope/routing"
)

// Merge folds convention-routed controllers into explicitly routed ones and
// returns a new list; the inputs are not modified.
//
// Controllers are matched by class identity. A convention-only controller is
// appended as is. Otherwise each convention action is appended when the
// class has no action for the method, or its routes are appended when the
// existing action has no routes or is already conventional. An explicit
// action holding routes is never extended.
func Merge(explicit, conventional []routing.Controller) []routing.Controller {
	merged := make([]routing.Controller, 0, len(explicit)+len(conventional))
	for _, c := range explicit {
		merged = append(merged, c.Clone())
	}

	for _, c := range conventional {
		i := slices.IndexFunc(merged, func(m routing.Controller) bool {
			return m.SameClass(&c)
		})
		if i < 0 {
			merged = append(merged, c.Clone())
			continue
		}
		mergeActions(&merged[i], c.Actions)
	}
	return merged
}

func mergeActions(into *routing.Controller, actions []routing.Action) {
	for _, a := range actions {
		j := into.Action(a.MethodName)
		if j < 0 {
			into.Actions = append(into.Actions, a.Clone())
			continue
		}
		existing := &into.Actions[j]
		if len(existing.Routes) == 0 || existing.IsConventional {
			existing.IsConventional = true
			existing.Routes = append(existing.Routes, a.Routes...)
		}
	}
}
