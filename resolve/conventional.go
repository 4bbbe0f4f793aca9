package resolve

import (
	"strings"

	"pkt.systems/pslog"

	"github.com/vitalvas/routescope/convention"
	"github.com/vitalvas/routescope/metadata"
	"github.com/vitalvas/routescope/routing"
)

// VerbFromName returns the verb whose title-case name prefixes name, e.g.
// GetById -> GET. Names without a verb prefix map to POST.
func VerbFromName(name string) routing.Verb {
	for _, v := range routing.AllVerbs.Verbs() {
		if strings.HasPrefix(name, v.TitleCase()) {
			return v
		}
	}
	return routing.VerbPost
}

// conventionalActions matches one convention route against a handler class
// and synthesizes an action per accepted method.
//
// A template parameter named controller, action or area binds whatever the
// class provides. Without the parameter, the route's default for that name
// must equal the class name, action name or class area respectively.
func (q *Query) conventionalActions(logger pslog.Logger, route *convention.Route, t *metadata.Type, classAttrs []routing.Attribute) []routing.Action {
	controllerName := routing.ControllerName(t.Name)
	_, controllerParam := route.Controller()
	_, actionParam := route.Action()
	areaDesc, areaParam := route.Area()

	if !controllerParam {
		if filter, _ := route.Default(convention.ParamController); filter != controllerName {
			return nil
		}
	}

	area, hasArea := routing.AreaOf(classAttrs)
	if !hasArea && areaParam && areaDesc.HasDefault {
		area = areaDesc.Default
	}
	if !areaParam {
		if filter, _ := route.Default(convention.ParamArea); filter != area {
			return nil
		}
	}

	var actions []routing.Action
	for _, m := range EligibleMethods(t.Methods, q.includeNonPublic, true) {
		attrs := routing.ClassifyAll(m.Annotations)
		actionName := m.Name
		if n, ok := routing.ActionNameOverride(attrs); ok {
			actionName = n
		}

		if !actionParam {
			if filter, ok := route.Default(convention.ParamAction); !ok || filter != actionName {
				continue
			}
		}

		var verbs routing.VerbSet
		switch {
		case !controllerParam && !actionParam && q.features.has(FeatureInferVerbFromName):
			verbs = routing.NewVerbSet(VerbFromName(actionName))
		case controllerParam && actionParam:
			verbs = routing.AllowedVerbs(attrs, nil)
		default:
			// TODO: surface ambiguous convention matches in the result once
			// consumers can report diagnostics alongside routes.
			logger.Debug("resolve.convention.skip_ambiguous",
				"template", route.Template,
				"class", t.Ref().FullName(),
				"method", m.Name,
			)
			continue
		}

		actions = append(actions, routing.Action{
			MethodName: m.Name,
			Routes: []routing.Route{{
				Path:    route.Instantiate(controllerName, actionName, area),
				Methods: verbs,
			}},
			Attributes:     attrs,
			IsConventional: true,
		})
	}
	return actions
}

// conventionalController resolves the actions one convention route yields
// for a handler class.
func (q *Query) conventionalController(logger pslog.Logger, route *convention.Route, t *metadata.Type) routing.Controller {
	attrs := routing.ClassifyAll(t.Annotations)
	c := newController(t, attrs)
	if actions := q.conventionalActions(logger, route, t, attrs); actions != nil {
		c.Actions = actions
	}
	return c
}
