package convention

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vitalvas/routescope/routing"
)

// ErrTemplateSyntax is wrapped by every template parse error.
var ErrTemplateSyntax = errors.New("invalid route template")

// Well-known parameter names that bind a handler class and method.
const (
	ParamController = "controller"
	ParamAction     = "action"
	ParamArea       = "area"
)

// Parameter describes one {...} parameter of a template.
type Parameter struct {
	Name        string
	Default     string
	HasDefault  bool
	Optional    bool
	CatchAll    bool
	Constraints []string

	raw string
}

// Raw returns the parameter exactly as written, braces included.
func (p *Parameter) Raw() string {
	return p.raw
}

// part is a literal piece of a template or a parameter.
type part struct {
	literal string
	param   *Parameter
}

// Route is a parsed convention-route template.
type Route struct {
	Template string
	Defaults map[string]string

	parts  []part
	params map[string]*Parameter
	order  []*Parameter
}

// Parse parses a template with its defaults map.
func Parse(template string, defaults map[string]string) (*Route, error) {
	tpl := strings.TrimPrefix(template, "~")
	idxs, err := braceIndices(tpl)
	if err != nil {
		return nil, fmt.Errorf("convention: template %q: %w", template, err)
	}

	r := &Route{
		Template: template,
		Defaults: make(map[string]string, len(defaults)),
		params:   make(map[string]*Parameter),
	}
	for k, v := range defaults {
		r.Defaults[strings.ToLower(k)] = v
	}

	var end int
	for i := 0; i < len(idxs); i += 2 {
		if raw := tpl[end:idxs[i]]; raw != "" {
			r.parts = append(r.parts, part{literal: raw})
		}
		end = idxs[i+1]

		p, err := parseParameter(tpl[idxs[i]:end])
		if err != nil {
			return nil, fmt.Errorf("convention: template %q: %w", template, err)
		}
		key := strings.ToLower(p.Name)
		if _, dup := r.params[key]; dup {
			return nil, fmt.Errorf("convention: template %q: %w: duplicated parameter %q", template, ErrTemplateSyntax, p.Name)
		}
		if p.CatchAll && strings.Contains(strings.TrimRight(tpl[end:], "/"), "/") {
			return nil, fmt.Errorf("convention: template %q: %w: catch-all parameter %q must be last", template, ErrTemplateSyntax, p.Name)
		}
		r.params[key] = p
		r.order = append(r.order, p)
		r.parts = append(r.parts, part{param: p})
	}
	if raw := tpl[end:]; raw != "" {
		r.parts = append(r.parts, part{literal: raw})
	}

	if strings.Contains(strings.Trim(r.literalTemplate(), "/"), "//") {
		return nil, fmt.Errorf("convention: template %q: %w: empty segment", template, ErrTemplateSyntax)
	}

	return r, nil
}

// literalTemplate returns the template with every parameter replaced by a
// placeholder character, used for segment validation.
func (r *Route) literalTemplate() string {
	var b strings.Builder
	for _, p := range r.parts {
		if p.param != nil {
			b.WriteByte('_')
			continue
		}
		b.WriteString(p.literal)
	}
	return b.String()
}

// parseParameter parses a braced token such as {id:int?} or {action=Index}.
func parseParameter(token string) (*Parameter, error) {
	body := token[1 : len(token)-1]
	p := &Parameter{raw: token}

	switch {
	case strings.HasPrefix(body, "**"):
		p.CatchAll, body = true, body[2:]
	case strings.HasPrefix(body, "*"):
		p.CatchAll, body = true, body[1:]
	}

	if i := strings.IndexByte(body, '='); i >= 0 {
		p.Default, p.HasDefault = body[i+1:], true
		body = body[:i]
	}
	if strings.HasSuffix(body, "?") {
		p.Optional, body = true, strings.TrimSuffix(body, "?")
	}

	name, constraints, _ := strings.Cut(body, ":")
	p.Name = strings.TrimSpace(name)
	if constraints != "" {
		p.Constraints = strings.Split(constraints, ":")
	}

	switch {
	case p.Name == "":
		return nil, fmt.Errorf("%w: missing name in %q", ErrTemplateSyntax, token)
	case strings.ContainsAny(p.Name, "{}/?*="):
		return nil, fmt.Errorf("%w: invalid parameter name in %q", ErrTemplateSyntax, token)
	case p.Optional && p.HasDefault:
		return nil, fmt.Errorf("%w: parameter %q cannot be optional and have a default", ErrTemplateSyntax, p.Name)
	case p.CatchAll && p.Optional:
		return nil, fmt.Errorf("%w: catch-all parameter %q cannot be optional", ErrTemplateSyntax, p.Name)
	}
	return p, nil
}

// braceIndices returns the start and end+1 indices of each top-level
// {...} pair in s. Returns an error if braces are unbalanced.
func braceIndices(s string) ([]int, error) {
	var (
		idxs  []int
		level int
	)
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			if level++; level == 1 {
				idxs = append(idxs, i)
			}
		case '}':
			if level--; level == 0 {
				idxs = append(idxs, i+1)
			} else if level < 0 {
				return nil, fmt.Errorf("%w: unbalanced braces", ErrTemplateSyntax)
			}
		}
	}
	if level != 0 {
		return nil, fmt.Errorf("%w: unbalanced braces", ErrTemplateSyntax)
	}
	return idxs, nil
}

// Parameter returns the parameter with the given name.
func (r *Route) Parameter(name string) (*Parameter, bool) {
	p, ok := r.params[strings.ToLower(name)]
	return p, ok
}

// Parameters returns the parameters in template order.
func (r *Route) Parameters() []*Parameter {
	return r.order
}

// Controller returns the controller parameter descriptor.
func (r *Route) Controller() (*Parameter, bool) { return r.Parameter(ParamController) }

// Action returns the action parameter descriptor.
func (r *Route) Action() (*Parameter, bool) { return r.Parameter(ParamAction) }

// Area returns the area parameter descriptor.
func (r *Route) Area() (*Parameter, bool) { return r.Parameter(ParamArea) }

// Default returns the default for name: the parameter's inline default when
// declared, otherwise the defaults-map value.
func (r *Route) Default(name string) (string, bool) {
	if p, ok := r.Parameter(name); ok && p.HasDefault {
		return p.Default, true
	}
	v, ok := r.Defaults[strings.ToLower(name)]
	return v, ok
}

// Instantiate binds the controller, action and area parameters to concrete
// values and returns the canonical path. Parameters left unbound, including
// bound ones given an empty value, are kept verbatim.
func (r *Route) Instantiate(controller, action, area string) string {
	values := map[string]string{
		ParamController: controller,
		ParamAction:     action,
		ParamArea:       area,
	}

	var b strings.Builder
	for _, p := range r.parts {
		if p.param == nil {
			b.WriteString(p.literal)
			continue
		}
		if v := values[strings.ToLower(p.param.Name)]; v != "" {
			b.WriteString(v)
			continue
		}
		b.WriteString(p.param.raw)
	}

	if path := routing.JoinPaths(b.String(), ""); path != "" {
		return path
	}
	return "/"
}

func (r *Route) String() string {
	return r.Template
}
