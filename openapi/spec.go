package openapi

import (
	"sort"
	"strconv"
	"strings"

	"github.com/vitalvas/routescope/convention"
	"github.com/vitalvas/routescope/routing"
)

// constraintTypeMap maps route constraints to OpenAPI type and format.
var constraintTypeMap = map[string][2]string{
	"int":      {"integer", "int32"},
	"long":     {"integer", "int64"},
	"guid":     {"string", "uuid"},
	"bool":     {"boolean", ""},
	"double":   {"number", "double"},
	"decimal":  {"number", ""},
	"float":    {"number", "float"},
	"datetime": {"string", "date-time"},
	"alpha":    {"string", ""},
}

// Spec collects OpenAPI metadata and builds a Document from resolved
// controllers.
type Spec struct {
	info         Info
	servers      []Server
	operations   map[string]*OperationBuilder // keyed by Controller_Action
	groups       map[string]*Group            // keyed by controller name
	externalDocs *ExternalDocs
	security     []SecurityRequirement
	tags         []Tag

	securitySchemes map[string]*SecurityScheme
}

// NewSpec creates a new spec builder with the given API info.
func NewSpec(info Info) *Spec {
	return &Spec{
		info:       info,
		operations: make(map[string]*OperationBuilder),
		groups:     make(map[string]*Group),
	}
}

// AddServer adds a server to the spec.
func (s *Spec) AddServer(server Server) *Spec {
	s.servers = append(s.servers, server)
	return s
}

// SetExternalDocs sets the document-level external documentation link.
func (s *Spec) SetExternalDocs(url, description string) *Spec {
	s.externalDocs = &ExternalDocs{URL: url, Description: description}
	return s
}

// SetSecurity sets the document-level security requirements.
func (s *Spec) SetSecurity(reqs ...SecurityRequirement) *Spec {
	s.security = reqs
	return s
}

// AddTag adds a user-defined tag with optional description and external docs.
func (s *Spec) AddTag(tag Tag) *Spec {
	s.tags = append(s.tags, tag)
	return s
}

// AddSecurityScheme registers a reusable security scheme in components.
func (s *Spec) AddSecurityScheme(name string, scheme *SecurityScheme) *Spec {
	if s.securitySchemes == nil {
		s.securitySchemes = make(map[string]*SecurityScheme)
	}
	s.securitySchemes[name] = scheme
	return s
}

// Op returns the OperationBuilder of an action, identified by its generated
// operation ID (controller name and action name joined by "_").
func (s *Spec) Op(operationID string) *OperationBuilder {
	if b, ok := s.operations[operationID]; ok {
		return b
	}
	b := newOperationBuilder()
	s.operations[operationID] = b
	return b
}

// Controller returns the Group holding defaults for every operation of the
// named controller.
func (s *Spec) Controller(name string) *Group {
	if g, ok := s.groups[name]; ok {
		return g
	}
	g := &Group{}
	s.groups[name] = g
	return g
}

// OperationID returns the generated operation ID of an action.
func OperationID(c *routing.Controller, a *routing.Action) string {
	return c.ControllerName + "_" + a.Name()
}

// Build assembles a Document from resolved controllers. Every route yields
// one operation per verb. When two actions claim the same path and verb the
// first one in controller order is kept. An action producing several
// operations gets numbered operation IDs after the first.
func (s *Spec) Build(controllers []routing.Controller) *Document {
	doc := &Document{
		OpenAPI:      "3.1.0",
		Info:         s.info,
		Servers:      s.servers,
		Paths:        make(map[string]*PathItem),
		ExternalDocs: s.externalDocs,
		Security:     s.security,
	}

	used := make(map[string]int)
	for ci := range controllers {
		c := &controllers[ci]
		group := s.groups[c.ControllerName]

		for ai := range c.Actions {
			a := &c.Actions[ai]
			baseID := OperationID(c, a)
			builder, ok := s.operations[baseID]
			if !ok {
				builder = newOperationBuilder()
			}

			for _, r := range a.Routes {
				openAPIPath, pathParams := parsePath(r.Path)
				pathItem, ok := doc.Paths[openAPIPath]
				if !ok {
					pathItem = &PathItem{}
					doc.Paths[openAPIPath] = pathItem
				}

				for _, verb := range r.Methods.Verbs() {
					if operationFor(pathItem, verb) != nil {
						continue
					}

					id := baseID
					if n := used[baseID]; n > 0 {
						id = baseID + "_" + strconv.Itoa(n+1)
					}
					used[baseID]++

					op := builder.buildOperation(id, []string{c.ControllerName}, pathParams)
					if op.Summary == "" {
						op.Summary = c.ClassName + "." + a.MethodName
					}
					group.apply(op)
					assignOperation(pathItem, verb, op)
				}
			}
		}
	}

	if len(s.securitySchemes) > 0 {
		doc.Components = &Components{SecuritySchemes: s.securitySchemes}
	}
	doc.Tags = s.mergeTags(doc.Paths)

	return doc
}

// mergeTags combines tags collected from operations with user-defined tags.
// User-defined tags take precedence, then controller group descriptions.
// The result is sorted alphabetically.
func (s *Spec) mergeTags(paths map[string]*PathItem) []Tag {
	userTags := make(map[string]Tag, len(s.tags))
	for _, tag := range s.tags {
		userTags[tag.Name] = tag
	}

	seen := make(map[string]bool)
	var tags []Tag

	for _, pathItem := range paths {
		for _, op := range pathItem.operations() {
			for _, name := range op.Tags {
				if seen[name] {
					continue
				}
				seen[name] = true

				switch userTag, ok := userTags[name]; {
				case ok:
					tags = append(tags, userTag)
				case s.groups[name] != nil && s.groups[name].defaults.description != "":
					tags = append(tags, Tag{Name: name, Description: s.groups[name].defaults.description})
				default:
					tags = append(tags, Tag{Name: name})
				}
			}
		}
	}

	for _, tag := range s.tags {
		if !seen[tag.Name] {
			seen[tag.Name] = true
			tags = append(tags, tag)
		}
	}

	sort.Slice(tags, func(i, j int) bool {
		return tags[i].Name < tags[j].Name
	})

	return tags
}

func (p *PathItem) operations() []*Operation {
	var ops []*Operation
	for _, op := range []*Operation{p.Get, p.Post, p.Put, p.Delete, p.Patch, p.Head, p.Options} {
		if op != nil {
			ops = append(ops, op)
		}
	}
	return ops
}

// operationFor returns the operation bound to verb on the path item.
func operationFor(pathItem *PathItem, verb routing.Verb) *Operation {
	switch verb {
	case routing.VerbGet:
		return pathItem.Get
	case routing.VerbPost:
		return pathItem.Post
	case routing.VerbPut:
		return pathItem.Put
	case routing.VerbDelete:
		return pathItem.Delete
	case routing.VerbPatch:
		return pathItem.Patch
	case routing.VerbHead:
		return pathItem.Head
	case routing.VerbOptions:
		return pathItem.Options
	}
	return nil
}

// assignOperation assigns an operation to the field of the given verb.
func assignOperation(pathItem *PathItem, verb routing.Verb, op *Operation) {
	switch verb {
	case routing.VerbGet:
		pathItem.Get = op
	case routing.VerbPost:
		pathItem.Post = op
	case routing.VerbPut:
		pathItem.Put = op
	case routing.VerbDelete:
		pathItem.Delete = op
	case routing.VerbPatch:
		pathItem.Patch = op
	case routing.VerbHead:
		pathItem.Head = op
	case routing.VerbOptions:
		pathItem.Options = op
	}
}

// parsePath extracts parameters from a route path, converts it to OpenAPI
// format, and generates parameter objects. Paths the template parser
// rejects are returned unchanged without parameters.
func parsePath(path string) (string, []*Parameter) {
	tpl, err := convention.Parse(path, nil)
	if err != nil {
		return path, nil
	}

	params := make([]*Parameter, 0, len(tpl.Parameters()))
	for _, p := range tpl.Parameters() {
		path = strings.Replace(path, p.Raw(), "{"+p.Name+"}", 1)
		params = append(params, pathParameter(p))
	}
	if len(params) == 0 {
		return path, nil
	}
	return path, params
}

// pathParameter converts a template parameter into an OpenAPI path
// parameter. Path parameters are always required in OpenAPI; optional and
// catch-all segments are noted in the description instead.
func pathParameter(p *convention.Parameter) *Parameter {
	param := &Parameter{
		Name:     p.Name,
		In:       "path",
		Required: true,
		Schema:   &Schema{Type: TypeString("string")},
	}

	for _, c := range p.Constraints {
		applyConstraint(param.Schema, c)
	}

	switch {
	case p.CatchAll:
		param.Description = "Catch-all segment."
	case p.Optional:
		param.Description = "Optional segment."
	}

	if p.HasDefault {
		param.Schema.Default = typedDefault(param.Schema, p.Default)
	}

	return param
}

// applyConstraint narrows schema by one route constraint such as "int",
// "min(1)" or "length(2,8)". Unknown constraints are ignored.
func applyConstraint(schema *Schema, constraint string) {
	name, args, hasArgs := strings.Cut(constraint, "(")
	name = strings.ToLower(strings.TrimSpace(name))

	if !hasArgs {
		if typeInfo, ok := constraintTypeMap[name]; ok {
			schema.Type = TypeString(typeInfo[0])
			schema.Format = typeInfo[1]
			if name == "alpha" {
				schema.Pattern = "^[A-Za-z]+$"
			}
		}
		return
	}

	values := strings.Split(strings.TrimSuffix(args, ")"), ",")
	switch name {
	case "min":
		schema.Minimum = parseFloat(values[0])
	case "max":
		schema.Maximum = parseFloat(values[0])
	case "range":
		if len(values) == 2 {
			schema.Minimum = parseFloat(values[0])
			schema.Maximum = parseFloat(values[1])
		}
	case "minlength":
		schema.MinLength = parseInt(values[0])
	case "maxlength":
		schema.MaxLength = parseInt(values[0])
	case "length":
		if len(values) == 2 {
			schema.MinLength = parseInt(values[0])
			schema.MaxLength = parseInt(values[1])
		} else {
			schema.MinLength = parseInt(values[0])
			schema.MaxLength = parseInt(values[0])
		}
	case "regex":
		schema.Pattern = strings.TrimSuffix(strings.TrimPrefix(constraint, "regex("), ")")
	}
}

// typedDefault converts a default value to the schema type when possible.
func typedDefault(schema *Schema, value string) any {
	values := schema.Type.Values()
	if len(values) != 1 {
		return value
	}
	switch values[0] {
	case "integer":
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return n
		}
	case "number":
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	case "boolean":
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return value
}

func parseFloat(s string) *float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil
	}
	return &f
}

func parseInt(s string) *int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return nil
	}
	return &n
}
