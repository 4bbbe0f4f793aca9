package openapi

// groupDefaults holds the metadata a Group applies to every operation of
// its controller.
type groupDefaults struct {
	description  string
	tags         []string
	security     []SecurityRequirement
	securitySet  bool // distinguishes nil (inherit) from empty (public)
	deprecated   bool
	externalDocs *ExternalDocs
}

// Group provides shared OpenAPI metadata defaults for the operations of one
// controller. Operation-level settings win over group settings, except
// deprecation which is a one-way latch.
type Group struct {
	defaults groupDefaults
}

// Description sets the description of the controller tag.
func (g *Group) Description(d string) *Group {
	g.defaults.description = d
	return g
}

// Tags appends tags to every operation of the controller.
func (g *Group) Tags(tags ...string) *Group {
	g.defaults.tags = append(g.defaults.tags, tags...)
	return g
}

// Security sets the controller-level security requirements. Call with no
// arguments to mark the controller as public.
func (g *Group) Security(reqs ...SecurityRequirement) *Group {
	if reqs == nil {
		reqs = []SecurityRequirement{}
	}
	g.defaults.security = reqs
	g.defaults.securitySet = true
	return g
}

// Deprecated marks every operation of the controller as deprecated.
func (g *Group) Deprecated() *Group {
	g.defaults.deprecated = true
	return g
}

// ExternalDocs sets external documentation for the controller's operations.
func (g *Group) ExternalDocs(url, description string) *Group {
	g.defaults.externalDocs = &ExternalDocs{URL: url, Description: description}
	return g
}

// apply copies the group defaults into op where op does not set them.
func (g *Group) apply(op *Operation) {
	if g == nil {
		return
	}
	op.Tags = appendUnique(op.Tags, g.defaults.tags...)
	if g.defaults.deprecated {
		op.Deprecated = true
	}
	if op.Security == nil && g.defaults.securitySet {
		op.Security = g.defaults.security
	}
	if op.ExternalDocs == nil {
		op.ExternalDocs = g.defaults.externalDocs
	}
}
