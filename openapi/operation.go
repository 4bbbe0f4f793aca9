package openapi

import (
	"net/http"
	"slices"
	"strconv"
)

// operationMeta stores metadata collected via the fluent builder before the
// document is built.
//
// See: https://spec.openapis.org/oas/v3.1.0#operation-object
type operationMeta struct {
	operationID  string
	summary      string
	description  string
	tags         []string
	deprecated   bool
	parameters   []*Parameter
	security     []SecurityRequirement
	securitySet  bool
	externalDocs *ExternalDocs

	responses map[string]string // statusKey -> description
}

// OperationBuilder provides a fluent API for attaching OpenAPI metadata to
// a resolved action.
//
// See: https://spec.openapis.org/oas/v3.1.0#operation-object
type OperationBuilder struct {
	meta *operationMeta
}

func newOperationBuilder() *OperationBuilder {
	return &OperationBuilder{
		meta: &operationMeta{
			responses: make(map[string]string),
		},
	}
}

// OperationID sets a custom operation ID, overriding the generated
// Controller_Action identifier.
func (b *OperationBuilder) OperationID(id string) *OperationBuilder {
	b.meta.operationID = id
	return b
}

// Summary sets the operation summary.
func (b *OperationBuilder) Summary(s string) *OperationBuilder {
	b.meta.summary = s
	return b
}

// Description sets the operation description.
func (b *OperationBuilder) Description(d string) *OperationBuilder {
	b.meta.description = d
	return b
}

// Tags appends tags to the operation. The controller name is always the
// first tag.
func (b *OperationBuilder) Tags(tags ...string) *OperationBuilder {
	b.meta.tags = append(b.meta.tags, tags...)
	return b
}

// Deprecated marks the operation as deprecated.
func (b *OperationBuilder) Deprecated() *OperationBuilder {
	b.meta.deprecated = true
	return b
}

// Parameter adds a parameter. A parameter with the same name and location
// as a generated path parameter replaces it.
func (b *OperationBuilder) Parameter(param *Parameter) *OperationBuilder {
	b.meta.parameters = append(b.meta.parameters, param)
	return b
}

// Security sets the operation security requirements. Call with no
// arguments to mark the operation as public.
func (b *OperationBuilder) Security(reqs ...SecurityRequirement) *OperationBuilder {
	if reqs == nil {
		reqs = []SecurityRequirement{}
	}
	b.meta.security = reqs
	b.meta.securitySet = true
	return b
}

// ExternalDocs sets the operation external documentation link.
func (b *OperationBuilder) ExternalDocs(url, description string) *OperationBuilder {
	b.meta.externalDocs = &ExternalDocs{URL: url, Description: description}
	return b
}

// Response declares a response for the given HTTP status code. An empty
// description falls back to the status text.
func (b *OperationBuilder) Response(statusCode int, description string) *OperationBuilder {
	b.meta.responses[strconv.Itoa(statusCode)] = description
	return b
}

// DefaultResponse declares the catch-all response.
func (b *OperationBuilder) DefaultResponse(description string) *OperationBuilder {
	b.meta.responses["default"] = description
	return b
}

// mergeParameters combines generated path parameters with custom
// parameters. Custom parameters with the same name+in override the
// generated ones.
//
// See: https://spec.openapis.org/oas/v3.1.0#operation-object (parameters)
func mergeParameters(auto, custom []*Parameter) []*Parameter {
	if len(auto) == 0 && len(custom) == 0 {
		return nil
	}

	overrides := make(map[[2]string]struct{}, len(custom))
	for _, p := range custom {
		overrides[[2]string{p.Name, p.In}] = struct{}{}
	}

	var merged []*Parameter
	for _, p := range auto {
		if _, ok := overrides[[2]string{p.Name, p.In}]; !ok {
			merged = append(merged, p)
		}
	}

	return append(merged, custom...)
}

// responseDescription returns a human-readable description for a response key.
func responseDescription(key string) string {
	if key == "default" {
		return "Default response"
	}
	code, err := strconv.Atoi(key)
	if err == nil {
		if text := http.StatusText(code); text != "" {
			return text
		}
	}
	return key
}

// buildOperation converts the collected metadata into an Operation Object.
// Without declared responses the operation gets a single "200" response,
// since the metadata carries no result types.
func (b *OperationBuilder) buildOperation(operationID string, tags []string, pathParams []*Parameter) *Operation {
	if b.meta.operationID != "" {
		operationID = b.meta.operationID
	}
	op := &Operation{
		OperationID:  operationID,
		Summary:      b.meta.summary,
		Description:  b.meta.description,
		Tags:         appendUnique(tags, b.meta.tags...),
		Deprecated:   b.meta.deprecated,
		ExternalDocs: b.meta.externalDocs,
		Parameters:   mergeParameters(pathParams, b.meta.parameters),
	}
	if b.meta.securitySet {
		op.Security = b.meta.security
	}

	responses := b.meta.responses
	if len(responses) == 0 {
		responses = map[string]string{"200": ""}
	}
	op.Responses = make(map[string]*Response, len(responses))
	for key, desc := range responses {
		if desc == "" {
			desc = responseDescription(key)
		}
		op.Responses[key] = &Response{Description: desc}
	}

	return op
}

func appendUnique(dst []string, values ...string) []string {
	out := append([]string(nil), dst...)
	for _, v := range values {
		if !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	return out
}
