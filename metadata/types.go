package metadata

import (
	"fmt"
	"strings"
)

// Visibility is the declared accessibility of a method.
type Visibility string

// Method visibilities as reported by the extractor.
const (
	VisibilityPublic    Visibility = "public"
	VisibilityPrivate   Visibility = "private"
	VisibilityProtected Visibility = "protected"
	VisibilityInternal  Visibility = "internal"
)

func (v Visibility) valid() bool {
	switch v {
	case VisibilityPublic, VisibilityPrivate, VisibilityProtected, VisibilityInternal:
		return true
	}
	return false
}

// Annotation is a raw annotation record: the annotation type name plus its
// constructor and named arguments, exactly as stored in the binary.
type Annotation struct {
	Type  string         `json:"type" yaml:"type"`
	Args  []any          `json:"args,omitempty" yaml:"args,omitempty"`
	Named map[string]any `json:"named,omitempty" yaml:"named,omitempty"`
}

// StringArg returns the i-th constructor argument when it is a string.
func (a Annotation) StringArg(i int) (string, bool) {
	if i < 0 || i >= len(a.Args) {
		return "", false
	}
	s, ok := a.Args[i].(string)
	return s, ok
}

// NamedString returns the named argument with the given name when it is a
// string.
func (a Annotation) NamedString(name string) (string, bool) {
	v, ok := a.Named[name]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// TypeRef identifies a type by name and namespace. A TypeRef may point at a
// type that is not part of the loaded metadata (an external base type).
type TypeRef struct {
	Name      string `json:"name" yaml:"name"`
	Namespace string `json:"namespace,omitempty" yaml:"namespace,omitempty"`
}

// FullName returns the namespace-qualified name.
func (r TypeRef) FullName() string {
	if r.Namespace == "" {
		return r.Name
	}
	return r.Namespace + "." + r.Name
}

func (r TypeRef) String() string {
	return r.FullName()
}

// Method describes one method declared on a type.
type Method struct {
	Name        string       `json:"name" yaml:"name"`
	Visibility  Visibility   `json:"visibility,omitempty" yaml:"visibility,omitempty"`
	Static      bool         `json:"static,omitempty" yaml:"static,omitempty"`
	Abstract    bool         `json:"abstract,omitempty" yaml:"abstract,omitempty"`
	Constructor bool         `json:"constructor,omitempty" yaml:"constructor,omitempty"`
	Accessor    bool         `json:"accessor,omitempty" yaml:"accessor,omitempty"`
	Annotations []Annotation `json:"annotations,omitempty" yaml:"annotations,omitempty"`
}

// IsPublic reports whether the method is publicly visible. A method without
// an explicit visibility is treated as public.
func (m *Method) IsPublic() bool {
	return m.Visibility == "" || m.Visibility == VisibilityPublic
}

// Type describes one type declared in the binary.
type Type struct {
	Name        string       `json:"name" yaml:"name"`
	Namespace   string       `json:"namespace,omitempty" yaml:"namespace,omitempty"`
	Abstract    bool         `json:"abstract,omitempty" yaml:"abstract,omitempty"`
	Base        *TypeRef     `json:"base,omitempty" yaml:"base,omitempty"`
	Annotations []Annotation `json:"annotations,omitempty" yaml:"annotations,omitempty"`
	Methods     []*Method    `json:"methods,omitempty" yaml:"methods,omitempty"`
}

// Ref returns the reference identifying t.
func (t *Type) Ref() TypeRef {
	return TypeRef{Name: t.Name, Namespace: t.Namespace}
}

// Source enumerates types in stable declaration order and resolves base-type
// links. Resolve returns false for types outside the loaded metadata.
type Source interface {
	Types() []*Type
	Resolve(ref TypeRef) (*Type, bool)
}

func (t *Type) validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("metadata: type in namespace %q has no name", t.Namespace)
	}
	for i, m := range t.Methods {
		if m == nil || strings.TrimSpace(m.Name) == "" {
			return fmt.Errorf("metadata: method #%d of %s has no name", i, t.Ref())
		}
		if m.Visibility != "" && !m.Visibility.valid() {
			return fmt.Errorf("metadata: %s.%s: %w %q", t.Ref(), m.Name, ErrUnknownVisibility, m.Visibility)
		}
	}
	for _, a := range t.Annotations {
		if a.Type == "" {
			return fmt.Errorf("metadata: %s: annotation without type", t.Ref())
		}
	}
	return nil
}
