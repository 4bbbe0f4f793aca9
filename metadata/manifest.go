package metadata

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrUnknownVisibility is returned when a method declares a visibility other
// than public, private, protected or internal.
var ErrUnknownVisibility = errors.New("unknown visibility")

// Manifest is a Source backed by a serialized metadata document. YAML is the
// native format; JSON documents decode unchanged since JSON is valid YAML.
type Manifest struct {
	// Assembly is the path of the analyzed binary as recorded by the
	// extractor. Relative paths are relative to the manifest file.
	Assembly string  `json:"assembly,omitempty" yaml:"assembly,omitempty"`
	TypeDefs []*Type `json:"types" yaml:"types"`

	index  map[TypeRef]*Type
	byName map[string][]*Type
}

// Parse decodes and validates a manifest document.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("metadata: decode manifest: %w", err)
	}
	if err := m.init(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Load reads and parses the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("metadata: read manifest: %w", err)
	}
	return Parse(data)
}

// NewManifest builds a manifest from already constructed types.
func NewManifest(types ...*Type) (*Manifest, error) {
	m := &Manifest{TypeDefs: types}
	if err := m.init(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Manifest) init() error {
	m.index = make(map[TypeRef]*Type, len(m.TypeDefs))
	m.byName = make(map[string][]*Type, len(m.TypeDefs))
	for i, t := range m.TypeDefs {
		if t == nil {
			return fmt.Errorf("metadata: type #%d is empty", i)
		}
		if err := t.validate(); err != nil {
			return err
		}
		ref := t.Ref()
		if _, dup := m.index[ref]; dup {
			return fmt.Errorf("metadata: duplicated type %s", ref)
		}
		m.index[ref] = t
		m.byName[t.Name] = append(m.byName[t.Name], t)
	}
	return nil
}

// Types returns the types in declaration order.
func (m *Manifest) Types() []*Type {
	return m.TypeDefs
}

// Resolve looks a type up by name and namespace. A reference without a
// namespace resolves only when exactly one loaded type carries that name.
func (m *Manifest) Resolve(ref TypeRef) (*Type, bool) {
	if t, ok := m.index[ref]; ok {
		return t, true
	}
	if ref.Namespace == "" {
		if candidates := m.byName[ref.Name]; len(candidates) == 1 {
			return candidates[0], true
		}
	}
	return nil, false
}
