package routing

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Verb is one of the HTTP methods understood by the analyzed framework.
type Verb uint8

// Verbs in their canonical order.
const (
	VerbGet Verb = iota
	VerbPost
	VerbPut
	VerbDelete
	VerbPatch
	VerbHead
	VerbOptions

	verbCount
)

var verbNames = [verbCount]string{"GET", "POST", "PUT", "DELETE", "PATCH", "HEAD", "OPTIONS"}

// String returns the upper-case method token, e.g. "GET".
func (v Verb) String() string {
	if v >= verbCount {
		return fmt.Sprintf("Verb(%d)", uint8(v))
	}
	return verbNames[v]
}

// TitleCase returns the verb as it appears in method and annotation names,
// e.g. "Get" or "Options".
func (v Verb) TitleCase() string {
	s := v.String()
	return s[:1] + strings.ToLower(s[1:])
}

// ParseVerb parses an HTTP method name case-insensitively.
func ParseVerb(s string) (Verb, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for i, name := range verbNames {
		if name == s {
			return Verb(i), true
		}
	}
	return 0, false
}

// VerbSet is a set of verbs. Iteration always follows the canonical verb
// order, so two equal sets render identically.
type VerbSet uint8

// AllVerbs is the set applied to routes without any verb constraint.
const AllVerbs VerbSet = 1<<verbCount - 1

// NewVerbSet returns the set holding the given verbs.
func NewVerbSet(verbs ...Verb) VerbSet {
	var s VerbSet
	for _, v := range verbs {
		s = s.Add(v)
	}
	return s
}

// Add returns s with v added.
func (s VerbSet) Add(v Verb) VerbSet {
	if v >= verbCount {
		return s
	}
	return s | 1<<v
}

// Has reports whether v is in s.
func (s VerbSet) Has(v Verb) bool {
	return v < verbCount && s&(1<<v) != 0
}

// Union returns the verbs present in either set.
func (s VerbSet) Union(o VerbSet) VerbSet {
	return s | o
}

// IsEmpty reports whether the set has no verbs.
func (s VerbSet) IsEmpty() bool {
	return s&AllVerbs == 0
}

// Len returns the number of verbs in the set.
func (s VerbSet) Len() int {
	n := 0
	for v := range verbCount {
		if s.Has(v) {
			n++
		}
	}
	return n
}

// Verbs returns the members in canonical order.
func (s VerbSet) Verbs() []Verb {
	verbs := make([]Verb, 0, s.Len())
	for v := range verbCount {
		if s.Has(v) {
			verbs = append(verbs, v)
		}
	}
	return verbs
}

// Strings returns the member method tokens in canonical order.
func (s VerbSet) Strings() []string {
	out := make([]string, 0, s.Len())
	for _, v := range s.Verbs() {
		out = append(out, v.String())
	}
	return out
}

func (s VerbSet) String() string {
	return "[" + strings.Join(s.Strings(), " ") + "]"
}

// MarshalJSON encodes the set as an array of method tokens.
func (s VerbSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Strings())
}

// UnmarshalJSON decodes an array of method tokens.
func (s *VerbSet) UnmarshalJSON(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return err
	}
	set, err := verbSetFromStrings(names)
	if err != nil {
		return err
	}
	*s = set
	return nil
}

// MarshalYAML encodes the set as a sequence of method tokens.
func (s VerbSet) MarshalYAML() (any, error) {
	return s.Strings(), nil
}

func verbSetFromStrings(names []string) (VerbSet, error) {
	var set VerbSet
	for _, name := range names {
		v, ok := ParseVerb(name)
		if !ok {
			return 0, fmt.Errorf("routing: unknown HTTP method %q", name)
		}
		set = set.Add(v)
	}
	return set, nil
}
