package manifest

import (
	"fmt"
	"time"

	"go.yaml.in/yaml/v3"
)

// KnowledgeManifest is the root of a parsed knowledge.yaml. Units and
// relationships keep their source-document order. A manifest is built once
// by the parser and never mutated afterwards; the validator only reads it.
type KnowledgeManifest struct {
	KCPVersion    string         `yaml:"kcp_version,omitempty" json:"kcp_version,omitempty"`
	Project       string         `yaml:"project" json:"project"`
	Version       string         `yaml:"version,omitempty" json:"version,omitempty"`
	Updated       *Date          `yaml:"updated,omitempty" json:"updated,omitempty"`
	Language      string         `yaml:"language,omitempty" json:"language,omitempty"`
	License       *License       `yaml:"license,omitempty" json:"license,omitempty"`
	Indexing      *Indexing      `yaml:"indexing,omitempty" json:"indexing,omitempty"`
	Units         []KnowledgeUnit `yaml:"units" json:"units"`
	Relationships []Relationship `yaml:"relationships,omitempty" json:"relationships,omitempty"`
}

// KnowledgeUnit is one addressable piece of knowledge: a document, schema,
// service definition, policy, or executable described by the manifest.
type KnowledgeUnit struct {
	ID              string    `yaml:"id" json:"id"`
	Path            string    `yaml:"path" json:"path"`
	Intent          string    `yaml:"intent" json:"intent"`
	Scope           string    `yaml:"scope,omitempty" json:"scope,omitempty"`
	Audience        []string  `yaml:"audience,omitempty" json:"audience,omitempty"`
	Kind            string    `yaml:"kind,omitempty" json:"kind,omitempty"`
	Format          string    `yaml:"format,omitempty" json:"format,omitempty"`
	ContentType     string    `yaml:"content_type,omitempty" json:"content_type,omitempty"`
	Language        string    `yaml:"language,omitempty" json:"language,omitempty"`
	License         *License  `yaml:"license,omitempty" json:"license,omitempty"`
	Validated       *Date     `yaml:"validated,omitempty" json:"validated,omitempty"`
	UpdateFrequency string    `yaml:"update_frequency,omitempty" json:"update_frequency,omitempty"`
	Indexing        *Indexing `yaml:"indexing,omitempty" json:"indexing,omitempty"`
	DependsOn       []string  `yaml:"depends_on,omitempty" json:"depends_on,omitempty"`
	Supersedes      string    `yaml:"supersedes,omitempty" json:"supersedes,omitempty"`
	Triggers        []string  `yaml:"triggers,omitempty" json:"triggers,omitempty"`
}

// Relationship is a directed, typed edge between two unit ids. Endpoints are
// not required to exist at parse time; dangling endpoints are a validation
// warning, not a parse error.
type Relationship struct {
	From string `yaml:"from" json:"from"`
	To   string `yaml:"to" json:"to"`
	Type string `yaml:"type" json:"type"`
}

// UnitIndex returns an id -> unit lookup map. When the manifest contains
// duplicate ids the first occurrence wins, matching the precedence the
// validator documents in its duplicate-id warning. All consumers should use
// this instead of building their own index.
func (m *KnowledgeManifest) UnitIndex() map[string]*KnowledgeUnit {
	index := make(map[string]*KnowledgeUnit, len(m.Units))
	for i := range m.Units {
		u := &m.Units[i]
		if _, seen := index[u.ID]; !seen {
			index[u.ID] = u
		}
	}
	return index
}

// unitIDSet returns the set of declared unit ids.
func (m *KnowledgeManifest) unitIDSet() map[string]bool {
	ids := make(map[string]bool, len(m.Units))
	for _, u := range m.Units {
		if u.ID != "" {
			ids[u.ID] = true
		}
	}
	return ids
}

// Date is a calendar date in strict YYYY-MM-DD form. Anything else in the
// source document is a parse error, never silently dropped.
type Date struct {
	time.Time
}

const dateLayout = "2006-01-02"

// NewDate parses a YYYY-MM-DD string into a Date.
func NewDate(s string) (*Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, &DateFormatError{Value: s, Err: err}
	}
	return &Date{Time: t}, nil
}

// UnmarshalYAML decodes a scalar ISO-8601 calendar date.
func (d *Date) UnmarshalYAML(value *yaml.Node) error {
	if value.Tag == "!!null" {
		return nil
	}
	t, err := time.Parse(dateLayout, value.Value)
	if err != nil {
		return &DateFormatError{Value: value.Value, Err: err}
	}
	d.Time = t
	return nil
}

// MarshalYAML re-emits the date in its canonical form.
func (d Date) MarshalYAML() (interface{}, error) {
	return d.Format(dateLayout), nil
}

// MarshalJSON re-emits the date in its canonical form.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

// String returns the YYYY-MM-DD form.
func (d Date) String() string {
	return d.Format(dateLayout)
}

// License holds either a plain identifier string ("MIT") or a structured
// license block. Exactly one shape is populated; IsShorthand reports which.
// Validators only act on the shorthand form.
type License struct {
	ID    string
	Attrs map[string]interface{}
}

// UnmarshalYAML accepts a scalar or a mapping.
func (l *License) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		l.ID = value.Value
		return nil
	case yaml.MappingNode:
		return value.Decode(&l.Attrs)
	default:
		return fmt.Errorf("license must be a string or a mapping")
	}
}

// IsShorthand reports whether the license was given as a plain identifier.
func (l *License) IsShorthand() bool {
	return l.Attrs == nil
}

// MarshalYAML re-emits whichever shape was parsed.
func (l License) MarshalYAML() (interface{}, error) {
	if l.Attrs != nil {
		return l.Attrs, nil
	}
	return l.ID, nil
}

// Indexing holds either a shorthand policy string ("open", "no-train", ...)
// or a structured indexing policy block. Validators only check the shorthand
// form; structured policies pass through untouched.
type Indexing struct {
	Shorthand string
	Policy    map[string]interface{}
}

// UnmarshalYAML accepts a scalar or a mapping.
func (x *Indexing) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		x.Shorthand = value.Value
		return nil
	case yaml.MappingNode:
		return value.Decode(&x.Policy)
	default:
		return fmt.Errorf("indexing must be a string or a mapping")
	}
}

// IsShorthand reports whether the indexing policy was given as a plain string.
func (x *Indexing) IsShorthand() bool {
	return x.Policy == nil
}

// MarshalYAML re-emits whichever shape was parsed.
func (x Indexing) MarshalYAML() (interface{}, error) {
	if x.Policy != nil {
		return x.Policy, nil
	}
	return x.Shorthand, nil
}
