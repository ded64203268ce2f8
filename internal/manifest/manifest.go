// Package manifest loads YAML files that describe components and the head
// content each of them declares.
//
//	components:
//	  - name: layout
//	    head:
//	      - tag: meta
//	        attrs: {charset: utf-8}
//	      - tag: title
//	        content: My Site
//	  - name: blog-post
//	    head:
//	      - tag: title
//	        content: Hello
package manifest

import (
	"bytes"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/vango-dev/head/internal/errors"
	"github.com/vango-dev/head/pkg/head"
	"github.com/vango-dev/head/pkg/vdom"
	"gopkg.in/yaml.v3"
)

// Manifest is a parsed head manifest.
type Manifest struct {
	Components []Component `yaml:"components"`

	source string
}

// Component is a named component and its head children.
type Component struct {
	Name string  `yaml:"name"`
	Head []Entry `yaml:"head"`

	Line int `yaml:"-"`
}

// Entry is one head element.
type Entry struct {
	Tag     string            `yaml:"tag"`
	Attrs   map[string]string `yaml:"attrs"`
	Content *string           `yaml:"content"`

	Line   int `yaml:"-"`
	Column int `yaml:"-"`
}

// UnmarshalYAML records the position of the component.
func (c *Component) UnmarshalYAML(n *yaml.Node) error {
	type plain Component
	var p plain
	if err := n.Decode(&p); err != nil {
		return err
	}
	*c = Component(p)
	c.Line = n.Line
	return nil
}

// UnmarshalYAML records the position of the entry.
func (e *Entry) UnmarshalYAML(n *yaml.Node) error {
	type plain Entry
	var p plain
	if err := n.Decode(&p); err != nil {
		return err
	}
	*e = Entry(p)
	e.Line, e.Column = n.Line, n.Column
	return nil
}

// Load reads and parses the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New("E201").WithDetail(path).Wrap(err)
	}
	return Parse(data, path)
}

// Parse parses manifest data. source names the data in error locations.
func Parse(data []byte, source string) (*Manifest, error) {
	m := &Manifest{source: source}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(m); err != nil {
		return nil, errors.New("E202").
			WithDetail(source).
			WithSuggestion("Check the manifest against the components/head layout").
			Wrap(err)
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Manifest) validate() error {
	seen := make(map[string]int, len(m.Components))
	for _, c := range m.Components {
		if c.Name == "" {
			return m.errorAt("E202", c.Line, 0).
				WithSuggestion("Every component needs a name")
		}
		if line, ok := seen[c.Name]; ok {
			return m.errorAt("E202", c.Line, 0).
				WithSuggestion(fmt.Sprintf("Component %q is already declared on line %d", c.Name, line))
		}
		seen[c.Name] = c.Line

		for _, e := range c.Head {
			if e.Tag == "" {
				return m.errorAt("E202", e.Line, e.Column).
					WithSuggestion("Every head entry needs a tag")
			}
			if !head.IsHeadTag(e.Tag) {
				return m.errorAt("E203", e.Line, e.Column).
					WithSuggestion(fmt.Sprintf("Move <%s> into the page body", e.Tag))
			}
			for _, name := range sortedNames(e.Attrs) {
				if !head.ValidAttrName(strings.ToLower(strings.TrimSpace(name))) {
					return m.errorAt("E205", e.Line, e.Column).
						WithSuggestion(fmt.Sprintf("Rename attribute %q on <%s>", name, e.Tag))
				}
			}
		}
	}
	return nil
}

func (m *Manifest) errorAt(code string, line, column int) *errors.HeadError {
	err := errors.New(code)
	if m.source != "" && line > 0 {
		err = err.WithLocation(m.source, line, column)
	}
	return err
}

// Source returns the path or name the manifest was parsed from.
func (m *Manifest) Source() string {
	return m.source
}

// Component returns the component with the given name.
func (m *Manifest) Component(name string) (Component, bool) {
	for _, c := range m.Components {
		if c.Name == name {
			return c, true
		}
	}
	return Component{}, false
}

// Declaration returns the normalized declaration for the entry.
func (e Entry) Declaration() head.Declaration {
	if e.Content != nil {
		return head.Declare(e.Tag, e.Attrs, *e.Content)
	}
	return head.Declare(e.Tag, e.Attrs)
}

// VNode builds the element the entry describes. Attributes are applied in
// name order.
func (e Entry) VNode() *vdom.VNode {
	names := sortedNames(e.Attrs)
	args := make([]any, 0, len(names)+1)
	for _, name := range names {
		args = append(args, vdom.Custom(name, e.Attrs[name]))
	}
	if e.Content != nil {
		args = append(args, vdom.Text(*e.Content))
	}
	return vdom.El(e.Tag, args...)
}

func sortedNames(attrs map[string]string) []string {
	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Children returns the head children of the component as VNodes.
func (c Component) Children() []any {
	out := make([]any, 0, len(c.Head))
	for _, e := range c.Head {
		out = append(out, e.VNode())
	}
	return out
}

// Declarations returns the normalized declarations of the component.
func (c Component) Declarations() []head.Declaration {
	out := make([]head.Declaration, 0, len(c.Head))
	for _, e := range c.Head {
		out = append(out, e.Declaration())
	}
	return out
}
