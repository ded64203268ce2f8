package head

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/cespare/xxhash/v2"

	"github.com/vango-dev/head/pkg/vdom"
)

// IDAttr is the attribute that carries a managed node's ID in the DOM.
const IDAttr = "data-vango-head"

// Attr is a single name/value attribute of a declaration.
type Attr struct {
	Name  string
	Value string
}

// Declaration is a requested head element: tag, attributes and optional
// text content. Two declarations are the same entry when their Keys match.
type Declaration struct {
	Tag        string
	Attrs      []Attr
	Content    string
	HasContent bool
}

// Declare builds a normalized declaration. Passing content marks the
// declaration as having text content, even when it is empty; multiple
// content arguments are concatenated.
func Declare(tag string, attrs map[string]string, content ...string) Declaration {
	d := Declaration{Tag: tag}
	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		d.Attrs = append(d.Attrs, Attr{Name: name, Value: attrs[name]})
	}
	if len(content) > 0 {
		d.HasContent = true
		d.Content = strings.Join(content, "")
	}
	return d.Normalize()
}

// Normalize returns a copy with a lower-cased tag and lower-cased attribute
// names sorted by name. Invalid names and the reserved IDAttr are dropped.
// Names that collide after lower-casing collapse to the last one in
// (lower-cased name, original name) order; exact ties keep input order.
func (d Declaration) Normalize() Declaration {
	out := Declaration{
		Tag:        strings.ToLower(strings.TrimSpace(d.Tag)),
		Content:    d.Content,
		HasContent: d.HasContent,
	}
	if !out.HasContent {
		out.Content = ""
	}
	if len(d.Attrs) == 0 {
		return out
	}

	type candidate struct {
		lower, orig, value string
	}
	cands := make([]candidate, 0, len(d.Attrs))
	for _, a := range d.Attrs {
		orig := strings.TrimSpace(a.Name)
		lower := strings.ToLower(orig)
		if lower == IDAttr || !ValidAttrName(lower) {
			continue
		}
		cands = append(cands, candidate{lower: lower, orig: orig, value: a.Value})
	}
	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].lower != cands[j].lower {
			return cands[i].lower < cands[j].lower
		}
		return cands[i].orig < cands[j].orig
	})

	attrs := make([]Attr, 0, len(cands))
	for _, c := range cands {
		if n := len(attrs); n > 0 && attrs[n-1].Name == c.lower {
			attrs[n-1].Value = c.value
			continue
		}
		attrs = append(attrs, Attr{Name: c.lower, Value: c.value})
	}
	if len(attrs) > 0 {
		out.Attrs = attrs
	}
	return out
}

// ValidAttrName reports whether name can be written as an HTML attribute
// and set through the DOM: a letter, '_' or ':' followed by letters,
// digits, '-', '_', '.' or ':'.
func ValidAttrName(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case unicode.IsLetter(r), r == '_', r == ':':
		case i > 0 && (unicode.IsDigit(r) || r == '-' || r == '.'):
		default:
			return false
		}
	}
	return true
}

// Key returns the canonical identity of the declaration. Every field is
// length-prefixed so distinct declarations never share a key.
func (d Declaration) Key() string {
	n := d.Normalize()

	var b strings.Builder
	writeField(&b, n.Tag)
	b.WriteString(strconv.Itoa(len(n.Attrs)))
	b.WriteByte('|')
	for _, a := range n.Attrs {
		writeField(&b, a.Name)
		writeField(&b, a.Value)
	}
	if n.HasContent {
		b.WriteByte('+')
		writeField(&b, n.Content)
	} else {
		b.WriteByte('-')
	}
	return b.String()
}

func writeField(b *strings.Builder, s string) {
	b.WriteString(strconv.Itoa(len(s)))
	b.WriteByte(':')
	b.WriteString(s)
}

// ID returns the node ID used for this declaration in the DOM.
func (d Declaration) ID() string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(d.Key()))
}

// Equal reports whether two declarations are the same entry.
func (d Declaration) Equal(other Declaration) bool {
	return d.Key() == other.Key()
}

// Attr returns the value of the named attribute.
func (d Declaration) Attr(name string) (string, bool) {
	name = strings.ToLower(name)
	for _, a := range d.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// String renders a short HTML-like form for logs.
func (d Declaration) String() string {
	var b strings.Builder
	b.WriteByte('<')
	b.WriteString(d.Tag)
	for _, a := range d.Attrs {
		b.WriteByte(' ')
		b.WriteString(a.Name)
		if a.Value != "" {
			b.WriteString(`="`)
			b.WriteString(a.Value)
			b.WriteByte('"')
		}
	}
	b.WriteByte('>')
	if d.HasContent {
		content := d.Content
		if len(content) > 32 {
			content = content[:32] + "..."
		}
		b.WriteString(content)
	}
	return b.String()
}

// Node is a declaration as it exists in the DOM.
type Node struct {
	ID string
	Declaration
}

// VNode converts the node to a vdom element carrying IDAttr.
func (n Node) VNode() *vdom.VNode {
	props := make(vdom.Props, len(n.Attrs)+1)
	for _, a := range n.Attrs {
		props[a.Name] = a.Value
	}
	props[IDAttr] = n.ID

	v := &vdom.VNode{
		Kind:     vdom.KindElement,
		Tag:      n.Tag,
		Props:    props,
		Children: make([]*vdom.VNode, 0, 1),
		HID:      n.ID,
	}
	if n.HasContent {
		v.Children = append(v.Children, vdom.Raw(n.Content))
	}
	return v
}
