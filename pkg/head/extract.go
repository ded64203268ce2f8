package head

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/vango-dev/head/pkg/vdom"
)

// headTags are the element tags that may be declared into the head.
var headTags = map[string]bool{
	"title":    true,
	"meta":     true,
	"link":     true,
	"style":    true,
	"script":   true,
	"base":     true,
	"noscript": true,
}

// IsHeadTag reports whether tag may be managed in the document head.
func IsHeadTag(tag string) bool {
	return headTags[strings.ToLower(tag)]
}

// SkipFunc is called for every child that does not produce a declaration.
type SkipFunc func(node *vdom.VNode, reason string)

// Collect extracts declarations from children. Fragments are flattened;
// text, raw, component and non-head element nodes are ignored.
func Collect(children ...*vdom.VNode) []Declaration {
	return CollectFunc(nil, children...)
}

// CollectFunc is Collect with a callback for ignored children.
func CollectFunc(skip SkipFunc, children ...*vdom.VNode) []Declaration {
	var out []Declaration
	for _, child := range children {
		out = collectNode(out, child, skip)
	}
	return out
}

func collectNode(out []Declaration, node *vdom.VNode, skip SkipFunc) []Declaration {
	if node == nil {
		return out
	}

	switch node.Kind {
	case vdom.KindFragment:
		for _, c := range node.Children {
			out = collectNode(out, c, skip)
		}
		return out
	case vdom.KindElement:
		if !IsHeadTag(node.Tag) {
			if skip != nil {
				skip(node, "not a head element")
			}
			return out
		}
		return append(out, declarationOf(node))
	default:
		if skip != nil {
			skip(node, "unsupported node kind "+node.Kind.String())
		}
		return out
	}
}

func declarationOf(node *vdom.VNode) Declaration {
	d := Declaration{Tag: node.Tag}

	keys := make([]string, 0, len(node.Props))
	for key := range node.Props {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		name, str, ok := attrValue(key, node.Props[key])
		if !ok {
			continue
		}
		d.Attrs = append(d.Attrs, Attr{Name: name, Value: str})
	}

	if html, ok := node.Props["dangerouslySetInnerHTML"].(string); ok {
		d.Content = html
		d.HasContent = true
	} else if content, ok := innerText(node); ok {
		d.Content = content
		d.HasContent = true
	}

	return d.Normalize()
}

// innerText returns the first text child, or the text of a first element
// child that has exactly one text child.
func innerText(node *vdom.VNode) (string, bool) {
	if len(node.Children) == 0 || node.Children[0] == nil {
		return "", false
	}
	first := node.Children[0]
	switch first.Kind {
	case vdom.KindText, vdom.KindRaw:
		return first.Text, true
	case vdom.KindElement:
		if len(first.Children) == 1 && first.Children[0] != nil {
			inner := first.Children[0]
			if inner.Kind == vdom.KindText || inner.Kind == vdom.KindRaw {
				return inner.Text, true
			}
		}
	}
	return "", false
}

// attrValue converts a prop to an attribute. ok is false for props that are
// not rendered as attributes.
func attrValue(key string, value any) (name, str string, ok bool) {
	if key == "" || strings.HasPrefix(key, "_") {
		return "", "", false
	}
	switch key {
	case "key", "dangerouslySetInnerHTML":
		return "", "", false
	case "className":
		key = "class"
	case "htmlFor":
		key = "for"
	}

	switch v := value.(type) {
	case nil:
		return "", "", false
	case string:
		return key, v, true
	case bool:
		if !v {
			return "", "", false
		}
		return key, "", true
	case vdom.EventHandler:
		return "", "", false
	case fmt.Stringer:
		return key, v.String(), true
	}

	switch reflect.TypeOf(value).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return key, fmt.Sprint(value), true
	}
	return "", "", false
}
