package render

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/vango-dev/head/pkg/head"
	"github.com/vango-dev/head/pkg/vdom"
)

// RendererConfig configures the HTML renderer.
type RendererConfig struct {
	// Pretty puts every head node on its own indented line.
	Pretty bool

	// Indent is the string used for each indentation level in pretty mode.
	// Defaults to two spaces if not specified.
	Indent string

	// ClientScript is the path of the live client bundle.
	// Defaults to "/_head/client.js".
	ClientScript string

	// DefaultMeta writes charset and viewport meta tags unless the head
	// already declares them.
	DefaultMeta bool
}

// Renderer handles server-side rendering of head nodes and VNode trees.
type Renderer struct {
	config RendererConfig
}

// NewRenderer creates a new Renderer with the given configuration.
func NewRenderer(config RendererConfig) *Renderer {
	if config.Indent == "" {
		config.Indent = "  "
	}
	if config.ClientScript == "" {
		config.ClientScript = "/_head/client.js"
	}
	return &Renderer{config: config}
}

// RenderToString renders a VNode tree to an HTML string.
func (r *Renderer) RenderToString(node *vdom.VNode) (string, error) {
	var buf bytes.Buffer
	if err := r.RenderToWriter(&buf, node); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderToWriter streams a VNode tree to the given writer.
func (r *Renderer) RenderToWriter(w io.Writer, node *vdom.VNode) error {
	return r.renderNode(w, node)
}

func (r *Renderer) renderNode(w io.Writer, node *vdom.VNode) error {
	if node == nil {
		return nil
	}

	switch node.Kind {
	case vdom.KindElement:
		return r.renderElement(w, node)
	case vdom.KindText:
		_, err := io.WriteString(w, escapeHTML(node.Text))
		return err
	case vdom.KindRaw:
		_, err := io.WriteString(w, node.Text)
		return err
	case vdom.KindFragment:
		for _, child := range node.Children {
			if err := r.renderNode(w, child); err != nil {
				return err
			}
		}
		return nil
	case vdom.KindComponent:
		if node.Comp != nil {
			return r.renderNode(w, node.Comp.Render())
		}
		return nil
	default:
		return fmt.Errorf("unknown node kind: %d", node.Kind)
	}
}

func (r *Renderer) renderElement(w io.Writer, node *vdom.VNode) error {
	if _, err := fmt.Fprintf(w, "<%s", node.Tag); err != nil {
		return err
	}
	if err := renderProps(w, node.Props); err != nil {
		return err
	}
	if _, err := io.WriteString(w, ">"); err != nil {
		return err
	}
	if vdom.IsVoidElement(node.Tag) {
		return nil
	}

	if html, ok := node.Props["dangerouslySetInnerHTML"].(string); ok {
		if _, err := io.WriteString(w, html); err != nil {
			return err
		}
	} else {
		for _, child := range node.Children {
			if err := r.renderNode(w, child); err != nil {
				return err
			}
		}
	}

	_, err := fmt.Fprintf(w, "</%s>", node.Tag)
	return err
}

// renderProps writes string, numeric and true boolean props in key order.
// Event handlers, internal props and invalid names are skipped.
func renderProps(w io.Writer, props vdom.Props) error {
	keys := make([]string, 0, len(props))
	for key := range props {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if strings.HasPrefix(key, "_") || key == "key" || key == "dangerouslySetInnerHTML" {
			continue
		}
		name := key
		switch key {
		case "className":
			name = "class"
		case "htmlFor":
			name = "for"
		}
		if !head.ValidAttrName(name) {
			continue
		}

		var err error
		switch v := props[key].(type) {
		case string:
			_, err = fmt.Fprintf(w, ` %s="%s"`, name, escapeAttr(v))
		case bool:
			if v {
				_, err = fmt.Fprintf(w, " %s", name)
			}
		case int, int64, float64:
			_, err = fmt.Fprintf(w, ` %s="%v"`, name, v)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) writeIndent(w io.Writer) error {
	if !r.config.Pretty {
		return nil
	}
	_, err := io.WriteString(w, r.config.Indent)
	return err
}

func (r *Renderer) newline(w io.Writer) error {
	if !r.config.Pretty {
		return nil
	}
	_, err := io.WriteString(w, "\n")
	return err
}
