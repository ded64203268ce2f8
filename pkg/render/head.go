package render

import (
	"bytes"
	"fmt"
	"io"

	"github.com/vango-dev/head/pkg/head"
	"github.com/vango-dev/head/pkg/vdom"
)

// rawTextTags hold content that HTML does not entity-decode.
var rawTextTags = map[string]bool{
	"style":    true,
	"script":   true,
	"noscript": true,
}

// RenderHead writes a <head> element containing nodes in order.
func (r *Renderer) RenderHead(w io.Writer, nodes []head.Node) error {
	if _, err := io.WriteString(w, "<head>"); err != nil {
		return err
	}
	if err := r.newline(w); err != nil {
		return err
	}

	if r.config.DefaultMeta {
		if err := r.renderDefaultMeta(w, nodes); err != nil {
			return err
		}
	}

	for _, n := range nodes {
		if err := r.RenderNode(w, n); err != nil {
			return err
		}
	}

	if _, err := io.WriteString(w, "</head>"); err != nil {
		return err
	}
	return r.newline(w)
}

// RenderHeadString renders nodes with RenderHead into a string.
func (r *Renderer) RenderHeadString(nodes []head.Node) (string, error) {
	var buf bytes.Buffer
	if err := r.RenderHead(&buf, nodes); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderNode writes a single managed head node.
func (r *Renderer) RenderNode(w io.Writer, n head.Node) error {
	if err := r.writeIndent(w); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "<%s", n.Tag); err != nil {
		return err
	}
	for _, a := range n.Attrs {
		if !head.ValidAttrName(a.Name) {
			continue
		}
		var err error
		if a.Value == "" {
			_, err = fmt.Fprintf(w, " %s", a.Name)
		} else {
			_, err = fmt.Fprintf(w, ` %s="%s"`, a.Name, escapeAttr(a.Value))
		}
		if err != nil {
			return err
		}
	}
	if n.ID != "" {
		if _, err := fmt.Fprintf(w, ` %s="%s"`, head.IDAttr, escapeAttr(n.ID)); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(w, ">"); err != nil {
		return err
	}

	if !vdom.IsVoidElement(n.Tag) {
		content := n.Content
		if rawTextTags[n.Tag] {
			content = escapeRawText(n.Tag, content)
		} else {
			content = escapeHTML(content)
		}
		if _, err := fmt.Fprintf(w, "%s</%s>", content, n.Tag); err != nil {
			return err
		}
	}
	return r.newline(w)
}

func (r *Renderer) renderDefaultMeta(w io.Writer, nodes []head.Node) error {
	hasCharset, hasViewport := false, false
	for _, n := range nodes {
		if n.Tag != "meta" {
			continue
		}
		if _, ok := n.Attr("charset"); ok {
			hasCharset = true
		}
		if name, _ := n.Attr("name"); name == "viewport" {
			hasViewport = true
		}
	}

	if !hasCharset {
		if err := r.writeIndent(w); err != nil {
			return err
		}
		if _, err := io.WriteString(w, `<meta charset="utf-8">`); err != nil {
			return err
		}
		if err := r.newline(w); err != nil {
			return err
		}
	}
	if !hasViewport {
		if err := r.writeIndent(w); err != nil {
			return err
		}
		if _, err := io.WriteString(w, `<meta name="viewport" content="width=device-width, initial-scale=1">`); err != nil {
			return err
		}
		if err := r.newline(w); err != nil {
			return err
		}
	}
	return nil
}
