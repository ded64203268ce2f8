package render

import (
	"fmt"
	"io"

	"github.com/vango-dev/head/pkg/head"
	"github.com/vango-dev/head/pkg/vdom"
)

// PageData contains all data needed to render a complete HTML page.
type PageData struct {
	// Head is the managed head content in document order.
	Head []head.Node

	// Body is the root VNode for the page content.
	Body *vdom.VNode

	// Lang is the language attribute for the html element.
	// Defaults to "en" if not specified.
	Lang string

	// LiveURL is the websocket endpoint the client connects to for head
	// patches. The client script is omitted when empty.
	LiveURL string
}

// RenderPage renders a complete HTML document to the given writer.
func (r *Renderer) RenderPage(w io.Writer, page PageData) error {
	lang := page.Lang
	if lang == "" {
		lang = "en"
	}

	if _, err := io.WriteString(w, "<!DOCTYPE html>\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, `<html lang="%s">`+"\n", escapeAttr(lang)); err != nil {
		return err
	}

	if err := r.RenderHead(w, page.Head); err != nil {
		return err
	}
	return r.renderBody(w, page)
}

func (r *Renderer) renderBody(w io.Writer, page PageData) error {
	if _, err := io.WriteString(w, "<body>\n"); err != nil {
		return err
	}
	if err := r.RenderToWriter(w, page.Body); err != nil {
		return err
	}
	if err := r.renderClientScript(w, page); err != nil {
		return err
	}
	_, err := io.WriteString(w, "</body>\n</html>\n")
	return err
}

// renderClientScript injects the live client and its endpoint.
func (r *Renderer) renderClientScript(w io.Writer, page PageData) error {
	if page.LiveURL == "" {
		return nil
	}
	_, err := fmt.Fprintf(w, "\n"+`<script src="%s" data-live="%s" defer></script>`+"\n",
		escapeAttr(r.config.ClientScript), escapeAttr(page.LiveURL))
	return err
}
