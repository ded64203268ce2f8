// Package render provides server-side rendering of managed head content and
// the pages that carry it.
//
// RenderHead writes a <head> section from the nodes held by a head registry
// or document, in document order:
//
//	renderer := render.NewRenderer(render.RendererConfig{})
//	err := renderer.RenderHead(w, reg.Entries())
//
// Every managed node carries its data-vango-head ID so the live client can
// target it with patches after hydration. Title text is escaped; style,
// script and noscript bodies are written verbatim because they are raw text
// in HTML.
//
// RenderPage writes a complete document: DOCTYPE, the managed head, the body
// VNode tree and the live client bootstrap.
package render
