package vtest

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/vango-dev/head/pkg/head"
	"github.com/vango-dev/head/pkg/render"
	"github.com/vango-dev/head/pkg/vango"
)

// Tree is a component tree wired to a registry over an in-memory head.
type Tree struct {
	registry *head.Registry
	dom      *head.Document
	root     *vango.Owner
	renderer *render.Renderer
}

// TreeOption configures a Tree.
type TreeOption func(*treeConfig)

type treeConfig struct {
	render  render.RendererConfig
	logger  *slog.Logger
	observe head.Observer
}

// WithRenderer sets the renderer configuration used by assertions.
func WithRenderer(cfg render.RendererConfig) TreeOption {
	return func(c *treeConfig) { c.render = cfg }
}

// WithLogger sets the registry logger. Logs are discarded by default.
func WithLogger(logger *slog.Logger) TreeOption {
	return func(c *treeConfig) { c.logger = logger }
}

// WithObserver attaches an observer to the registry.
func WithObserver(o head.Observer) TreeOption {
	return func(c *treeConfig) { c.observe = o }
}

// NewTree creates an empty tree. The root owner is disposed when the test
// ends.
//
// Example:
//
//	tree := vtest.NewTree(t, vtest.WithRenderer(render.RendererConfig{Pretty: true}))
func NewTree(t testing.TB, opts ...TreeOption) *Tree {
	cfg := treeConfig{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(&cfg)
	}

	regOpts := []head.Option{head.WithLogger(cfg.logger)}
	if cfg.observe != nil {
		regOpts = append(regOpts, head.WithObserver(cfg.observe))
	}

	tree := &Tree{
		dom:      head.NewDocument(),
		root:     vango.NewOwner(nil),
		renderer: render.NewRenderer(cfg.render),
	}
	tree.registry = head.NewRegistry(tree.dom, regOpts...)
	head.Provide(tree.root, tree.registry)
	t.Cleanup(tree.root.Dispose)
	return tree
}

// Registry returns the tree's registry.
func (tr *Tree) Registry() *head.Registry {
	return tr.registry
}

// Root returns the owner providing the registry.
func (tr *Tree) Root() *vango.Owner {
	return tr.root
}

// Nodes returns the head nodes in document order.
func (tr *Tree) Nodes() []head.Node {
	return tr.dom.Nodes()
}

// Mount mounts and renders each component under the root.
//
// Example:
//
//	insts := tree.Mount(head.Helmet(vdom.Title("Home")))
func (tr *Tree) Mount(components ...vango.Component) []*vango.Instance {
	out := make([]*vango.Instance, 0, len(components))
	for _, c := range components {
		inst := vango.Mount(c, nil, tr.root)
		inst.Render()
		out = append(out, inst)
	}
	return out
}

// HeadString renders the head. Render errors are returned as the string
// so assertions show them.
func (tr *Tree) HeadString() string {
	html, err := tr.renderer.RenderHeadString(tr.dom.Nodes())
	if err != nil {
		return "render error: " + err.Error()
	}
	return html
}

// ExpectContains asserts that the rendered head contains expected.
//
// Example:
//
//	tree.ExpectContains(t, `<meta charset="utf-8"`)
func (tr *Tree) ExpectContains(t testing.TB, expected string) {
	t.Helper()
	html := tr.HeadString()
	if !strings.Contains(html, expected) {
		t.Errorf("expected head to contain %q, got:\n%s", expected, truncate(html, 500))
	}
}

// ExpectNotContains asserts that the rendered head does not contain
// unexpected.
func (tr *Tree) ExpectNotContains(t testing.TB, unexpected string) {
	t.Helper()
	html := tr.HeadString()
	if strings.Contains(html, unexpected) {
		t.Errorf("expected head to NOT contain %q, got:\n%s", unexpected, truncate(html, 500))
	}
}

// ExpectAttribute asserts that some head node carries attr="value".
func (tr *Tree) ExpectAttribute(t testing.TB, attr, value string) {
	t.Helper()
	for _, n := range tr.dom.Nodes() {
		if v, ok := n.Attr(attr); ok && v == value {
			return
		}
	}
	t.Errorf("expected attribute %s=%q not found, got:\n%s", attr, value, truncate(tr.HeadString(), 500))
}

// ExpectCount asserts the number of head nodes with the given tag.
//
// Example:
//
//	tree.ExpectCount(t, "title", 1)
func (tr *Tree) ExpectCount(t testing.TB, tag string, want int) {
	t.Helper()
	got := 0
	for _, n := range tr.dom.Nodes() {
		if n.Tag == tag {
			got++
		}
	}
	if got != want {
		t.Errorf("expected %d <%s> nodes, got %d:\n%s", want, tag, got, truncate(tr.HeadString(), 500))
	}
}

// ExpectTitle asserts that the head has exactly one title with the given
// text.
func (tr *Tree) ExpectTitle(t testing.TB, title string) {
	t.Helper()
	var titles []string
	for _, n := range tr.dom.Nodes() {
		if n.Tag == "title" {
			titles = append(titles, n.Content)
		}
	}
	if len(titles) != 1 || titles[0] != title {
		t.Errorf("expected title %q, got %q", title, titles)
	}
}

// truncate truncates a string to max length with ellipsis.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
