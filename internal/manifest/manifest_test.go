package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/vango-dev/head/internal/errors"
	"github.com/vango-dev/head/pkg/head"
	"github.com/vango-dev/head/pkg/vdom"
)

const sample = `components:
  - name: layout
    head:
      - tag: meta
        attrs: {charset: utf-8}
      - tag: title
        content: My Site
  - name: post
    head:
      - tag: title
        content: ""
      - tag: link
        attrs:
          rel: canonical
          href: /posts/1
`

func TestParse(t *testing.T) {
	m, err := Parse([]byte(sample), "head.yaml")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if len(m.Components) != 2 {
		t.Fatalf("Components = %d, want 2", len(m.Components))
	}

	layout, ok := m.Component("layout")
	if !ok {
		t.Fatal("layout not found")
	}
	want := []head.Declaration{
		head.Declare("meta", map[string]string{"charset": "utf-8"}),
		head.Declare("title", nil, "My Site"),
	}
	if diff := cmp.Diff(want, layout.Declarations()); diff != "" {
		t.Errorf("layout declarations (-want +got):\n%s", diff)
	}

	post, _ := m.Component("post")
	title := post.Declarations()[0]
	if !title.HasContent || title.Content != "" {
		t.Errorf("empty content should still count as content: %+v", title)
	}
	if post.Head[1].Line != 12 {
		t.Errorf("link entry line = %d, want 12", post.Head[1].Line)
	}

	if _, ok := m.Component("missing"); ok {
		t.Error("unexpected component")
	}
}

func TestEntryVNodeExtractsToDeclaration(t *testing.T) {
	m, err := Parse([]byte(sample), "")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	for _, c := range m.Components {
		var nodes []*vdom.VNode
		for _, child := range c.Children() {
			nodes = append(nodes, child.(*vdom.VNode))
		}
		got := head.Collect(nodes...)
		if diff := cmp.Diff(c.Declarations(), got); diff != "" {
			t.Errorf("%s: collected declarations differ (-want +got):\n%s", c.Name, diff)
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		code string
		line int
	}{
		{"bad yaml", "components: [", "E202", 0},
		{"unknown field", "components: []\npages: []\n", "E202", 0},
		{"missing name", "components:\n  - head: []\n", "E202", 2},
		{"duplicate name", "components:\n  - name: a\n  - name: a\n", "E202", 3},
		{"missing tag", "components:\n  - name: a\n    head:\n      - content: x\n", "E202", 4},
		{"body tag", "components:\n  - name: a\n    head:\n      - tag: div\n", "E203", 4},
		{"markup in attr name", "components:\n  - name: a\n    head:\n      - tag: meta\n        attrs: {\"x><script>alert(1)</script><meta y\": \"1\"}\n", "E205", 4},
		{"space in attr name", "components:\n  - name: a\n    head:\n      - tag: link\n        attrs:\n          rel: icon\n          \"data x\": y\n", "E205", 4},
	}

	dir := t.TempDir()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, "head.yaml")
			if err := os.WriteFile(path, []byte(tt.yaml), 0o644); err != nil {
				t.Fatal(err)
			}

			_, err := Load(path)
			if got := errors.Code(err); got != tt.code {
				t.Fatalf("code = %q, want %q (err: %v)", got, tt.code, err)
			}
			if tt.line == 0 {
				return
			}
			he := err.(*errors.HeadError)
			if he.Location == nil || he.Location.Line != tt.line {
				t.Errorf("Location = %v, want line %d", he.Location, tt.line)
			}
		})
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	if errors.Code(err) != "E201" {
		t.Errorf("err = %v, want E201", err)
	}
}
