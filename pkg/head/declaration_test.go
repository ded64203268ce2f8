package head

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDeclareNormalizes(t *testing.T) {
	d := Declare(" META ", map[string]string{"Name": "description", "content": "Docs", IDAttr: "x"})

	want := Declaration{
		Tag: "meta",
		Attrs: []Attr{
			{Name: "content", Value: "Docs"},
			{Name: "name", Value: "description"},
		},
	}
	if diff := cmp.Diff(want, d); diff != "" {
		t.Errorf("Declare() mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeCollidingNamesAreOrderIndependent(t *testing.T) {
	a := Declaration{Tag: "link", Attrs: []Attr{
		{Name: "rel", Value: "icon"},
		{Name: "REL", Value: "stylesheet"},
		{Name: "", Value: "dropped"},
	}}.Normalize()
	b := Declaration{Tag: "link", Attrs: []Attr{
		{Name: "REL", Value: "stylesheet"},
		{Name: "rel", Value: "icon"},
	}}.Normalize()

	want := []Attr{{Name: "rel", Value: "icon"}}
	if diff := cmp.Diff(want, a.Attrs); diff != "" {
		t.Errorf("Attrs mismatch (-want +got):\n%s", diff)
	}
	if a.Key() != b.Key() {
		t.Errorf("keys differ by input order: %q vs %q", a.Key(), b.Key())
	}
}

func TestNormalizeExactDuplicatesLastWins(t *testing.T) {
	d := Declaration{Tag: "meta", Attrs: []Attr{
		{Name: "content", Value: "one"},
		{Name: "content", Value: "two"},
	}}.Normalize()

	want := []Attr{{Name: "content", Value: "two"}}
	if diff := cmp.Diff(want, d.Attrs); diff != "" {
		t.Errorf("Attrs mismatch (-want +got):\n%s", diff)
	}
}

func TestDeclareCaseCollisionIsDeterministic(t *testing.T) {
	attrs := map[string]string{"Name": "a", "name": "b", "NAME": "c"}
	want := Declare("meta", attrs).Key()
	for i := 0; i < 200; i++ {
		if got := Declare("meta", attrs).Key(); got != want {
			t.Fatalf("call %d: Key = %q, want %q", i, got, want)
		}
	}
	if v, _ := Declare("meta", attrs).Attr("name"); v != "b" {
		t.Errorf("name = %q, want b", v)
	}
}

func TestNormalizeDropsInvalidAttrNames(t *testing.T) {
	d := Declaration{Tag: "meta", Attrs: []Attr{
		{Name: "x><script>alert(1)</script><meta y", Value: "1"},
		{Name: `a"b`, Value: "quote"},
		{Name: "two words", Value: "space"},
		{Name: "a=b", Value: "eq"},
		{Name: "a/b", Value: "slash"},
		{Name: "1st", Value: "digit first"},
		{Name: " ", Value: "blank"},
		{Name: "content", Value: "kept"},
		{Name: "data-x.y_z:w", Value: "kept too"},
	}}.Normalize()

	want := []Attr{
		{Name: "content", Value: "kept"},
		{Name: "data-x.y_z:w", Value: "kept too"},
	}
	if diff := cmp.Diff(want, d.Attrs); diff != "" {
		t.Errorf("Attrs mismatch (-want +got):\n%s", diff)
	}
}

func TestValidAttrName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"content", true},
		{"http-equiv", true},
		{"xml:lang", true},
		{"_x", true},
		{"data-ü", true},
		{"", false},
		{"-x", false},
		{"9x", false},
		{"a b", false},
		{"a\tb", false},
		{`a"`, false},
		{"a'", false},
		{"a>", false},
		{"a<", false},
		{"a=", false},
		{"a/", false},
		{"a\x00", false},
	}
	for _, tt := range tests {
		if got := ValidAttrName(tt.name); got != tt.want {
			t.Errorf("ValidAttrName(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestNormalizeClearsContentWithoutFlag(t *testing.T) {
	d := Declaration{Tag: "meta", Content: "stale"}.Normalize()
	if d.Content != "" {
		t.Errorf("Content = %q, want empty", d.Content)
	}
}

func TestKeyIdentity(t *testing.T) {
	tests := []struct {
		name  string
		a, b  Declaration
		equal bool
	}{
		{
			name:  "attribute order does not matter",
			a:     Declaration{Tag: "link", Attrs: []Attr{{"rel", "icon"}, {"href", "/f.ico"}}},
			b:     Declaration{Tag: "LINK", Attrs: []Attr{{"href", "/f.ico"}, {"rel", "icon"}}},
			equal: true,
		},
		{
			name:  "different content",
			a:     Declare("title", nil, "A"),
			b:     Declare("title", nil, "B"),
			equal: false,
		},
		{
			name:  "empty content differs from no content",
			a:     Declare("script", map[string]string{"src": "/a.js"}),
			b:     Declare("script", map[string]string{"src": "/a.js"}, ""),
			equal: false,
		},
		{
			name:  "length prefixes prevent ambiguity",
			a:     Declaration{Tag: "meta", Attrs: []Attr{{"a", "b:c"}}},
			b:     Declaration{Tag: "meta", Attrs: []Attr{{"a:b", "c"}}},
			equal: false,
		},
		{
			name:  "different tags",
			a:     Declare("style", nil, "x"),
			b:     Declare("noscript", nil, "x"),
			equal: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.equal {
				t.Errorf("Equal = %v, want %v (keys %q / %q)", got, tt.equal, tt.a.Key(), tt.b.Key())
			}
			if got := tt.a.ID() == tt.b.ID(); got != tt.equal {
				t.Errorf("ID equality = %v, want %v", got, tt.equal)
			}
		})
	}
}

func TestIDIsStableHex(t *testing.T) {
	d := Declare("title", nil, "Home")
	id := d.ID()
	if len(id) != 16 {
		t.Errorf("ID length = %d, want 16", len(id))
	}
	if id != Declare("title", nil, "Home").ID() {
		t.Error("ID should be deterministic")
	}
}

func TestDeclarationAttrLookup(t *testing.T) {
	d := Declare("meta", map[string]string{"property": "og:title"})
	if v, ok := d.Attr("PROPERTY"); !ok || v != "og:title" {
		t.Errorf("Attr(property) = %q, %v", v, ok)
	}
	if _, ok := d.Attr("name"); ok {
		t.Error("Attr(name) should be missing")
	}
}

func TestDeclarationString(t *testing.T) {
	d := Declare("script", map[string]string{"async": "", "src": "/a.js"}, "")
	if got, want := d.String(), `<script async src="/a.js">`; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestNodeVNode(t *testing.T) {
	d := Declare("style", map[string]string{"media": "print"}, "body{}")
	n := Node{ID: d.ID(), Declaration: d}
	v := n.VNode()

	if v.Tag != "style" || v.HID != n.ID {
		t.Fatalf("VNode = %+v", v)
	}
	if v.Props[IDAttr] != n.ID {
		t.Errorf("%s = %v, want %s", IDAttr, v.Props[IDAttr], n.ID)
	}
	if v.Props["media"] != "print" {
		t.Errorf("media = %v", v.Props["media"])
	}
	if v.TextContent() != "body{}" {
		t.Errorf("TextContent = %q", v.TextContent())
	}
}
