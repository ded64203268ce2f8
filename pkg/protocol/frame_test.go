package protocol

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/vango-dev/head/pkg/vdom"
)

func TestFrameRoundTrip(t *testing.T) {
	in := &Frame{
		Type: FrameHead,
		Patches: []Patch{
			{
				Op:      vdom.PatchInsertNode,
				ID:      "a1",
				Tag:     "title",
				Attrs:   []Attr{{Key: "data-vango-head", Value: "a1"}},
				HasText: true,
				Value:   "Home",
			},
			{Op: vdom.PatchInsertNode, ID: "b2", Tag: "link", Attrs: []Attr{{Key: "href", Value: "/a.css"}, {Key: "rel", Value: "stylesheet"}}},
			{Op: vdom.PatchSetAttr, ID: "a1", Key: "lang", Value: "en"},
			{Op: vdom.PatchRemoveAttr, ID: "a1", Key: "dir"},
			{Op: vdom.PatchSetText, ID: "a1", Value: "About"},
			{Op: vdom.PatchRemoveNode, ID: "b2"},
		},
	}

	out, err := DecodeFrame(EncodeFrame(in))
	if err != nil {
		t.Fatalf("DecodeFrame error: %v", err)
	}
	if diff := cmp.Diff(in, out); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestEncodeFrameLayout(t *testing.T) {
	got := EncodeFrame(&Frame{
		Type:    FrameHead,
		Patches: []Patch{{Op: vdom.PatchSetText, ID: "x", Value: "hi"}},
	})
	want := []byte{
		byte(FrameHead),
		0x01,
		byte(vdom.PatchSetText), 0x01, 'x', 0x02, 'h', 'i',
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("encoded bytes mismatch (-want +got):\n%s", diff)
	}
}

func TestEncodeVDOM(t *testing.T) {
	node := vdom.Title(vdom.Data("vango-head", "t1"), vdom.Raw("Docs"))
	patches := []vdom.Patch{
		{Op: vdom.PatchInsertNode, HID: "t1", ParentID: "head", Index: -1, Node: node},
		{Op: vdom.PatchRemoveNode, HID: "old"},
	}

	data, err := EncodeVDOM(FrameSnapshot, patches)
	if err != nil {
		t.Fatalf("EncodeVDOM error: %v", err)
	}
	f, err := DecodeFrame(data)
	if err != nil {
		t.Fatalf("DecodeFrame error: %v", err)
	}

	want := &Frame{
		Type: FrameSnapshot,
		Patches: []Patch{
			{Op: vdom.PatchInsertNode, ID: "t1", Tag: "title", Attrs: []Attr{{Key: "data-vango-head", Value: "t1"}}, HasText: true, Value: "Docs"},
			{Op: vdom.PatchRemoveNode, ID: "old"},
		},
	}
	if diff := cmp.Diff(want, f); diff != "" {
		t.Errorf("frame mismatch (-want +got):\n%s", diff)
	}
}

func TestFromVDOMBooleanProps(t *testing.T) {
	node := vdom.Script(vdom.Src("/app.js"), vdom.Async(), vdom.Custom("defer", false))
	p, err := FromVDOM(vdom.Patch{Op: vdom.PatchInsertNode, HID: "s", Node: node})
	if err != nil {
		t.Fatalf("FromVDOM error: %v", err)
	}
	want := []Attr{{Key: "async"}, {Key: "src", Value: "/app.js"}}
	if diff := cmp.Diff(want, p.Attrs); diff != "" {
		t.Errorf("attrs mismatch (-want +got):\n%s", diff)
	}
	if p.HasText {
		t.Error("script without children should have no text")
	}
}

func TestFromVDOMErrors(t *testing.T) {
	if _, err := FromVDOM(vdom.Patch{Op: vdom.PatchMoveNode, HID: "x"}); !errors.Is(err, ErrUnknownPatchOp) {
		t.Errorf("MoveNode err = %v, want ErrUnknownPatchOp", err)
	}
	if _, err := FromVDOM(vdom.Patch{Op: vdom.PatchInsertNode, HID: "x"}); err == nil {
		t.Error("insert without node should fail")
	}
	if _, err := EncodeVDOM(FrameHead, []vdom.Patch{{Op: vdom.PatchReplaceNode}}); err == nil {
		t.Error("EncodeVDOM should surface conversion errors")
	}
}

func setTextPatches(n int) []Patch {
	patches := make([]Patch, n)
	for i := range patches {
		patches[i] = Patch{Op: vdom.PatchSetText, ID: fmt.Sprintf("n%d", i), Value: "v"}
	}
	return patches
}

func TestEncodeFramesSplitsAtMaxPatches(t *testing.T) {
	in := &Frame{Type: FrameSnapshot, Patches: setTextPatches(2*MaxPatches + 1)}
	frames, err := EncodeFrames(in)
	if err != nil {
		t.Fatalf("EncodeFrames error: %v", err)
	}
	if len(frames) != 3 {
		t.Fatalf("frames = %d, want 3", len(frames))
	}

	var got []Patch
	wantTypes := []FrameType{FrameSnapshot, FrameHead, FrameHead}
	for i, data := range frames {
		f, err := DecodeFrame(data)
		if err != nil {
			t.Fatalf("frame %d: DecodeFrame error: %v", i, err)
		}
		if f.Type != wantTypes[i] {
			t.Errorf("frame %d type = %v, want %v", i, f.Type, wantTypes[i])
		}
		got = append(got, f.Patches...)
	}
	if diff := cmp.Diff(in.Patches, got); diff != "" {
		t.Errorf("reassembled patches mismatch (-want +got):\n%s", diff)
	}
}

func TestEncodeFramesSmallFrame(t *testing.T) {
	in := &Frame{Type: FrameHead, Patches: setTextPatches(MaxPatches)}
	frames, err := EncodeFrames(in)
	if err != nil || len(frames) != 1 {
		t.Fatalf("EncodeFrames = %d frames, %v; want 1, nil", len(frames), err)
	}
	if diff := cmp.Diff(EncodeFrame(in), frames[0]); diff != "" {
		t.Errorf("single frame mismatch (-want +got):\n%s", diff)
	}

	frames, err = EncodeFrames(&Frame{Type: FrameSnapshot})
	if err != nil || len(frames) != 1 {
		t.Fatalf("empty EncodeFrames = %d frames, %v; want 1, nil", len(frames), err)
	}
}

func TestEncodeLimits(t *testing.T) {
	attrs := make([]Attr, MaxAttrs+1)
	for i := range attrs {
		attrs[i] = Attr{Key: fmt.Sprintf("data-a%d", i), Value: "1"}
	}
	wide := &Frame{Type: FrameHead, Patches: []Patch{{Op: vdom.PatchInsertNode, ID: "w", Tag: "meta", Attrs: attrs}}}

	if _, err := EncodeFrames(wide); !errors.Is(err, ErrTooManyAttrs) {
		t.Errorf("EncodeFrames err = %v, want ErrTooManyAttrs", err)
	}
	if err := wide.Validate(); !errors.Is(err, ErrTooManyAttrs) {
		t.Errorf("Validate err = %v, want ErrTooManyAttrs", err)
	}
	if _, err := DecodeFrame(EncodeFrame(wide)); !errors.Is(err, ErrTooManyAttrs) {
		t.Errorf("DecodeFrame err = %v, want ErrTooManyAttrs", err)
	}

	big := &Frame{Type: FrameHead, Patches: setTextPatches(MaxPatches + 1)}
	if err := big.Validate(); !errors.Is(err, ErrTooManyPatches) {
		t.Errorf("Validate err = %v, want ErrTooManyPatches", err)
	}
}

func TestEncodeVDOMLimits(t *testing.T) {
	patches := make([]vdom.Patch, MaxPatches+1)
	for i := range patches {
		patches[i] = vdom.Patch{Op: vdom.PatchRemoveNode, HID: fmt.Sprintf("n%d", i)}
	}
	if _, err := EncodeVDOM(FrameHead, patches); !errors.Is(err, ErrTooManyPatches) {
		t.Errorf("EncodeVDOM err = %v, want ErrTooManyPatches", err)
	}
	frames, err := EncodeVDOMFrames(FrameHead, patches)
	if err != nil || len(frames) != 2 {
		t.Fatalf("EncodeVDOMFrames = %d frames, %v; want 2, nil", len(frames), err)
	}

	args := make([]any, 0, MaxAttrs+1)
	for i := 0; i <= MaxAttrs; i++ {
		args = append(args, vdom.Data(fmt.Sprintf("a%d", i), "1"))
	}
	insert := []vdom.Patch{{Op: vdom.PatchInsertNode, HID: "w", Node: vdom.Meta(args...)}}
	if _, err := EncodeVDOM(FrameHead, insert); !errors.Is(err, ErrTooManyAttrs) {
		t.Errorf("EncodeVDOM err = %v, want ErrTooManyAttrs", err)
	}
	if _, err := EncodeVDOMFrames(FrameHead, insert); !errors.Is(err, ErrTooManyAttrs) {
		t.Errorf("EncodeVDOMFrames err = %v, want ErrTooManyAttrs", err)
	}
}

func TestDecodeFrameErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"empty", nil, ErrBufferTooShort},
		{"bad type", []byte{0x99, 0x00}, ErrInvalidFrameType},
		{"missing count", []byte{byte(FrameHead)}, ErrBufferTooShort},
		{"too many patches", []byte{byte(FrameHead), 0x91, 0x4E}, ErrTooManyPatches},
		{"unknown op", []byte{byte(FrameHead), 0x01, 0x7F, 0x00}, ErrUnknownPatchOp},
		{"truncated patch", []byte{byte(FrameHead), 0x01, byte(vdom.PatchSetAttr), 0x01, 'x', 0x01}, ErrBufferTooShort},
		{"bad text flag", []byte{byte(FrameHead), 0x01, byte(vdom.PatchInsertNode), 0x00, 0x00, 0x00, 0x07}, ErrInvalidBool},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeFrame(tt.data)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestFrameTypeString(t *testing.T) {
	if FrameHead.String() != "Head" || FrameSnapshot.String() != "Snapshot" || FrameType(0).String() != "Unknown" {
		t.Error("unexpected FrameType strings")
	}
}
