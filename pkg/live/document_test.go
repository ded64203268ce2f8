package live

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/vango-dev/head/internal/errors"
	"github.com/vango-dev/head/pkg/head"
	"github.com/vango-dev/head/pkg/metrics"
	"github.com/vango-dev/head/pkg/protocol"
	"github.com/vango-dev/head/pkg/vango"
	"github.com/vango-dev/head/pkg/vdom"
)

// recordingBroadcaster keeps every frame it is asked to send.
type recordingBroadcaster struct {
	mu     sync.Mutex
	frames [][]byte
}

func (b *recordingBroadcaster) Broadcast(frame []byte) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.frames = append(b.frames, append([]byte(nil), frame...))
	return 1
}

func (b *recordingBroadcaster) last(t *testing.T) *protocol.Frame {
	t.Helper()
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.frames) == 0 {
		t.Fatal("no frames broadcast")
	}
	f, err := protocol.DecodeFrame(b.frames[len(b.frames)-1])
	if err != nil {
		t.Fatalf("DecodeFrame error: %v", err)
	}
	return f
}

func ops(f *protocol.Frame) []string {
	out := make([]string, len(f.Patches))
	for i, p := range f.Patches {
		out[i] = p.Op.String()
	}
	return out
}

func TestDocumentSharedEntryFlush(t *testing.T) {
	doc := NewDocument(WithTracerProvider(noop.NewTracerProvider()))
	b := &recordingBroadcaster{}
	ctx := context.Background()

	a := doc.Mount(head.Helmet(vdom.Title("Docs")))
	c := doc.Mount(head.Helmet(vdom.Title("Docs")))

	n, err := doc.Flush(ctx, b)
	if err != nil {
		t.Fatalf("Flush error: %v", err)
	}
	if n != 1 {
		t.Fatalf("patches = %d, want 1 insert", n)
	}
	f := b.last(t)
	if f.Type != protocol.FrameHead || f.Patches[0].Tag != "title" || f.Patches[0].Value != "Docs" {
		t.Errorf("frame = %+v", f)
	}

	doc.Unmount(a)
	if n, _ := doc.Flush(ctx, b); n != 0 {
		t.Errorf("after first unmount patches = %d, want 0", n)
	}
	if len(b.frames) != 1 {
		t.Errorf("empty flush broadcast a frame")
	}
	if len(doc.Nodes()) != 1 {
		t.Errorf("Nodes = %d, want 1", len(doc.Nodes()))
	}

	doc.Unmount(c)
	if n, _ := doc.Flush(ctx, b); n != 1 {
		t.Fatalf("after second unmount patches = %d, want 1", n)
	}
	if diff := cmp.Diff([]string{"RemoveNode"}, ops(b.last(t))); diff != "" {
		t.Errorf("ops (-want +got):\n%s", diff)
	}
	if len(doc.Nodes()) != 0 {
		t.Errorf("Nodes = %d, want 0", len(doc.Nodes()))
	}
}

func TestDocumentRerenderSendsUpdate(t *testing.T) {
	doc := NewDocument()
	b := &recordingBroadcaster{}
	ctx := context.Background()

	title := "Inbox"
	inst := doc.Mount(vango.Func(func(o *vango.Owner) *vdom.VNode {
		head.Use(o, vdom.Title(title))
		return vdom.Main(vdom.H1(title))
	}))
	doc.Flush(ctx, b)

	title = "Inbox (2)"
	doc.Rerender(inst)
	if doc.Pending() == 0 {
		t.Fatal("rerender recorded no patches")
	}
	doc.Flush(ctx, b)

	f := b.last(t)
	if diff := cmp.Diff([]string{"SetText", "SetAttr"}, ops(f)); diff != "" {
		t.Fatalf("ops (-want +got):\n%s", diff)
	}
	if f.Patches[0].Value != "Inbox (2)" {
		t.Errorf("SetText value = %q", f.Patches[0].Value)
	}
	if f.Patches[1].Key != head.IDAttr || f.Patches[1].Value != doc.Nodes()[0].ID {
		t.Errorf("re-key patch = %+v, want new ID %s", f.Patches[1], doc.Nodes()[0].ID)
	}
}

func TestDocumentSnapshot(t *testing.T) {
	doc := NewDocument()
	doc.Mount(head.Helmet(
		vdom.Meta(vdom.Charset("utf-8")),
		vdom.Title("Home"),
	))

	var frames [][]byte
	doc.WithSnapshot(func(b [][]byte) { frames = b })
	if len(frames) != 1 {
		t.Fatalf("snapshot frames = %d, want 1", len(frames))
	}

	f, err := protocol.DecodeFrame(frames[0])
	if err != nil {
		t.Fatalf("DecodeFrame error: %v", err)
	}
	if f.Type != protocol.FrameSnapshot {
		t.Errorf("Type = %v, want Snapshot", f.Type)
	}
	if diff := cmp.Diff([]string{"InsertNode", "InsertNode"}, ops(f)); diff != "" {
		t.Errorf("ops (-want +got):\n%s", diff)
	}
	if f.Patches[0].Tag != "meta" || f.Patches[1].Tag != "title" {
		t.Errorf("snapshot order = %s, %s", f.Patches[0].Tag, f.Patches[1].Tag)
	}
}

func TestDocumentSplitsOversizedFrames(t *testing.T) {
	metas := make([]any, protocol.MaxPatches+1)
	for i := range metas {
		metas[i] = vdom.Meta(vdom.Name(fmt.Sprintf("m%d", i)), vdom.Content("x"))
	}
	doc := NewDocument()
	doc.Mount(head.Helmet(metas...))

	b := &recordingBroadcaster{}
	n, err := doc.Flush(context.Background(), b)
	if err != nil || n != protocol.MaxPatches+1 {
		t.Fatalf("Flush = %d, %v; want %d, nil", n, err, protocol.MaxPatches+1)
	}
	if len(b.frames) != 2 {
		t.Fatalf("broadcast frames = %d, want 2", len(b.frames))
	}
	wantSizes := []int{protocol.MaxPatches, 1}
	for i, data := range b.frames {
		f, err := protocol.DecodeFrame(data)
		if err != nil {
			t.Fatalf("frame %d: DecodeFrame error: %v", i, err)
		}
		if f.Type != protocol.FrameHead || len(f.Patches) != wantSizes[i] {
			t.Errorf("frame %d = %v with %d patches, want Head with %d", i, f.Type, len(f.Patches), wantSizes[i])
		}
	}

	var types []protocol.FrameType
	doc.WithSnapshot(func(frames [][]byte) {
		for i, data := range frames {
			f, err := protocol.DecodeFrame(data)
			if err != nil {
				t.Fatalf("snapshot frame %d: DecodeFrame error: %v", i, err)
			}
			types = append(types, f.Type)
		}
	})
	if diff := cmp.Diff([]protocol.FrameType{protocol.FrameSnapshot, protocol.FrameHead}, types); diff != "" {
		t.Errorf("snapshot frame types (-want +got):\n%s", diff)
	}
}

func TestDocumentFlushRejectsTooManyAttrs(t *testing.T) {
	args := make([]any, 0, protocol.MaxAttrs+1)
	for i := 0; i <= protocol.MaxAttrs; i++ {
		args = append(args, vdom.Data(fmt.Sprintf("a%d", i), "1"))
	}
	doc := NewDocument()
	doc.Mount(head.Helmet(vdom.Meta(args...)))

	b := &recordingBroadcaster{}
	if _, err := doc.Flush(context.Background(), b); errors.Code(err) != "E401" || !stderrors.Is(err, protocol.ErrTooManyAttrs) {
		t.Fatalf("Flush err = %v, want E401 wrapping ErrTooManyAttrs", err)
	}
	if len(b.frames) != 0 {
		t.Errorf("broadcast %d frames after a failed flush", len(b.frames))
	}
}

func TestDocumentBodyAndClose(t *testing.T) {
	doc := NewDocument()
	doc.Mount(vango.Func(func(o *vango.Owner) *vdom.VNode {
		head.Use(o, vdom.Title("Body"))
		return vdom.P("hello")
	}))

	body := doc.Body()
	if len(body.Children) != 1 || body.Children[0].Tag != "p" {
		t.Errorf("Body = %+v", body)
	}

	doc.Close()
	if len(doc.Nodes()) != 0 {
		t.Errorf("Nodes after Close = %d, want 0", len(doc.Nodes()))
	}
	if len(doc.Body().Children) != 0 {
		t.Error("Body after Close should be empty")
	}
}

func TestDocumentMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	doc := NewDocument(WithMetrics(metrics.New(metrics.WithRegistry(reg))))

	doc.Mount(head.Helmet(vdom.Title("A"), vdom.Link(vdom.Rel("icon"), vdom.Href("/i.png"))))
	doc.Flush(context.Background(), &recordingBroadcaster{})

	expected := `
# HELP vango_head_patches_sent_total Total number of head patches sent to clients
# TYPE vango_head_patches_sent_total counter
vango_head_patches_sent_total 2
# HELP vango_head_entries Number of nodes currently managed in the head
# TYPE vango_head_entries gauge
vango_head_entries 2
`
	err := testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"vango_head_patches_sent_total", "vango_head_entries")
	if err != nil {
		t.Error(err)
	}
}
