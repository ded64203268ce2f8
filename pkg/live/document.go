package live

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/head/internal/errors"
	"github.com/vango-dev/head/pkg/head"
	"github.com/vango-dev/head/pkg/metrics"
	"github.com/vango-dev/head/pkg/protocol"
	"github.com/vango-dev/head/pkg/vango"
	"github.com/vango-dev/head/pkg/vdom"
)

const tracerName = "github.com/vango-dev/head/pkg/live"

// Broadcaster delivers an encoded frame to connected clients and reports
// how many received it.
type Broadcaster interface {
	Broadcast(frame []byte) int
}

// Document is a live head: a registry whose mutations are applied to an
// in-memory head and recorded for clients.
type Document struct {
	mu sync.Mutex

	registry *head.Registry
	dom      *head.Document
	patches  *head.PatchRecorder
	root     *vango.Owner

	instMu    sync.Mutex
	instances []*vango.Instance

	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
}

// Option configures a Document.
type Option func(*Document)

// WithLogger sets the logger used by the document and its registry.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Document) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithMetrics records registry and flush activity.
func WithMetrics(m *metrics.Metrics) Option {
	return func(d *Document) {
		d.metrics = m
	}
}

// WithTracerProvider sets the provider Flush spans come from.
// Defaults to the global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(d *Document) {
		if tp != nil {
			d.tracer = tp.Tracer(tracerName)
		}
	}
}

// NewDocument creates an empty live document.
func NewDocument(opts ...Option) *Document {
	d := &Document{
		dom:     head.NewDocument(),
		patches: head.NewPatchRecorder(),
		root:    vango.NewOwner(nil),
		logger:  slog.Default(),
		tracer:  otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(d)
	}

	regOpts := []head.Option{head.WithLogger(d.logger)}
	if d.metrics != nil {
		regOpts = append(regOpts, head.WithObserver(d.metrics))
	}
	d.registry = head.NewRegistry(head.Tee(d.dom, d.patches), regOpts...)
	head.Provide(d.root, d.registry)
	return d
}

// Registry returns the document's registry.
func (d *Document) Registry() *head.Registry {
	return d.registry
}

// Root returns the owner that provides the registry. Components mounted
// elsewhere can be parented to it.
func (d *Document) Root() *vango.Owner {
	return d.root
}

// Nodes returns the managed head nodes in document order.
func (d *Document) Nodes() []head.Node {
	return d.dom.Nodes()
}

// Mount mounts and renders component at the top level.
func (d *Document) Mount(component vango.Component) *vango.Instance {
	inst := vango.Mount(component, nil, d.root)
	inst.Render()

	d.instMu.Lock()
	d.instances = append(d.instances, inst)
	d.instMu.Unlock()
	return inst
}

// Rerender renders a mounted instance again.
func (d *Document) Rerender(inst *vango.Instance) {
	inst.Render()
}

// Unmount disposes a mounted instance, releasing its head content.
func (d *Document) Unmount(inst *vango.Instance) {
	d.instMu.Lock()
	for i, in := range d.instances {
		if in == inst {
			d.instances = append(d.instances[:i], d.instances[i+1:]...)
			break
		}
	}
	d.instMu.Unlock()

	inst.Dispose()
}

// Body returns the last rendered trees of the top-level instances.
func (d *Document) Body() *vdom.VNode {
	d.instMu.Lock()
	defer d.instMu.Unlock()

	children := make([]any, 0, len(d.instances))
	for _, inst := range d.instances {
		if tree := inst.LastTree(); tree != nil {
			children = append(children, tree)
		}
	}
	return vdom.Fragment(children...)
}

// Pending returns the number of recorded patches not yet flushed.
func (d *Document) Pending() int {
	return d.patches.Len()
}

// Flush encodes pending patches as FrameHead frames and broadcasts them in
// order. Batches larger than protocol.MaxPatches are split across frames.
// It returns the number of patches sent.
func (d *Document) Flush(ctx context.Context, b Broadcaster) (int, error) {
	_, span := d.tracer.Start(ctx, "head.flush")
	defer span.End()

	d.mu.Lock()
	defer d.mu.Unlock()

	start := time.Now()
	patches := d.patches.Drain()
	span.SetAttributes(attribute.Int("head.patches", len(patches)))
	if len(patches) == 0 {
		d.recordFlush(0, 0, start)
		span.SetStatus(codes.Ok, "")
		return 0, nil
	}

	frames, err := protocol.EncodeVDOMFrames(protocol.FrameHead, patches)
	if err != nil {
		err = errors.New("E401").Wrap(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		d.logger.Error("head: flush failed", "patches", len(patches), "error", err)
		return 0, err
	}

	size, clients := 0, 0
	for _, frame := range frames {
		size += len(frame)
		clients = b.Broadcast(frame)
	}
	d.recordFlush(len(patches), len(frames), start)
	span.SetAttributes(
		attribute.Int("head.frames", len(frames)),
		attribute.Int("head.frame_bytes", size),
		attribute.Int("head.clients", clients),
	)
	span.SetStatus(codes.Ok, "")
	d.logger.Debug("head: flushed", "patches", len(patches), "frames", len(frames), "bytes", size, "clients", clients)
	return len(patches), nil
}

func (d *Document) recordFlush(patches, frames int, start time.Time) {
	if d.metrics != nil {
		d.metrics.RecordFlush(patches, frames, time.Since(start))
	}
}

// Snapshot returns the frames that rebuild every managed node. The first is
// a FrameSnapshot; more than protocol.MaxPatches nodes continue in FrameHead
// frames. Nodes that cannot be encoded are skipped.
func (d *Document) Snapshot() [][]byte {
	nodes := d.dom.Nodes()
	f := &protocol.Frame{
		Type:    protocol.FrameSnapshot,
		Patches: make([]protocol.Patch, 0, len(nodes)),
	}
	for _, n := range nodes {
		p, err := protocol.FromVDOM(head.InsertPatch(n))
		if err == nil && len(p.Attrs) > protocol.MaxAttrs {
			err = protocol.ErrTooManyAttrs
		}
		if err != nil {
			d.logger.Warn("head: snapshot skipped node", "id", n.ID, "error", err)
			continue
		}
		f.Patches = append(f.Patches, p)
	}
	frames, err := protocol.EncodeFrames(f)
	if err != nil {
		return [][]byte{protocol.EncodeFrame(&protocol.Frame{Type: protocol.FrameSnapshot})}
	}
	return frames
}

// WithSnapshot calls fn with the current snapshot while no flush can run.
func (d *Document) WithSnapshot(fn func(frames [][]byte)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fn(d.Snapshot())
}

// Close unmounts every instance and disposes the root owner.
func (d *Document) Close() {
	d.instMu.Lock()
	instances := d.instances
	d.instances = nil
	d.instMu.Unlock()

	for i := len(instances) - 1; i >= 0; i-- {
		instances[i].Dispose()
	}
	d.root.Dispose()
}
