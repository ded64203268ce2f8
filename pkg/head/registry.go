package head

import (
	"log/slog"
	"sort"
	"sync"
)

// Registry maps declaration identity to the owners that currently declare
// it and the DOM node that represents it. There is at most one DOM node per
// distinct declaration.
type Registry struct {
	mu sync.Mutex

	dom      DOM
	logger   *slog.Logger
	observer Observer

	entries   map[string]*entry
	seq       uint64
	instances map[uint64]*Instance
}

type entry struct {
	node   Node
	owners map[uint64]struct{}
	seq    uint64
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used for non-fatal DOM errors and ignored
// children.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithObserver sets the observer notified of DOM changes.
func WithObserver(o Observer) Option {
	return func(r *Registry) {
		if o != nil {
			r.observer = o
		}
	}
}

// NewRegistry creates a registry that applies changes to dom.
// A nil dom gets a fresh Document.
func NewRegistry(dom DOM, opts ...Option) *Registry {
	if dom == nil {
		dom = NewDocument()
	}
	r := &Registry{
		dom:       dom,
		logger:    slog.Default(),
		observer:  nopObserver{},
		entries:   make(map[string]*entry),
		instances: make(map[uint64]*Instance),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register records that owner declares decl, inserting a DOM node when the
// declaration is new. Registering the same pair twice is a no-op.
func (r *Registry) Register(decl Declaration, owner uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.register(decl.Normalize(), owner)
}

// Unregister records that owner no longer declares decl. The DOM node is
// removed when no owner is left. Unknown pairs are ignored.
func (r *Registry) Unregister(decl Declaration, owner uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.unregister(decl.Normalize(), owner)
}

// Replace moves owner from prev to next. When owner is the only owner of
// prev and next is not registered yet, the existing node is updated in
// place instead of being removed and re-inserted.
func (r *Registry) Replace(prev, next Declaration, owner uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.replace(prev.Normalize(), next.Normalize(), owner)
}

func (r *Registry) register(d Declaration, owner uint64) {
	key := d.Key()
	if e, ok := r.entries[key]; ok {
		e.owners[owner] = struct{}{}
		return
	}

	n := Node{ID: d.ID(), Declaration: d}
	if err := r.dom.Insert(n); err != nil {
		r.domError("insert", n, err)
	}
	r.seq++
	r.entries[key] = &entry{
		node:   n,
		owners: map[uint64]struct{}{owner: {}},
		seq:    r.seq,
	}
	r.observer.Inserted(n)
}

func (r *Registry) unregister(d Declaration, owner uint64) {
	key := d.Key()
	e, ok := r.entries[key]
	if !ok {
		return
	}
	if _, owned := e.owners[owner]; !owned {
		return
	}
	delete(e.owners, owner)
	if len(e.owners) > 0 {
		return
	}

	delete(r.entries, key)
	if err := r.dom.Remove(e.node.ID); err != nil {
		r.domError("remove", e.node, err)
	}
	r.observer.Removed(e.node)
}

func (r *Registry) replace(prev, next Declaration, owner uint64) {
	prevKey, nextKey := prev.Key(), next.Key()
	if prevKey == nextKey {
		r.register(next, owner)
		return
	}

	e, ok := r.entries[prevKey]
	_, taken := r.entries[nextKey]
	if ok && !taken && len(e.owners) == 1 {
		if _, owned := e.owners[owner]; owned {
			old := e.node
			updated := Node{ID: next.ID(), Declaration: next}
			if err := r.dom.Update(old, updated); err != nil {
				r.domError("update", updated, err)
			}
			delete(r.entries, prevKey)
			e.node = updated
			r.entries[nextKey] = e
			r.observer.Updated(old, updated)
			return
		}
	}

	r.unregister(prev, owner)
	r.register(next, owner)
}

func (r *Registry) domError(op string, n Node, err error) {
	r.logger.Warn("head: dom mutation failed",
		"op", op,
		"tag", n.Tag,
		"id", n.ID,
		"error", err,
	)
	r.observer.DOMError(op, err)
}

// Has reports whether decl is currently registered.
func (r *Registry) Has(decl Declaration) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.entries[decl.Key()]
	return ok
}

// Owners returns the owners of decl in ascending order.
func (r *Registry) Owners(decl Declaration) []uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[decl.Key()]
	if !ok {
		return nil
	}
	out := make([]uint64, 0, len(e.owners))
	for id := range e.owners {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Len returns the number of distinct registered declarations.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Entries returns the registered nodes in insertion order. A node updated
// in place keeps its original position.
func (r *Registry) Entries() []Node {
	r.mu.Lock()
	defer r.mu.Unlock()

	list := make([]*entry, 0, len(r.entries))
	for _, e := range r.entries {
		list = append(list, e)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].seq < list[j].seq })

	out := make([]Node, len(list))
	for i, e := range list {
		out[i] = e.node
	}
	return out
}

// Instance returns the adapter instance for owner, creating it on first
// use. The instance is unmounted when owner is cleaned up.
func (r *Registry) Instance(owner Owner) *Instance {
	id := owner.ID()

	r.mu.Lock()
	inst, ok := r.instances[id]
	if !ok {
		inst = &Instance{registry: r, owner: id}
		r.instances[id] = inst
	}
	r.mu.Unlock()

	if !ok {
		owner.OnCleanup(inst.Unmount)
	}
	return inst
}

// Instances returns the number of live adapter instances.
func (r *Registry) Instances() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.instances)
}
