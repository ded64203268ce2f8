package head

import (
	"github.com/vango-dev/head/pkg/vango"
	"github.com/vango-dev/head/pkg/vdom"
)

// Owner is the lifecycle scope of the component that declares head content.
// *vango.Owner implements it.
type Owner interface {
	ID() uint64
	OnCleanup(fn func())
	GetValue(key any) any
}

var _ Owner = (*vango.Owner)(nil)

// Instance is the per-owner adapter. It remembers the declaration set of
// the previous render and reconciles the registry against each new one.
type Instance struct {
	registry  *Registry
	owner     uint64
	current   []Declaration
	unmounted bool
}

// Owner returns the owner ID the instance registers under.
func (i *Instance) Owner() uint64 {
	return i.owner
}

// Declarations returns the set registered by the last Update.
func (i *Instance) Declarations() []Declaration {
	r := i.registry
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Declaration, len(i.current))
	copy(out, i.current)
	return out
}

// Update reconciles the registry with decls, the full declaration set for
// this render. Removed and added declarations with the same tag are paired
// in order and replaced, so a changed entry is rewritten in place.
func (i *Instance) Update(decls []Declaration) {
	r := i.registry
	r.mu.Lock()
	defer r.mu.Unlock()

	if i.unmounted {
		return
	}

	next := dedupe(decls)
	removed, added := diffSets(i.current, next)

	pending := make(map[string][]int, len(added))
	for j, d := range added {
		pending[d.Tag] = append(pending[d.Tag], j)
	}
	paired := make([]bool, len(added))

	for _, prev := range removed {
		queue := pending[prev.Tag]
		if len(queue) == 0 {
			r.unregister(prev, i.owner)
			continue
		}
		j := queue[0]
		pending[prev.Tag] = queue[1:]
		paired[j] = true
		r.replace(prev, added[j], i.owner)
	}
	for j, d := range added {
		if !paired[j] {
			r.register(d, i.owner)
		}
	}

	i.current = next
}

// Unmount releases every declaration the instance owns. Later updates are
// ignored.
func (i *Instance) Unmount() {
	r := i.registry
	r.mu.Lock()
	defer r.mu.Unlock()

	if i.unmounted {
		return
	}
	for _, d := range i.current {
		r.unregister(d, i.owner)
	}
	i.current = nil
	i.unmounted = true
	delete(r.instances, i.owner)
}

// dedupe normalizes decls and drops repeated entries, keeping first
// occurrence order.
func dedupe(decls []Declaration) []Declaration {
	seen := make(map[string]struct{}, len(decls))
	out := make([]Declaration, 0, len(decls))
	for _, d := range decls {
		d = d.Normalize()
		if d.Tag == "" {
			continue
		}
		key := d.Key()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, d)
	}
	return out
}

// diffSets returns the entries of prev missing from next and the entries
// of next missing from prev, each in their original order.
func diffSets(prev, next []Declaration) (removed, added []Declaration) {
	prevKeys := make(map[string]struct{}, len(prev))
	for _, d := range prev {
		prevKeys[d.Key()] = struct{}{}
	}
	nextKeys := make(map[string]struct{}, len(next))
	for _, d := range next {
		key := d.Key()
		nextKeys[key] = struct{}{}
		if _, ok := prevKeys[key]; !ok {
			added = append(added, d)
		}
	}
	for _, d := range prev {
		if _, ok := nextKeys[d.Key()]; !ok {
			removed = append(removed, d)
		}
	}
	return removed, added
}

// Use declares children as the head content of the component owning o.
// Call it on every render. It is a no-op when no registry is provided on
// the owner chain.
func Use(o Owner, children ...*vdom.VNode) {
	r := FromOwner(o)
	if r == nil {
		return
	}
	decls := CollectFunc(func(node *vdom.VNode, reason string) {
		r.logger.Debug("head: ignoring child",
			"owner", o.ID(),
			"kind", node.Kind.String(),
			"tag", node.Tag,
			"reason", reason,
		)
	}, children...)
	r.Instance(o).Update(decls)
}

// Helmet returns a component that declares children into the head while it
// is mounted. It renders nothing into the body.
func Helmet(children ...any) vango.Component {
	frag := vdom.Fragment(children...)
	return vango.Func(func(o *vango.Owner) *vdom.VNode {
		Use(o, frag.Children...)
		return nil
	})
}
