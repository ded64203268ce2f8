package head

import (
	"sync"

	"github.com/vango-dev/head/pkg/vdom"
)

// HeadParentID is the parent ID used for nodes inserted into the head.
const HeadParentID = "head"

// PatchRecorder is a DOM that records mutations as vdom patches for a
// remote client to apply.
type PatchRecorder struct {
	mu      sync.Mutex
	patches []vdom.Patch
}

var _ DOM = (*PatchRecorder)(nil)

// NewPatchRecorder creates an empty recorder.
func NewPatchRecorder() *PatchRecorder {
	return &PatchRecorder{}
}

// Insert implements DOM.
func (r *PatchRecorder) Insert(n Node) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.patches = append(r.patches, InsertPatch(n))
	return nil
}

// Update implements DOM. It emits attribute and text patches against
// prev.ID, then re-keys the node when the ID changes.
func (r *PatchRecorder) Update(prev, next Node) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	target := prev.ID
	nextAttrs := make(map[string]string, len(next.Attrs))
	for _, a := range next.Attrs {
		nextAttrs[a.Name] = a.Value
	}

	for _, a := range prev.Attrs {
		if _, ok := nextAttrs[a.Name]; !ok {
			r.patches = append(r.patches, vdom.Patch{Op: vdom.PatchRemoveAttr, HID: target, Key: a.Name})
		}
	}
	for _, a := range next.Attrs {
		if old, ok := prev.Attr(a.Name); ok && old == a.Value {
			continue
		}
		r.patches = append(r.patches, vdom.Patch{Op: vdom.PatchSetAttr, HID: target, Key: a.Name, Value: a.Value})
	}
	if prev.HasContent != next.HasContent || prev.Content != next.Content {
		r.patches = append(r.patches, vdom.Patch{Op: vdom.PatchSetText, HID: target, Value: next.Content})
	}
	if next.ID != prev.ID {
		r.patches = append(r.patches, vdom.Patch{Op: vdom.PatchSetAttr, HID: target, Key: IDAttr, Value: next.ID})
	}
	return nil
}

// Remove implements DOM.
func (r *PatchRecorder) Remove(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.patches = append(r.patches, vdom.Patch{Op: vdom.PatchRemoveNode, HID: id})
	return nil
}

// Len returns the number of pending patches.
func (r *PatchRecorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.patches)
}

// Drain returns the pending patches and clears the recorder.
func (r *PatchRecorder) Drain() []vdom.Patch {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := r.patches
	r.patches = nil
	return out
}

// InsertPatch returns the patch that appends n to the head.
func InsertPatch(n Node) vdom.Patch {
	return vdom.Patch{
		Op:       vdom.PatchInsertNode,
		HID:      n.ID,
		ParentID: HeadParentID,
		Index:    -1,
		Node:     n.VNode(),
	}
}
