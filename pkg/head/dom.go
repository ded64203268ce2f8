package head

import (
	"errors"
	"sync"
)

var (
	// ErrNodeNotFound is returned when a mutation targets an unknown node.
	ErrNodeNotFound = errors.New("head: node not found")

	// ErrDuplicateNode is returned when inserting a node ID that already exists.
	ErrDuplicateNode = errors.New("head: duplicate node")
)

// DOM is the host's head-mutation API.
type DOM interface {
	// Insert appends n to the head.
	Insert(n Node) error

	// Update rewrites the node prev in place so it represents next.
	// next.ID may differ from prev.ID; the node keeps its position.
	Update(prev, next Node) error

	// Remove deletes the node with the given ID.
	Remove(id string) error
}

// Document is an in-memory document head. It keeps nodes in insertion
// order and is safe for concurrent use.
type Document struct {
	mu    sync.RWMutex
	nodes []Node
}

var _ DOM = (*Document)(nil)

// NewDocument creates an empty head.
func NewDocument() *Document {
	return &Document{}
}

func (d *Document) indexOf(id string) int {
	for i, n := range d.nodes {
		if n.ID == id {
			return i
		}
	}
	return -1
}

// Insert implements DOM.
func (d *Document) Insert(n Node) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.indexOf(n.ID) >= 0 {
		return ErrDuplicateNode
	}
	d.nodes = append(d.nodes, n)
	return nil
}

// Update implements DOM.
func (d *Document) Update(prev, next Node) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	i := d.indexOf(prev.ID)
	if i < 0 {
		return ErrNodeNotFound
	}
	if next.ID != prev.ID && d.indexOf(next.ID) >= 0 {
		return ErrDuplicateNode
	}
	d.nodes[i] = next
	return nil
}

// Remove implements DOM.
func (d *Document) Remove(id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	i := d.indexOf(id)
	if i < 0 {
		return ErrNodeNotFound
	}
	d.nodes = append(d.nodes[:i], d.nodes[i+1:]...)
	return nil
}

// Nodes returns a copy of the head in document order.
func (d *Document) Nodes() []Node {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]Node, len(d.nodes))
	copy(out, d.nodes)
	return out
}

// Len returns the number of nodes in the head.
func (d *Document) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.nodes)
}

// Find returns the node with the given ID.
func (d *Document) Find(id string) (Node, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if i := d.indexOf(id); i >= 0 {
		return d.nodes[i], true
	}
	return Node{}, false
}

// Tee returns a DOM that applies every mutation to each of doms in order.
// All backends see every mutation; their errors are joined.
func Tee(doms ...DOM) DOM {
	return tee(doms)
}

type tee []DOM

func (t tee) Insert(n Node) error {
	var errs []error
	for _, d := range t {
		if err := d.Insert(n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (t tee) Update(prev, next Node) error {
	var errs []error
	for _, d := range t {
		if err := d.Update(prev, next); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (t tee) Remove(id string) error {
	var errs []error
	for _, d := range t {
		if err := d.Remove(id); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
