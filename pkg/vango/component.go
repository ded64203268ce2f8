package vango

import (
	"fmt"

	"github.com/vango-dev/head/pkg/vdom"
)

// Component is the interface for renderable components.
// Render receives the component's own Owner so hooks can attach state and
// cleanups to it explicitly.
type Component interface {
	Render(o *Owner) *vdom.VNode
}

// Func wraps a render function as a Component.
type Func func(o *Owner) *vdom.VNode

// Render calls the wrapped function.
func (f Func) Render(o *Owner) *vdom.VNode {
	return f(o)
}

// Instance represents a mounted component.
type Instance struct {
	// InstanceID is the unique instance identifier.
	InstanceID string

	// Component is the component being rendered.
	Component Component

	// Owner scopes cleanups and context values for this instance.
	Owner *Owner

	// Parent is the parent instance (nil for top-level instances).
	Parent *Instance

	// Children are child instances.
	Children []*Instance

	lastTree *vdom.VNode
}

// Mount creates an Instance for component under parent.
// When parent is nil the instance's Owner is a child of root.
// Mount does not render; call Render for the first pass.
func Mount(component Component, parent *Instance, root *Owner) *Instance {
	parentOwner := root
	if parent != nil {
		parentOwner = parent.Owner
	}

	inst := &Instance{
		Component: component,
		Owner:     NewOwner(parentOwner),
		Parent:    parent,
	}
	inst.InstanceID = fmt.Sprintf("c%d", inst.Owner.ID())

	if parent != nil {
		parent.Children = append(parent.Children, inst)
	}
	return inst
}

// Render renders the component and returns the VNode tree.
// Rendering a disposed instance returns nil.
func (c *Instance) Render() *vdom.VNode {
	if c.Component == nil || c.Owner == nil || c.Owner.IsDisposed() {
		return nil
	}

	tree := c.Component.Render(c.Owner)
	c.lastTree = tree
	return tree
}

// LastTree returns the last rendered VNode tree.
func (c *Instance) LastTree() *vdom.VNode {
	return c.lastTree
}

// IsMounted reports whether the instance has not been disposed.
func (c *Instance) IsMounted() bool {
	return c.Owner != nil && !c.Owner.IsDisposed()
}

// RemoveChild removes a child instance.
func (c *Instance) RemoveChild(child *Instance) {
	for i, ch := range c.Children {
		if ch == child {
			c.Children = append(c.Children[:i], c.Children[i+1:]...)
			return
		}
	}
}

// Dispose unmounts the instance and all its children.
func (c *Instance) Dispose() {
	for i := len(c.Children) - 1; i >= 0; i-- {
		c.Children[i].Dispose()
	}
	c.Children = nil

	if c.Owner != nil {
		c.Owner.Dispose()
	}

	if c.Parent != nil {
		c.Parent.RemoveChild(c)
	}

	c.Component = nil
	c.lastTree = nil
}
