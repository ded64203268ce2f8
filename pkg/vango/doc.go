// Package vango provides the component lifecycle that head declarations hang off.
//
// An Owner is the scope of a mounted component. Owners form a tree that
// mirrors the component tree; disposing an Owner disposes its children first
// and then runs its cleanups in reverse registration order. Owners also carry
// context values that descendants can look up, which is how shared services
// such as the head registry are threaded through a render without globals.
//
// Instance mounts a Component under a parent, renders it with its own Owner
// and disposes it on unmount:
//
//	root := vango.NewOwner(nil)
//	page := vango.Mount(vango.Func(func(o *vango.Owner) *vdom.VNode {
//	    return vdom.Div(vdom.Text("hello"))
//	}), nil, root)
//	page.Render()
//	page.Dispose()
package vango
