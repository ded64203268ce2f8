// Package head synchronizes document <head> content declared by components.
//
// Components declare head elements (title, meta, link, style, script, base,
// noscript) while they render. Each declaration is registered in a Registry
// under the owner that declared it. Structurally identical declarations from
// different owners collapse to a single DOM node, and that node is removed
// exactly when its last owner unregisters it or is disposed.
//
// # Declaring head content
//
// The registry is provided once on a root owner and found by descendants
// through the owner chain:
//
//	reg := head.NewRegistry(head.NewDocument())
//	root := vango.NewOwner(nil)
//	head.Provide(root, reg)
//
//	page := vango.Func(func(o *vango.Owner) *vdom.VNode {
//	    head.Use(o,
//	        vdom.Title(vdom.Text("Dashboard")),
//	        vdom.Link(vdom.Rel("icon"), vdom.Href("/favicon.ico")),
//	    )
//	    return vdom.Div(vdom.Text("..."))
//	})
//
// Use must be called on every render with the full set the component wants;
// entries missing from a later render are released. When the owner is
// disposed, everything it declared is released.
//
// # DOM backends
//
// The registry applies its delta through the DOM interface. Document keeps
// an in-memory head for server-side rendering, PatchRecorder turns mutations
// into vdom patches for a connected client, and Tee fans out to both.
package head
