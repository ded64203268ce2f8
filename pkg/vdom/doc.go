// Package vdom provides the virtual node types used to declare head content.
//
// VNode is the building block for elements, text, fragments, components and
// raw HTML. Elements are created with variadic factory functions that accept
// attributes, children and strings:
//
//	Fragment(
//	    Title(Text("Dashboard")),
//	    Meta(Name("description"), Content("Team overview")),
//	    Link(Rel("icon"), Href("/favicon.ico")),
//	)
//
// Patch describes a single DOM mutation. The head manager produces patches
// targeting managed head nodes by ID; the protocol package encodes them for
// the thin client.
package vdom
