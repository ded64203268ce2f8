// Package vtest provides testing helpers for components that declare head
// content.
//
// A Tree mounts components under an owner that provides a fresh registry
// over an in-memory head, so tests can assert on the resulting head
// without a live connection.
//
// # Quick Start
//
//	func TestPostPage(t *testing.T) {
//	    tree := vtest.NewTree(t)
//	    tree.Mount(Layout(), PostPage(post))
//	    tree.ExpectTitle(t, "Hello | Blog")
//	    tree.ExpectCount(t, "meta", 2)
//	}
//
// # Lifecycle
//
// Mount returns the mounted instance so tests can re-render or dispose
// it and observe how the head follows:
//
//	inst := tree.Mount(Banner())[0]
//	inst.Dispose()
//	tree.ExpectNotContains(t, "banner.css")
//
// # Render Assertions
//
// Assertions render the head with pkg/render and match on the HTML:
//
//	tree.ExpectContains(t, `rel="canonical"`)
//	tree.ExpectAttribute(t, "name", "robots")
package vtest
