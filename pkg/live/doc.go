// Package live keeps a browser's head in sync with a server-side head
// registry.
//
// A Document owns the registry, an in-memory head and a patch recorder.
// Components mounted on the Document declare head content through
// head.Use or head.Helmet; Flush encodes the recorded mutations as one
// protocol frame and hands it to a Broadcaster, normally a Hub.
//
//	doc := live.NewDocument(live.WithLogger(logger))
//	hub := live.NewHub(doc, logger)
//
//	doc.Mount(layout)
//	doc.Flush(ctx, hub)
//
//	http.ListenAndServe(":3000", live.NewRouter(doc, hub, live.RouterConfig{}))
//
// New websocket clients receive a FrameSnapshot of the whole managed head
// and FrameHead deltas after every flush. Either may span several frames
// when it holds more than protocol.MaxPatches patches. Patch IDs are content hashes, so
// a delta that was already folded into a client's snapshot is harmless to
// apply again.
package live
