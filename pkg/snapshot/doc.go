// Package snapshot stores rendered head HTML so it can be served or
// inlined by other systems.
//
// Two backends are provided. FileStore writes under a local directory and
// S3Store uploads objects to a bucket:
//
//	store, err := snapshot.Open(ctx, cfg.Snapshot)
//	if err != nil {
//	    return err
//	}
//	err = store.Put(ctx, "blog/index.html", html)
//
// Keys are slash-separated relative paths. Keys that are empty, absolute,
// or contain ".." segments are rejected.
package snapshot
