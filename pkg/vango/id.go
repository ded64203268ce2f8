package vango

import "sync/atomic"

var idCounter atomic.Uint64

// nextID returns a process-wide unique, monotonically increasing ID.
func nextID() uint64 {
	return idCounter.Add(1)
}
