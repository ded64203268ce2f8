// Package metrics exposes head registry activity as Prometheus metrics.
//
// A Metrics value implements head.Observer, so it can be handed straight to
// a registry:
//
//	m := metrics.New(metrics.WithRegistry(reg))
//	r := head.NewRegistry(dom, head.WithObserver(m))
//
// Metrics collected (with the default "vango" namespace):
//   - vango_head_inserts_total: nodes inserted, by tag
//   - vango_head_updates_total: nodes updated in place, by tag
//   - vango_head_removals_total: nodes removed, by tag
//   - vango_head_dom_errors_total: failed DOM mutations, by op
//   - vango_head_entries: nodes currently in the head
//   - vango_head_patches_sent_total: patches broadcast to clients
//   - vango_head_frames_sent_total: frames broadcast to clients
//   - vango_head_flush_duration_seconds: time spent flushing patches
//   - vango_head_clients: connected live clients
package metrics
