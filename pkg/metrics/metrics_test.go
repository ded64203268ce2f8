package metrics

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/vango-dev/head/pkg/head"
)

func newTestMetrics(t *testing.T) (*Metrics, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	return New(WithRegistry(reg)), reg
}

func TestObserverCounters(t *testing.T) {
	m, _ := newTestMetrics(t)

	title := head.Node{ID: "t", Declaration: head.Declare("title", nil, "A")}
	meta := head.Node{ID: "m", Declaration: head.Declare("meta", map[string]string{"charset": "utf-8"})}

	m.Inserted(title)
	m.Inserted(meta)
	m.Updated(title, head.Node{ID: "t2", Declaration: head.Declare("title", nil, "B")})
	m.Removed(meta)
	m.DOMError("insert", errors.New("boom"))

	if got := testutil.ToFloat64(m.inserts.WithLabelValues("title")); got != 1 {
		t.Errorf("inserts_total(title) = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.inserts.WithLabelValues("meta")); got != 1 {
		t.Errorf("inserts_total(meta) = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.updates.WithLabelValues("title")); got != 1 {
		t.Errorf("updates_total(title) = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.removals.WithLabelValues("meta")); got != 1 {
		t.Errorf("removals_total(meta) = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.domErrors.WithLabelValues("insert")); got != 1 {
		t.Errorf("dom_errors_total(insert) = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.entries); got != 1 {
		t.Errorf("entries = %v, want 1", got)
	}
}

func TestObserverWithRegistry(t *testing.T) {
	m, reg := newTestMetrics(t)
	r := head.NewRegistry(nil, head.WithObserver(m))

	title := head.Declare("title", nil, "Home")
	r.Register(title, 1)
	r.Register(title, 2)
	r.Replace(title, head.Declare("title", nil, "About"), 1)

	if got := testutil.ToFloat64(m.entries); got != 2 {
		t.Errorf("entries = %v, want 2", got)
	}

	expected := `
# HELP vango_head_inserts_total Total number of head nodes inserted
# TYPE vango_head_inserts_total counter
vango_head_inserts_total{tag="title"} 2
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "vango_head_inserts_total"); err != nil {
		t.Error(err)
	}
}

func TestRecordFlush(t *testing.T) {
	m, reg := newTestMetrics(t)

	m.RecordFlush(3, 1, 2*time.Millisecond)
	m.RecordFlush(0, 0, time.Millisecond)
	m.RecordFlush(10_001, 2, time.Millisecond)

	if got := testutil.ToFloat64(m.patchesSent); got != 10_004 {
		t.Errorf("patches_sent_total = %v, want 10004", got)
	}
	if got := testutil.ToFloat64(m.framesSent); got != 3 {
		t.Errorf("frames_sent_total = %v, want 3", got)
	}
	if n, err := testutil.GatherAndCount(reg, "vango_head_flush_duration_seconds"); err != nil || n != 1 {
		t.Errorf("flush_duration_seconds series = %d, %v; want 1", n, err)
	}
}

func TestSetClients(t *testing.T) {
	m, _ := newTestMetrics(t)
	m.SetClients(4)
	m.SetClients(2)
	if got := testutil.ToFloat64(m.clients); got != 2 {
		t.Errorf("clients = %v, want 2", got)
	}
}

func TestOptions(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(
		WithRegistry(reg),
		WithNamespace("site"),
		WithSubsystem("meta"),
		WithConstLabels(prometheus.Labels{"env": "test"}),
		WithBuckets([]float64{0.1, 1}),
	)
	m.SetClients(1)

	expected := `
# HELP site_meta_clients Number of connected live head clients
# TYPE site_meta_clients gauge
site_meta_clients{env="test"} 1
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "site_meta_clients"); err != nil {
		t.Error(err)
	}
}
