package vango

import "testing"

func TestNewOwner(t *testing.T) {
	root := NewOwner(nil)
	if root.Parent() != nil {
		t.Error("root owner should have no parent")
	}

	child := NewOwner(root)
	if child.Parent() != root {
		t.Error("child parent mismatch")
	}
	if child.ID() == root.ID() {
		t.Error("owners should have unique IDs")
	}
	if root.ChildCount() != 1 {
		t.Errorf("ChildCount = %d, want 1", root.ChildCount())
	}
}

func TestOwnerDisposeOrder(t *testing.T) {
	root := NewOwner(nil)
	a := NewOwner(root)
	b := NewOwner(root)

	var order []string
	root.OnCleanup(func() { order = append(order, "root-1") })
	root.OnCleanup(func() { order = append(order, "root-2") })
	a.OnCleanup(func() { order = append(order, "a") })
	b.OnCleanup(func() { order = append(order, "b") })

	root.Dispose()

	want := []string{"b", "a", "root-2", "root-1"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
	if !a.IsDisposed() || !b.IsDisposed() || !root.IsDisposed() {
		t.Error("all owners should be disposed")
	}
}

func TestOwnerDisposeIsIdempotent(t *testing.T) {
	o := NewOwner(nil)
	calls := 0
	o.OnCleanup(func() { calls++ })
	o.Dispose()
	o.Dispose()
	if calls != 1 {
		t.Errorf("cleanup calls = %d, want 1", calls)
	}
}

func TestOwnerCleanupAfterDisposeRunsImmediately(t *testing.T) {
	o := NewOwner(nil)
	o.Dispose()
	ran := false
	o.OnCleanup(func() { ran = true })
	if !ran {
		t.Error("cleanup registered after dispose should run immediately")
	}
}

func TestOwnerDisposeDetachesFromParent(t *testing.T) {
	root := NewOwner(nil)
	child := NewOwner(root)
	child.Dispose()
	if root.ChildCount() != 0 {
		t.Errorf("ChildCount = %d, want 0", root.ChildCount())
	}
}

func TestOwnerValues(t *testing.T) {
	type key struct{}
	root := NewOwner(nil)
	mid := NewOwner(root)
	leaf := NewOwner(mid)

	if leaf.GetValue(key{}) != nil {
		t.Error("missing value should be nil")
	}

	root.SetValue(key{}, "root")
	if got := leaf.GetValue(key{}); got != "root" {
		t.Errorf("GetValue = %v, want root", got)
	}

	mid.SetValue(key{}, "mid")
	if got := leaf.GetValue(key{}); got != "mid" {
		t.Errorf("GetValue = %v, want mid (nearest provider)", got)
	}
	if got := root.GetValue(key{}); got != "root" {
		t.Errorf("root GetValue = %v, want root", got)
	}
}
