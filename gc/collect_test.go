package gc

import "testing"

// ---------------------------------------------------------------------------
// Reclamation and reachability
// ---------------------------------------------------------------------------

func TestCollect_ReclaimsAllUnreachable(t *testing.T) {
	h := New()
	for i := 0; i < 300; i++ {
		newTestNode(h, 8)
	}
	if !h.CollectionRequested() {
		t.Fatal("300 admissions did not exceed the floor threshold")
	}

	if !h.MaybeCollect() {
		t.Fatal("MaybeCollect did not run")
	}

	stats := h.Stats()
	if stats.Live != 0 {
		t.Errorf("Live: got %d, want 0", stats.Live)
	}
	if stats.LiveBytes != 0 {
		t.Errorf("LiveBytes: got %d, want 0", stats.LiveBytes)
	}
	if stats.NextThreshold != 256 {
		t.Errorf("NextThreshold: got %d, want the 256 floor", stats.NextThreshold)
	}
	if stats.TotalAllocated != 300 {
		t.Errorf("TotalAllocated: got %d, want 300", stats.TotalAllocated)
	}
}

func TestCollect_TransitiveReachability(t *testing.T) {
	h := New()
	c := newTestNode(h, 8)
	b := newTestNode(h, 8, c)
	a := newTestNode(h, 8, b)
	var root Object = a
	h.AddRoot(&root)

	h.Collect()

	for _, obj := range []Object{a, b, c} {
		if !h.Contains(obj) {
			t.Errorf("reachable object %p was collected", obj)
		}
	}

	h.RemoveRoot(&root)
	h.Collect()
	if got := h.Stats().Live; got != 0 {
		t.Errorf("Live after dropping root: got %d, want 0", got)
	}
}

func TestCollect_SharedSubgraphCountedOnce(t *testing.T) {
	h := New()
	d := newTestNode(h, 100)
	b := newTestNode(h, 10, d)
	c := newTestNode(h, 10, d)
	a := newTestNode(h, 10, b, c)
	var root Object = a
	h.AddRoot(&root)

	h.Collect()

	stats := h.Stats()
	if stats.Live != 4 {
		t.Errorf("Live: got %d, want 4", stats.Live)
	}
	if stats.LiveBytes != 130 {
		t.Errorf("LiveBytes: got %d, want 130 (shared child must be charged once)", stats.LiveBytes)
	}
}

func TestCollect_CyclicGraphTerminates(t *testing.T) {
	h := New()
	a := newTestNode(h, 8)
	b := newTestNode(h, 8, a)
	a.refs = append(a.refs, b)
	var root Object = a
	h.AddRoot(&root)

	h.Collect()
	if got := h.Stats().Live; got != 2 {
		t.Fatalf("Live with rooted cycle: got %d, want 2", got)
	}

	h.RemoveRoot(&root)
	h.Collect()
	if got := h.Stats().Live; got != 0 {
		t.Errorf("Live after unrooting cycle: got %d, want 0 (cycles are not self-keeping)", got)
	}
}

func TestCollect_NilChildSlotsSkipped(t *testing.T) {
	h := New()
	a := newTestNode(h, 8, nil, nil)
	var root Object = a
	h.AddRoot(&root)

	h.Collect()
	if !h.Contains(a) {
		t.Error("object with nil reference slots was collected")
	}
}

func TestCollect_MarkBitsClearAfterwards(t *testing.T) {
	h := New()
	b := newTestNode(h, 8)
	a := newTestNode(h, 8, b)
	var root Object = a
	h.AddRoot(&root)

	h.Collect()

	h.ForEach(func(o Object) bool {
		if o.header().marked {
			t.Errorf("mark bit still set on %p after collection", o)
		}
		return true
	})
}

func TestCollect_RootHookMarks(t *testing.T) {
	h := New()
	owned := newTestNode(h, 8)
	newTestNode(h, 8) // garbage

	h.AddRootHook(func(m Marker) {
		m.Mark(owned)
	})

	h.Collect()

	if !h.Contains(owned) {
		t.Error("hook-marked object was collected")
	}
	if got := h.Stats().Live; got != 1 {
		t.Errorf("Live: got %d, want 1", got)
	}
}

// ---------------------------------------------------------------------------
// Accounting after sweep
// ---------------------------------------------------------------------------

func TestCollect_RecomputesBytesFromSurvivors(t *testing.T) {
	h := New()
	newTestNode(h, 10)
	keep := newTestNode(h, 20)
	newTestNode(h, 30)
	var root Object = keep
	h.AddRoot(&root)

	// The survivor grows between admission and sweep; the sweep must
	// re-measure it rather than carry the admitted size.
	keep.size = 25

	h.Collect()

	stats := h.Stats()
	if stats.Live != 1 {
		t.Errorf("Live: got %d, want 1", stats.Live)
	}
	if stats.LiveBytes != 25 {
		t.Errorf("LiveBytes: got %d, want 25", stats.LiveBytes)
	}
}

func TestCollect_ThresholdScalesWithLiveCount(t *testing.T) {
	// A floor of 1 exposes the bare doubling policy: 11 survivors give
	// a threshold of 22.
	h := NewWith(Options{ThresholdFloor: 1})
	container := newTestNode(h, 8)
	for i := 0; i < 10; i++ {
		container.refs = append(container.refs, newTestNode(h, 8))
	}
	h.RegisterPersistent(container)

	h.Collect()

	stats := h.Stats()
	if stats.Live != 11 {
		t.Fatalf("Live: got %d, want 11", stats.Live)
	}
	if stats.NextThreshold != 22 {
		t.Errorf("NextThreshold: got %d, want 22", stats.NextThreshold)
	}
}

func TestCollect_ThresholdHonorsFloor(t *testing.T) {
	h := New()
	container := newTestNode(h, 8)
	for i := 0; i < 10; i++ {
		container.refs = append(container.refs, newTestNode(h, 8))
	}
	h.RegisterPersistent(container)

	h.Collect()

	stats := h.Stats()
	if stats.Live != 11 {
		t.Fatalf("Live: got %d, want 11", stats.Live)
	}
	if stats.NextThreshold < DefaultThresholdFloor {
		t.Errorf("NextThreshold: got %d, want >= %d", stats.NextThreshold, DefaultThresholdFloor)
	}
	if stats.NextThreshold < 2*stats.Live {
		t.Errorf("NextThreshold: got %d, want >= %d (twice the live count)", stats.NextThreshold, 2*stats.Live)
	}
}

func TestCollect_ThresholdDoublesForLargeLiveSets(t *testing.T) {
	h := New()
	container := newTestNode(h, 8)
	for i := 0; i < 299; i++ {
		container.refs = append(container.refs, newTestNode(h, 8))
	}
	h.RegisterPersistent(container)

	h.Collect()

	if got := h.Stats().NextThreshold; got != 600 {
		t.Errorf("NextThreshold: got %d, want 600 (2 x 300 live)", got)
	}
}

func TestCollect_OnCollectReport(t *testing.T) {
	h := New()
	keep := newTestNode(h, 16)
	newTestNode(h, 8)
	newTestNode(h, 8)
	var root Object = keep
	h.AddRoot(&root)

	var got CycleReport
	h.OnCollect(func(r CycleReport) { got = r })

	h.Collect()

	if got.Seq != 1 {
		t.Errorf("Seq: got %d, want 1", got.Seq)
	}
	if got.Freed != 2 {
		t.Errorf("Freed: got %d, want 2", got.Freed)
	}
	if got.FreedBytes != 16 {
		t.Errorf("FreedBytes: got %d, want 16", got.FreedBytes)
	}
	if got.Live != 1 || got.LiveBytes != 16 {
		t.Errorf("Live/LiveBytes: got %d/%d, want 1/16", got.Live, got.LiveBytes)
	}

	h.Collect()
	if got.Seq != 2 {
		t.Errorf("Seq after second collection: got %d, want 2", got.Seq)
	}
}
