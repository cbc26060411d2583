package gc

import "testing"

func TestScope_ReleaseOnNormalExit(t *testing.T) {
	h := New()
	var outer Object
	h.AddRoot(&outer)
	base := len(h.slots)

	scope := h.Scope()
	var a, b, c Object
	scope.Add(&a)
	scope.Add(&b)
	scope.Add(&c)
	if got := len(h.slots); got != base+3 {
		t.Fatalf("slot list during scope: got %d, want %d", got, base+3)
	}
	scope.Release()

	if got := len(h.slots); got != base {
		t.Errorf("slot list after release: got %d, want %d", got, base)
	}
}

func TestScope_ReleaseOnPanic(t *testing.T) {
	h := New()
	base := len(h.slots)

	func() {
		defer func() {
			if recover() == nil {
				t.Fatal("expected panic to propagate")
			}
		}()
		scope := h.Scope()
		defer scope.Release()
		var tmp Object
		scope.Add(&tmp)
		panic("frame unwinds")
	}()

	if got := len(h.slots); got != base {
		t.Errorf("slot list after panic: got %d, want %d", got, base)
	}
}

func TestScope_ReleaseOnEarlyReturn(t *testing.T) {
	h := New()

	work := func(bail bool) {
		scope := h.Scope()
		defer scope.Release()
		var tmp Object
		scope.Add(&tmp)
		if bail {
			return
		}
		var more Object
		scope.Add(&more)
	}

	work(true)
	if got := len(h.slots); got != 0 {
		t.Errorf("slot list after early return: got %d, want 0", got)
	}
	work(false)
	if got := len(h.slots); got != 0 {
		t.Errorf("slot list after full run: got %d, want 0", got)
	}
}

func TestScope_NestedReleaseOrder(t *testing.T) {
	h := New()

	outer := h.Scope()
	var a Object
	outer.Add(&a)

	inner := h.Scope()
	var b, c Object
	inner.Add(&b)
	inner.Add(&c)
	inner.Release()

	if got := len(h.slots); got != 1 {
		t.Fatalf("slot list after inner release: got %d, want 1", got)
	}
	if h.slots[0] != &a {
		t.Error("inner release dropped the outer scope's slot")
	}

	outer.Release()
	if got := len(h.slots); got != 0 {
		t.Errorf("slot list after outer release: got %d, want 0", got)
	}
}

func TestScope_ProtectsDuringCollection(t *testing.T) {
	h := New()

	scope := h.Scope()
	var tmp Object = newTestNode(h, 8)
	scope.Add(&tmp)

	h.Collect()
	if !h.Contains(tmp) {
		t.Fatal("scoped object collected while scope open")
	}

	scope.Release()
	h.Collect()
	if got := h.Stats().Live; got != 0 {
		t.Errorf("Live after release and collect: got %d, want 0", got)
	}
}

func TestScope_ReleaseAfterBrokenNesting(t *testing.T) {
	h := New()

	outer := h.Scope()
	var a Object
	outer.Add(&a)

	inner := h.Scope()
	var b Object
	inner.Add(&b)

	// Out-of-order release: the outer scope truncates below the inner
	// scope's recorded base. The late inner release must be a no-op.
	outer.Release()
	inner.Release()

	if got := len(h.slots); got != 0 {
		t.Errorf("slot list: got %d, want 0", got)
	}
}
