package gc

// WeakRef is a non-owning handle to a heap object. It does not keep its
// target alive: when a collection finds the target unreachable, the
// reference is cleared before the sweep and the optional finalizer runs
// once, after the sweep completes. Closing the heap clears all weak
// references without running finalizers.
type WeakRef struct {
	target    Object
	finalizer func()
}

// NewWeakRef registers a weak reference to target. The target must be an
// object admitted to this heap; a weak reference to anything else is
// cleared by the next collection. finalizer may be nil.
func (h *Heap) NewWeakRef(target Object, finalizer func()) *WeakRef {
	ref := &WeakRef{target: target, finalizer: finalizer}
	if target != nil {
		h.weak = append(h.weak, ref)
	}
	return ref
}

// Get returns the target, or nil once the target has been collected.
func (r *WeakRef) Get() Object {
	return r.target
}

// Alive reports whether the target has not been collected.
func (r *WeakRef) Alive() bool {
	return r.target != nil
}

// clearDeadWeakRefs runs between mark and sweep, while mark bits are
// still set: references to unmarked targets are cleared and dropped from
// tracking, and their finalizers are returned for the caller to run once
// the sweep is done.
func (h *Heap) clearDeadWeakRefs() []func() {
	var finalizers []func()
	kept := h.weak[:0]
	for _, ref := range h.weak {
		if ref.target == nil {
			continue
		}
		if ref.target.header().marked {
			kept = append(kept, ref)
			continue
		}
		ref.target = nil
		if ref.finalizer != nil {
			finalizers = append(finalizers, ref.finalizer)
			ref.finalizer = nil
		}
	}
	for i := len(kept); i < len(h.weak); i++ {
		h.weak[i] = nil
	}
	h.weak = kept
	return finalizers
}
