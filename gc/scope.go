package gc

// RootScope protects temporary references for the duration of one host
// call frame. It records the root-slot list length at construction;
// Release truncates the list back to that length in one step, so every
// slot added through the scope is dropped no matter how the frame exits:
//
//	scope := h.Scope()
//	defer scope.Release()
//	var tmp gc.Object = object.NewPair(h, car, cdr)
//	scope.Add(&tmp)
//
// Scopes must nest strictly. A scope's add/release window may not
// outlive or interleave with another's; the scope does not validate
// this discipline.
type RootScope struct {
	h    *Heap
	base int
}

// Scope opens a root scope at the current root-slot list length.
func (h *Heap) Scope() RootScope {
	return RootScope{h: h, base: len(h.slots)}
}

// Add registers a slot exactly as Heap.AddRoot would.
func (s RootScope) Add(slot *Object) {
	s.h.AddRoot(slot)
}

// Release truncates the root-slot list back to the length recorded when
// the scope was opened. Releasing a scope whose heap has fewer slots
// than recorded (broken nesting) is a no-op.
func (s RootScope) Release() {
	if s.h == nil || s.base > len(s.h.slots) {
		return
	}
	for i := s.base; i < len(s.h.slots); i++ {
		s.h.slots[i] = nil
	}
	s.h.slots = s.h.slots[:s.base]
}
