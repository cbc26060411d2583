package gc

// AddRoot registers the address of an object reference as a temporary
// root. The slot is not owned: its current value is re-read at every
// mark phase, and a slot holding nil is simply skipped. A nil slot
// pointer is ignored. The same location may be registered repeatedly;
// each registration is an independent entry.
func (h *Heap) AddRoot(slot *Object) {
	if slot == nil {
		return
	}
	h.slots = append(h.slots, slot)
}

// RemoveRoot erases the most recently added registration of slot,
// preserving any earlier registrations of the same location. Nested
// scopes rely on this ordering: an inner scope's registration of a
// location shadows, but must not erase, an outer scope's. Removing an
// unregistered slot is a no-op.
func (h *Heap) RemoveRoot(slot *Object) {
	for i := len(h.slots) - 1; i >= 0; i-- {
		if h.slots[i] == slot {
			copy(h.slots[i:], h.slots[i+1:])
			h.slots[len(h.slots)-1] = nil
			h.slots = h.slots[:len(h.slots)-1]
			return
		}
	}
}

// RegisterPersistent marks a long-lived container (typically a global
// environment) as permanently reachable. Registering nil or an already
// registered container is a no-op; the container set deduplicates on
// insert by identity.
func (h *Heap) RegisterPersistent(obj Object) {
	if obj == nil {
		return
	}
	for _, p := range h.persistent {
		if p == obj {
			return
		}
	}
	h.persistent = append(h.persistent, obj)
}

// UnregisterPersistent removes every registration of obj from the
// container set. At most one entry can exist through RegisterPersistent,
// but removal stays robust to duplicates. Unregistering an absent or nil
// container is a no-op.
func (h *Heap) UnregisterPersistent(obj Object) {
	if obj == nil {
		return
	}
	kept := h.persistent[:0]
	for _, p := range h.persistent {
		if p != obj {
			kept = append(kept, p)
		}
	}
	for i := len(kept); i < len(h.persistent); i++ {
		h.persistent[i] = nil
	}
	h.persistent = kept
}

// VisitRoots feeds every current root to m in marking order: root slot
// values first, then persistent containers, then registered root hooks.
// Collect drives its mark phase through this; diagnostic tools pass
// their own Marker to enumerate roots without disturbing mark bits.
func (h *Heap) VisitRoots(m Marker) {
	for _, slot := range h.slots {
		if v := *slot; v != nil {
			m.Mark(v)
		}
	}
	for _, obj := range h.persistent {
		m.Mark(obj)
	}
	for _, hook := range h.hooks {
		hook(m)
	}
}
