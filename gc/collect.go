package gc

import "time"

// gcMarker is the collector's Marker. Marking is iterative: Mark sets
// the bit and pushes; the drain loop pops and traces, so arbitrarily
// deep object graphs cannot overflow the goroutine stack. The work stack
// is retained across cycles.
type gcMarker struct {
	stack []Object
}

// Mark records obj as reachable. A nil reference or an already-marked
// object is a no-op; the latter terminates cycles and keeps shared
// subgraphs from being traced twice.
func (m *gcMarker) Mark(obj Object) {
	if obj == nil {
		return
	}
	hdr := obj.header()
	if hdr.marked {
		return
	}
	hdr.marked = true
	m.stack = append(m.stack, obj)
}

func (m *gcMarker) drain() {
	for len(m.stack) > 0 {
		obj := m.stack[len(m.stack)-1]
		m.stack = m.stack[:len(m.stack)-1]
		obj.TraceChildren(m)
	}
}

// Collect runs one full mark-and-sweep cycle: it marks everything
// reachable from root slots, persistent containers, and root hooks,
// clears weak references whose targets did not survive, unlinks the
// unmarked, and recomputes live and byte totals exactly from the
// survivors. The next threshold becomes
// max(ThresholdFloor, GrowthFactor × live) and the requested flag
// clears. Weak-reference finalizers run last, after the sweep.
func (h *Heap) Collect() {
	start := time.Now()
	before := h.live
	beforeBytes := h.liveBytes

	h.VisitRoots(&h.marker)
	h.marker.drain()

	finalizers := h.clearDeadWeakRefs()
	live, liveBytes := h.sweep()

	h.live = live
	h.liveBytes = liveBytes
	h.requested = false
	h.threshold = h.nextThreshold(live)
	h.cycles++

	for _, fn := range finalizers {
		fn()
	}

	report := CycleReport{
		Seq:        h.cycles,
		Freed:      before - live,
		FreedBytes: beforeBytes - liveBytes,
		Live:       live,
		LiveBytes:  liveBytes,
		Threshold:  h.threshold,
		Pause:      time.Since(start),
	}
	log.Debugf("collect %d: freed %d objects (%d bytes), %d live, next threshold %d",
		report.Seq, report.Freed, report.FreedBytes, report.Live, report.Threshold)
	if h.onCollect != nil {
		h.onCollect(report)
	}
}

// sweep makes a single pass over the live chain: unmarked objects are
// unlinked and dropped, marked objects have their bit cleared and are
// re-counted and re-measured.
func (h *Heap) sweep() (live, liveBytes int) {
	var prev Object
	for obj := h.head; obj != nil; {
		hdr := obj.header()
		next := hdr.next
		if hdr.marked {
			hdr.marked = false
			live++
			liveBytes += obj.SizeBytes()
			prev = obj
		} else {
			if prev == nil {
				h.head = next
			} else {
				prev.header().next = next
			}
			hdr.next = nil
		}
		obj = next
	}
	return live, liveBytes
}

func (h *Heap) nextThreshold(live int) int {
	t := live * h.opts.GrowthFactor
	if t < h.opts.ThresholdFloor {
		t = h.opts.ThresholdFloor
	}
	return t
}
