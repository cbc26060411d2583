package gc

import (
	"time"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("junco.gc")

// Options tunes a heap's collection trigger. The zero value selects the
// defaults: a threshold floor of 256 objects and a growth factor of 2.
type Options struct {
	// ThresholdFloor is the minimum value the collection threshold can
	// take after a sweep. Zero means 256.
	ThresholdFloor int

	// GrowthFactor scales the post-sweep live count into the next
	// threshold. Zero means 2.
	GrowthFactor int
}

// DefaultThresholdFloor is the minimum collection threshold.
const DefaultThresholdFloor = 256

// DefaultGrowthFactor scales the live count into the next threshold.
const DefaultGrowthFactor = 2

func (o Options) withDefaults() Options {
	if o.ThresholdFloor <= 0 {
		o.ThresholdFloor = DefaultThresholdFloor
	}
	if o.GrowthFactor <= 0 {
		o.GrowthFactor = DefaultGrowthFactor
	}
	return o
}

// Stats is a read-only snapshot of heap accounting. It never
// participates in collection decisions.
type Stats struct {
	// TotalAllocated counts every object ever admitted. Monotonic,
	// survives Close.
	TotalAllocated uint64

	// Live is the object count as of the last completed sweep plus
	// admissions since.
	Live int

	// LiveBytes is the byte total currently charged to the heap.
	LiveBytes int

	// NextThreshold is the live count that must be exceeded before the
	// next collection is requested.
	NextThreshold int

	// Cycles counts completed collections.
	Cycles uint64
}

// CycleReport describes one completed collection cycle. It is handed to
// the observer installed with OnCollect.
type CycleReport struct {
	Seq        uint64
	Freed      int
	FreedBytes int
	Live       int
	LiveBytes  int
	Threshold  int
	Pause      time.Duration
}

// Heap owns every heap-allocated runtime object and decides when to
// reclaim unreachable ones. All methods must be called from the single
// goroutine the heap is confined to; see the package documentation.
type Heap struct {
	head Object // intrusive chain of all admitted objects

	slots      []*Object
	persistent []Object
	hooks      []func(Marker)
	weak       []*WeakRef

	total     uint64
	live      int
	liveBytes int
	threshold int
	requested bool
	cycles    uint64

	marker    gcMarker
	onCollect func(CycleReport)
	opts      Options
}

// New returns an empty heap with default options.
func New() *Heap {
	return NewWith(Options{})
}

// NewWith returns an empty heap tuned by opts.
func NewWith(opts Options) *Heap {
	opts = opts.withDefaults()
	return &Heap{
		threshold: opts.ThresholdFloor,
		opts:      opts,
	}
}

// Admit links a freshly constructed object at the head of the live chain
// and charges size bytes to statistics. When the live count exceeds the
// current threshold the collection-requested flag is set; collection
// itself never runs inside Admit. A nil object is ignored.
func (h *Heap) Admit(obj Object, size int) {
	if obj == nil {
		return
	}
	hdr := obj.header()
	hdr.next = h.head
	h.head = obj
	h.total++
	h.live++
	h.liveBytes += size
	if h.live > h.threshold {
		h.requested = true
	}
}

// Contains reports whether obj is currently linked in the heap. It walks
// the live chain and is intended for diagnostics and tests.
func (h *Heap) Contains(obj Object) bool {
	if obj == nil {
		return false
	}
	for o := h.head; o != nil; o = o.header().next {
		if o == obj {
			return true
		}
	}
	return false
}

// ForEach walks every object in the live chain, newest first, until fn
// returns false.
func (h *Heap) ForEach(fn func(Object) bool) {
	for o := h.head; o != nil; o = o.header().next {
		if !fn(o) {
			return
		}
	}
}

// RequestCollection unconditionally sets the collection-requested flag.
func (h *Heap) RequestCollection() {
	h.requested = true
}

// CollectionRequested reports whether a collection is pending.
func (h *Heap) CollectionRequested() bool {
	return h.requested
}

// MaybeCollect runs a full collection if one has been requested and
// reports whether it ran. This is the cooperative checkpoint hosts call
// between units of work.
func (h *Heap) MaybeCollect() bool {
	if !h.requested {
		return false
	}
	h.Collect()
	return true
}

// AddRootHook registers a function invoked during every collection's
// mark phase, after root slots and root containers. The symbol table
// uses this to mark the objects it owns. Hooks cannot be removed.
func (h *Heap) AddRootHook(hook func(Marker)) {
	if hook == nil {
		return
	}
	h.hooks = append(h.hooks, hook)
}

// OnCollect installs an observer called with a report after every
// completed collection. A nil fn removes the observer.
func (h *Heap) OnCollect(fn func(CycleReport)) {
	h.onCollect = fn
}

// Stats returns a snapshot of heap accounting.
func (h *Heap) Stats() Stats {
	return Stats{
		TotalAllocated: h.total,
		Live:           h.live,
		LiveBytes:      h.liveBytes,
		NextThreshold:  h.threshold,
		Cycles:         h.cycles,
	}
}

// Close unlinks and drops every remaining object in chain order without
// marking, clears all weak references without running their finalizers,
// and empties the root registries. Accounting resets except for the
// monotonic total. The heap remains usable afterwards, though a closed
// heap is normally discarded.
func (h *Heap) Close() {
	dropped := 0
	for o := h.head; o != nil; {
		next := o.header().next
		o.header().next = nil
		o = next
		dropped++
	}
	h.head = nil
	for _, ref := range h.weak {
		ref.target = nil
		ref.finalizer = nil
	}
	h.weak = nil
	h.slots = nil
	h.persistent = nil
	h.hooks = nil
	h.live = 0
	h.liveBytes = 0
	h.requested = false
	h.threshold = h.opts.ThresholdFloor
	if dropped > 0 {
		log.Debugf("close: dropped %d objects", dropped)
	}
}
