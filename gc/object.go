package gc

// Object is the capability surface every heap-resident type presents to
// the collector. The collector never inspects concrete types: it reaches
// an object's children only through TraceChildren and charges statistics
// only through SizeBytes.
//
// Implementations embed Header, which supplies the unexported method of
// this interface, so only types carrying a Header can satisfy it. An
// object is admitted to exactly one heap, exactly once, by the
// constructor that builds it.
type Object interface {
	// TraceChildren calls m.Mark once per reference slot the object
	// holds. Passing a nil interface value is safe; passing a non-nil
	// interface wrapping a nil concrete pointer is not, so
	// implementations guard typed pointer fields.
	TraceChildren(m Marker)

	// SizeBytes reports the byte footprint charged to heap statistics.
	// It is re-read during sweep, so objects whose footprint changes
	// after admission are re-measured exactly.
	SizeBytes() int

	header() *Header
}

// Marker is the callback surface handed to TraceChildren. The collector
// implements it to mark; diagnostic tools implement it to record edges.
type Marker interface {
	Mark(obj Object)
}

// Header carries the collector's per-object state: the intrusive link in
// the heap's chain of live objects and the transient mark bit. The mark
// bit is false for every object except between mark-phase start and
// sweep completion of a single collection. The zero value is ready to
// embed.
type Header struct {
	next   Object
	marked bool
}

func (h *Header) header() *Header { return h }
