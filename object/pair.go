package object

import (
	"unsafe"

	"github.com/juncolang/junco/gc"
)

// Pair is the classic cons cell. Either field may be nil, another Pair,
// or any other heap object.
type Pair struct {
	gc.Header
	Car gc.Object
	Cdr gc.Object
}

// NewPair admits a cons cell holding car and cdr.
func NewPair(h *gc.Heap, car, cdr gc.Object) *Pair {
	p := &Pair{Car: car, Cdr: cdr}
	h.Admit(p, p.SizeBytes())
	return p
}

// NewList admits a cdr-linked list of items and returns its head, or nil
// for no items.
func NewList(h *gc.Heap, items ...gc.Object) gc.Object {
	var head gc.Object
	for i := len(items) - 1; i >= 0; i-- {
		head = NewPair(h, items[i], head)
	}
	return head
}

// TraceChildren marks both cells.
func (p *Pair) TraceChildren(m gc.Marker) {
	m.Mark(p.Car)
	m.Mark(p.Cdr)
}

// SizeBytes reports the cell struct.
func (p *Pair) SizeBytes() int { return int(unsafe.Sizeof(*p)) }

// Kind identifies the object in heap captures.
func (p *Pair) Kind() string { return "pair" }
