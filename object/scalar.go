package object

import (
	"strconv"
	"unsafe"

	"github.com/juncolang/junco/gc"
)

// Number is a float64 value. Junco numbers are immutable once admitted.
type Number struct {
	gc.Header
	Value float64
}

// NewNumber admits a number.
func NewNumber(h *gc.Heap, value float64) *Number {
	n := &Number{Value: value}
	h.Admit(n, n.SizeBytes())
	return n
}

// TraceChildren is a no-op: numbers hold no references.
func (n *Number) TraceChildren(gc.Marker) {}

// SizeBytes reports the struct.
func (n *Number) SizeBytes() int { return int(unsafe.Sizeof(*n)) }

// Kind identifies the object in heap captures.
func (n *Number) Kind() string { return "number" }

// String implements fmt.Stringer.
func (n *Number) String() string {
	return strconv.FormatFloat(n.Value, 'g', -1, 64)
}

// String is an immutable text value.
type String struct {
	gc.Header
	Value string
}

// NewString admits a string.
func NewString(h *gc.Heap, value string) *String {
	s := &String{Value: value}
	h.Admit(s, s.SizeBytes())
	return s
}

// TraceChildren is a no-op: strings hold no references.
func (s *String) TraceChildren(gc.Marker) {}

// SizeBytes reports the struct plus the text's backing bytes.
func (s *String) SizeBytes() int { return int(unsafe.Sizeof(*s)) + len(s.Value) }

// Kind identifies the object in heap captures.
func (s *String) Kind() string { return "string" }

// String implements fmt.Stringer.
func (s *String) String() string { return s.Value }
