package object

import (
	"fmt"
	"unsafe"

	"github.com/juncolang/junco/gc"
)

// NativeFunc is the signature host functions expose to Junco code. The
// function must not capture heap objects the host does not otherwise
// keep rooted: the collector cannot see through a Go closure.
type NativeFunc func(args []gc.Object) (gc.Object, error)

// Native binds a host Go function under a name.
type Native struct {
	gc.Header
	name string
	fn   NativeFunc
}

// NewNative admits a native function binding.
func NewNative(h *gc.Heap, name string, fn NativeFunc) *Native {
	n := &Native{name: name, fn: fn}
	h.Admit(n, n.SizeBytes())
	return n
}

// Name returns the name the function was bound under.
func (n *Native) Name() string { return n.name }

// Call invokes the host function.
func (n *Native) Call(args []gc.Object) (gc.Object, error) {
	if n.fn == nil {
		return nil, fmt.Errorf("native %q: no function", n.name)
	}
	return n.fn(args)
}

// TraceChildren is a no-op: the collector cannot trace into Go code.
func (n *Native) TraceChildren(gc.Marker) {}

// SizeBytes reports the struct plus the name's backing bytes.
func (n *Native) SizeBytes() int { return int(unsafe.Sizeof(*n)) + len(n.name) }

// Kind identifies the object in heap captures.
func (n *Native) Kind() string { return "native" }

// String implements fmt.Stringer.
func (n *Native) String() string { return "#<native " + n.name + ">" }
