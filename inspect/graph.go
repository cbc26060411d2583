// Package inspect captures the reachable object graph of a heap and
// answers the questions a leak hunt asks of it: what dominates what,
// how many bytes each object retains, and which reference paths keep an
// object alive. Captured graphs serialize to a canonical CBOR snapshot
// for offline analysis.
package inspect

import (
	"fmt"

	"github.com/juncolang/junco/gc"
)

// ObjID identifies an object within one captured graph. IDs are dense:
// a graph with n nodes uses exactly 1..n, and 0 is reserved for the
// virtual root that precedes all registered roots.
type ObjID uint32

// Node is one captured object.
type Node struct {
	ID    ObjID   `cbor:"1,keyasint"`
	Kind  string  `cbor:"2,keyasint"`
	Size  int     `cbor:"3,keyasint"`
	Refs  []ObjID `cbor:"4,keyasint,omitempty"` // outgoing references, in trace order
	Label string  `cbor:"5,keyasint,omitempty"` // short printed form, if the object has one
}

// Graph is a point-in-time picture of everything reachable from a
// heap's roots. Node i of Nodes carries ID i+1.
type Graph struct {
	Nodes          []Node  `cbor:"1,keyasint"`
	Roots          []ObjID `cbor:"2,keyasint"`
	TotalAllocated uint64  `cbor:"3,keyasint"`
	Unreachable    int     `cbor:"4,keyasint"` // objects in the heap but not reachable from any root
}

// Kinder lets object types name themselves in captures. Objects without
// it appear as "object".
type Kinder interface {
	Kind() string
}

const maxLabel = 64

// Capture walks the heap's roots and everything reachable from them,
// assigning dense IDs in discovery order. It reads the heap without
// touching mark bits, so it can run between collections; like every
// heap operation it must run on the heap's goroutine.
func Capture(h *gc.Heap) *Graph {
	g := &Graph{}
	c := &capturer{
		g:      g,
		ids:    make(map[gc.Object]ObjID),
		isRoot: make(map[ObjID]bool),
		cur:    -1,
	}

	h.VisitRoots(c)
	for len(c.stack) > 0 {
		obj := c.stack[len(c.stack)-1]
		c.stack = c.stack[:len(c.stack)-1]
		c.cur = int(c.ids[obj]) - 1
		obj.TraceChildren(c)
	}

	g.TotalAllocated = h.Stats().TotalAllocated
	inChain := 0
	h.ForEach(func(gc.Object) bool {
		inChain++
		return true
	})
	g.Unreachable = inChain - len(g.Nodes)
	return g
}

// capturer implements gc.Marker: instead of setting mark bits it
// records nodes and edges. cur is the index of the node whose children
// are being traced, or -1 while roots are being visited.
type capturer struct {
	g      *Graph
	ids    map[gc.Object]ObjID
	isRoot map[ObjID]bool
	stack  []gc.Object
	cur    int
}

func (c *capturer) Mark(obj gc.Object) {
	if obj == nil {
		return
	}
	id, ok := c.ids[obj]
	if !ok {
		id = ObjID(len(c.g.Nodes) + 1)
		c.ids[obj] = id
		c.g.Nodes = append(c.g.Nodes, Node{
			ID:    id,
			Kind:  kindOf(obj),
			Size:  obj.SizeBytes(),
			Label: labelOf(obj),
		})
		c.stack = append(c.stack, obj)
	}
	if c.cur < 0 {
		if !c.isRoot[id] {
			c.isRoot[id] = true
			c.g.Roots = append(c.g.Roots, id)
		}
		return
	}
	c.g.Nodes[c.cur].Refs = append(c.g.Nodes[c.cur].Refs, id)
}

func kindOf(obj gc.Object) string {
	if k, ok := obj.(Kinder); ok {
		return k.Kind()
	}
	return "object"
}

func labelOf(obj gc.Object) string {
	s, ok := obj.(fmt.Stringer)
	if !ok {
		return ""
	}
	label := s.String()
	if len(label) > maxLabel {
		label = label[:maxLabel]
	}
	return label
}

// Len returns the number of captured objects.
func (g *Graph) Len() int { return len(g.Nodes) }

// validate checks the ID scheme decoded snapshots must satisfy before
// any graph algorithm may index into the node slice.
func (g *Graph) validate() error {
	for i := range g.Nodes {
		if g.Nodes[i].ID != ObjID(i+1) {
			return fmt.Errorf("inspect: node %d carries id %d, want %d", i, g.Nodes[i].ID, i+1)
		}
		for _, ref := range g.Nodes[i].Refs {
			if ref < 1 || int(ref) > len(g.Nodes) {
				return fmt.Errorf("inspect: node %d references out-of-range id %d", g.Nodes[i].ID, ref)
			}
		}
	}
	for _, r := range g.Roots {
		if r < 1 || int(r) > len(g.Nodes) {
			return fmt.Errorf("inspect: root id %d out of range", r)
		}
	}
	return nil
}

// reverseEdges returns, for every node ID, the IDs referencing it.
func (g *Graph) reverseEdges() [][]ObjID {
	rev := make([][]ObjID, len(g.Nodes)+1)
	for i := range g.Nodes {
		from := ObjID(i + 1)
		for _, to := range g.Nodes[i].Refs {
			rev[to] = append(rev[to], from)
		}
	}
	return rev
}
