// Package symbol implements the Junco runtime's interned-symbol table.
// Every distinct name maps to exactly one heap-resident Symbol, and the
// table registers itself as a root hook so interned symbols are always
// reachable. Like the heap it feeds, a table is confined to a single
// goroutine.
package symbol

import (
	"sort"
	"unsafe"

	"github.com/juncolang/junco/gc"
)

// Symbol is an interned name. Two symbols from the same table are equal
// exactly when their pointers are equal.
type Symbol struct {
	gc.Header
	name string
}

// Name returns the interned name.
func (s *Symbol) Name() string { return s.name }

// String implements fmt.Stringer.
func (s *Symbol) String() string { return s.name }

// Kind identifies the object in heap captures.
func (s *Symbol) Kind() string { return "symbol" }

// TraceChildren is a no-op: symbols hold no references.
func (s *Symbol) TraceChildren(gc.Marker) {}

// SizeBytes reports the struct plus the name's backing bytes.
func (s *Symbol) SizeBytes() int {
	return int(unsafe.Sizeof(*s)) + len(s.name)
}

// Table interns names into a heap. The table itself is not a heap
// object: it is an external collaborator that keeps its symbols alive
// through the heap's root-hook mechanism.
type Table struct {
	heap    *gc.Heap
	symbols map[string]*Symbol
}

// NewTable returns an empty table bound to h and registers the hook that
// marks every symbol the table owns during each collection.
func NewTable(h *gc.Heap) *Table {
	t := &Table{
		heap:    h,
		symbols: make(map[string]*Symbol),
	}
	h.AddRootHook(t.markAll)
	return t
}

// Intern returns the symbol for name, admitting a new one into the heap
// on first use.
func (t *Table) Intern(name string) *Symbol {
	if s, ok := t.symbols[name]; ok {
		return s
	}
	s := &Symbol{name: name}
	t.heap.Admit(s, s.SizeBytes())
	t.symbols[name] = s
	return s
}

// Lookup returns the symbol for name without interning.
func (t *Table) Lookup(name string) (*Symbol, bool) {
	s, ok := t.symbols[name]
	return s, ok
}

// Len returns the number of interned symbols.
func (t *Table) Len() int { return len(t.symbols) }

// Names returns the interned names in sorted order.
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.symbols))
	for name := range t.symbols {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (t *Table) markAll(m gc.Marker) {
	for _, s := range t.symbols {
		m.Mark(s)
	}
}
