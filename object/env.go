package object

import (
	"fmt"
	"sort"
	"unsafe"

	"github.com/juncolang/junco/gc"
)

// Env is a lexical environment: a string-keyed binding frame with an
// optional parent. Global environments are typically registered with the
// heap as persistent root containers; frame environments are kept alive
// by the closures that capture them.
type Env struct {
	gc.Header
	parent   *Env
	bindings map[string]gc.Object
}

// NewEnv admits an empty environment chained to parent, which may be
// nil for a top-level environment.
func NewEnv(h *gc.Heap, parent *Env) *Env {
	e := &Env{
		parent:   parent,
		bindings: make(map[string]gc.Object),
	}
	h.Admit(e, e.SizeBytes())
	return e
}

// Parent returns the enclosing environment, or nil.
func (e *Env) Parent() *Env { return e.parent }

// Define binds name in this frame. Redefining a name already bound in
// this frame is an error; bindings in enclosing frames are shadowed, not
// touched. A nil value is a legal binding and is skipped at mark time.
func (e *Env) Define(name string, value gc.Object) error {
	if _, ok := e.bindings[name]; ok {
		return fmt.Errorf("env: define %q: already bound", name)
	}
	e.bindings[name] = value
	return nil
}

// Has reports whether name is bound directly in this frame, ignoring
// parents.
func (e *Env) Has(name string) bool {
	_, ok := e.bindings[name]
	return ok
}

// Lookup resolves name in this frame or the nearest enclosing frame.
func (e *Env) Lookup(name string) (gc.Object, bool) {
	for env := e; env != nil; env = env.parent {
		if v, ok := env.bindings[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Set rebinds the nearest existing binding of name. Setting an unbound
// name is an error; use Define to create bindings.
func (e *Env) Set(name string, value gc.Object) error {
	for env := e; env != nil; env = env.parent {
		if _, ok := env.bindings[name]; ok {
			env.bindings[name] = value
			return nil
		}
	}
	return fmt.Errorf("env: set %q: unbound", name)
}

// Len returns the number of bindings in this frame.
func (e *Env) Len() int { return len(e.bindings) }

// Names returns this frame's bound names in sorted order.
func (e *Env) Names() []string {
	names := make([]string, 0, len(e.bindings))
	for name := range e.bindings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TraceChildren marks every bound value and the parent frame.
func (e *Env) TraceChildren(m gc.Marker) {
	for _, v := range e.bindings {
		m.Mark(v)
	}
	if e.parent != nil {
		m.Mark(e.parent)
	}
}

// SizeBytes charges the frame struct plus each binding's key bytes and
// table entry.
func (e *Env) SizeBytes() int {
	size := int(unsafe.Sizeof(*e))
	for name := range e.bindings {
		size += len(name) + int(unsafe.Sizeof(gc.Object(nil)))
	}
	return size
}

// Kind identifies the object in heap captures.
func (e *Env) Kind() string { return "env" }
