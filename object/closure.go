package object

import (
	"unsafe"

	"github.com/juncolang/junco/gc"
)

// Closure is a function value: a parameter list, a body expression
// graph, and the environment captured at creation. Closures may share
// captured environments, so the mark phase must tolerate the resulting
// shared subgraphs.
type Closure struct {
	gc.Header
	Params []string
	Body   gc.Object
	Env    *Env
}

// NewClosure admits a closure capturing env.
func NewClosure(h *gc.Heap, params []string, body gc.Object, env *Env) *Closure {
	c := &Closure{Params: params, Body: body, Env: env}
	h.Admit(c, c.SizeBytes())
	return c
}

// TraceChildren marks the body graph and the captured environment.
func (c *Closure) TraceChildren(m gc.Marker) {
	m.Mark(c.Body)
	if c.Env != nil {
		m.Mark(c.Env)
	}
}

// SizeBytes reports the struct plus parameter name bytes.
func (c *Closure) SizeBytes() int {
	size := int(unsafe.Sizeof(*c))
	for _, p := range c.Params {
		size += len(p)
	}
	return size
}

// Kind identifies the object in heap captures.
func (c *Closure) Kind() string { return "closure" }
