// Package native binds host-provided Go functions and values into a
// Junco environment. It is the only part of the memory subsystem with a
// user-visible error taxonomy: every rejection leaves the environment
// and the heap exactly as they were.
package native

import (
	"errors"
	"fmt"

	"github.com/juncolang/junco/gc"
	"github.com/juncolang/junco/object"
)

var (
	// ErrNilEnv is returned when a registry is constructed without a
	// target environment.
	ErrNilEnv = errors.New("nil environment")

	// ErrInvalidName is returned for an empty binding name.
	ErrInvalidName = errors.New("invalid name")

	// ErrNilValue is returned when the value or function to bind is nil.
	ErrNilValue = errors.New("nil value")

	// ErrDuplicateName is returned when the name is already bound in
	// the target environment.
	ErrDuplicateName = errors.New("duplicate name")
)

// Registry binds names into one target environment. The environment is
// expected to be registered with the heap as a persistent root; the
// registry itself adds no marking or bookkeeping beyond what defining a
// binding already does.
type Registry struct {
	heap *gc.Heap
	env  *object.Env
}

// NewRegistry returns a registry binding into env. A nil heap selects
// the process-wide default heap; a nil env is an error.
func NewRegistry(h *gc.Heap, env *object.Env) (*Registry, error) {
	if env == nil {
		return nil, fmt.Errorf("native: new registry: %w", ErrNilEnv)
	}
	if h == nil {
		h = gc.Default()
	}
	return &Registry{heap: h, env: env}, nil
}

// Env returns the target environment.
func (r *Registry) Env() *object.Env { return r.env }

// BindFunc binds a host function under name. The name must be non-empty,
// the function non-nil, and the name not already bound in the target
// environment; otherwise nothing is registered.
func (r *Registry) BindFunc(name string, fn object.NativeFunc) error {
	if name == "" {
		return fmt.Errorf("native: bind func: %w", ErrInvalidName)
	}
	if fn == nil {
		return fmt.Errorf("native: bind %q: %w", name, ErrNilValue)
	}
	if r.env.Has(name) {
		return fmt.Errorf("native: bind %q: %w", name, ErrDuplicateName)
	}
	nat := object.NewNative(r.heap, name, fn)
	if err := r.env.Define(name, nat); err != nil {
		return fmt.Errorf("native: bind %q: %w", name, err)
	}
	return nil
}

// BindValue binds an existing heap object under name, with the same
// rejection rules as BindFunc.
func (r *Registry) BindValue(name string, value gc.Object) error {
	if name == "" {
		return fmt.Errorf("native: bind value: %w", ErrInvalidName)
	}
	if value == nil {
		return fmt.Errorf("native: bind %q: %w", name, ErrNilValue)
	}
	if r.env.Has(name) {
		return fmt.Errorf("native: bind %q: %w", name, ErrDuplicateName)
	}
	if err := r.env.Define(name, value); err != nil {
		return fmt.Errorf("native: bind %q: %w", name, err)
	}
	return nil
}
