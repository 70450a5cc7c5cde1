// Package lazy defers module imports until the first attribute access.
//
// A Proxy stands in for a module that has not been loaded yet. The first
// Attr or Names call imports the module through an Importer, copies its
// namespace into the proxy and keeps it for the proxy's lifetime. Later
// reads are plain map lookups.
//
// Concurrent first accesses are coalesced: the importer runs exactly once
// and every caller observes the fully populated proxy. A failed import is
// not remembered, so the next access tries again.
package lazy

import (
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/st-keller/bindutil/module"
)

// Importer resolves a module name. *registry.Registry implements it.
type Importer interface {
	Import(name string) (*module.Module, error)
}

// ImporterFunc adapts a function to Importer.
type ImporterFunc func(name string) (*module.Module, error)

// Import calls f(name).
func (f ImporterFunc) Import(name string) (*module.Module, error) {
	return f(name)
}

// Reference identifies a module by its fully-qualified name.
type Reference string

// String returns the module name.
func (r Reference) String() string {
	return string(r)
}

// resolved is what the proxy publishes once the import succeeded.
type resolved struct {
	mod       *module.Module
	namespace map[string]any
	names     []string
}

// Proxy is a lazily imported module.
type Proxy struct {
	ref      Reference
	importer Importer

	state  atomic.Pointer[resolved] // set once, never cleared
	flight singleflight.Group
}

// New creates a proxy for name. No import work happens here.
func New(name string, importer Importer) *Proxy {
	if name == "" {
		panic("module name required")
	}
	if importer == nil {
		panic("importer required")
	}

	return &Proxy{
		ref:      Reference(name),
		importer: importer,
	}
}

// Reference returns the wrapped module reference.
func (p *Proxy) Reference() Reference {
	return p.ref
}

// Resolved reports whether the module has been imported.
func (p *Proxy) Resolved() bool {
	return p.state.Load() != nil
}

// Resolve imports the module if that has not happened yet.
func (p *Proxy) Resolve() error {
	_, err := p.load()
	return err
}

// Module returns the resolved module, importing it if needed.
func (p *Proxy) Module() (*module.Module, error) {
	st, err := p.load()
	if err != nil {
		return nil, err
	}
	return st.mod, nil
}

// Attr returns the attribute name of the module, importing it if needed.
func (p *Proxy) Attr(name string) (any, error) {
	st, err := p.load()
	if err != nil {
		return nil, err
	}

	v, ok := st.namespace[name]
	if !ok {
		return nil, fmt.Errorf("module %q has no attribute %q: %w", p.ref, name, module.ErrNoAttribute)
	}
	return v, nil
}

// Names returns the sorted attribute names of the module, importing it if needed.
func (p *Proxy) Names() ([]string, error) {
	st, err := p.load()
	if err != nil {
		return nil, err
	}

	out := make([]string, len(st.names))
	copy(out, st.names)
	return out, nil
}

// String describes the proxy without importing anything.
func (p *Proxy) String() string {
	return fmt.Sprintf("<lazy proxy for module '%s'>", p.ref)
}

func (p *Proxy) load() (*resolved, error) {
	if st := p.state.Load(); st != nil {
		return st, nil
	}

	v, err, _ := p.flight.Do(string(p.ref), func() (any, error) {
		// A previous flight may have finished between Load and Do.
		if st := p.state.Load(); st != nil {
			return st, nil
		}

		mod, err := p.importer.Import(string(p.ref))
		if err != nil {
			return nil, err
		}
		if mod == nil {
			return nil, fmt.Errorf("importer returned no module")
		}

		st := &resolved{
			mod:       mod,
			namespace: mod.Namespace(),
			names:     mod.Names(),
		}
		p.state.Store(st)
		return st, nil
	})
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", p.ref, err)
	}

	return v.(*resolved), nil
}

// Get returns attribute name of p as a T.
func Get[T any](p *Proxy, name string) (T, error) {
	var zero T

	v, err := p.Attr(name)
	if err != nil {
		return zero, err
	}

	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("attribute %q of module %q is %T, not %T", name, p.ref, v, zero)
	}
	return t, nil
}
