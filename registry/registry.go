// Package registry implements the module registry that lazy proxies import from.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/st-keller/bindutil/module"
)

var (
	// ErrModuleNotFound is returned when no loader is registered for a name.
	ErrModuleNotFound = errors.New("module not found")

	// ErrImport is returned when a registered loader fails.
	ErrImport = errors.New("import failed")
)

// Loader produces a module. It is called at most once per successful import.
// Loaders must not import, directly or indirectly, the module they load.
type Loader func() (*module.Module, error)

// Default is the process-wide registry.
var Default = New()

// Registry maps module names to loaders and caches imported modules.
type Registry struct {
	mu sync.RWMutex

	// entries: module name -> entry
	entries map[string]*entry
}

// entry holds the loader and the cached module for one name.
type entry struct {
	loader Loader

	mu         sync.Mutex
	mod        *module.Module // nil until the first successful import
	calls      int            // loader invocations, failed ones included
	importedAt time.Time
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		entries: make(map[string]*entry),
	}
}

// Register registers a loader for name.
func (r *Registry) Register(name string, loader Loader) error {
	if name == "" {
		return fmt.Errorf("module name required")
	}
	if loader == nil {
		return fmt.Errorf("loader required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.entries[name] != nil {
		return fmt.Errorf("module %s already registered", name)
	}

	r.entries[name] = &entry{loader: loader}
	return nil
}

// RegisterModule registers an already loaded module.
func (r *Registry) RegisterModule(m *module.Module) error {
	if m == nil {
		return fmt.Errorf("module required")
	}
	return r.Register(m.Name(), func() (*module.Module, error) { return m, nil })
}

// Import returns the module for name, running its loader on first use.
// Failures are not cached: the next Import runs the loader again.
//
// A loader may import other modules, but the import graph must be acyclic:
// the loader runs under the entry's lock, so a loader that imports its own
// name, directly or through other loaders, blocks forever.
func (r *Registry) Import(name string) (*module.Module, error) {
	r.mu.RLock()
	e := r.entries[name]
	r.mu.RUnlock()

	if e == nil {
		return nil, fmt.Errorf("import %s: %w", name, ErrModuleNotFound)
	}

	// Per-entry lock so a loader may import other modules.
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.mod != nil {
		return e.mod, nil
	}

	e.calls++
	mod, err := e.loader()
	if err != nil {
		return nil, fmt.Errorf("import %s: %w: %w", name, ErrImport, err)
	}
	if mod == nil {
		return nil, fmt.Errorf("import %s: %w: loader returned no module", name, ErrImport)
	}

	e.mod = mod
	e.importedAt = time.Now()
	return mod, nil
}

// Imported reports whether name has been imported successfully.
func (r *Registry) Imported(name string) bool {
	r.mu.RLock()
	e := r.entries[name]
	r.mu.RUnlock()

	if e == nil {
		return false
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mod != nil
}

// ImportCount returns how many times the loader for name has run.
func (r *Registry) ImportCount(name string) int {
	r.mu.RLock()
	e := r.entries[name]
	r.mu.RUnlock()

	if e == nil {
		return 0
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls
}

// ImportedAt returns when name was imported, zero if it was not.
func (r *Registry) ImportedAt(name string) time.Time {
	r.mu.RLock()
	e := r.entries[name]
	r.mu.RUnlock()

	if e == nil {
		return time.Time{}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.importedAt
}

// Registered returns all registered module names, sorted.
func (r *Registry) Registered() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}
