// Package module provides the loaded-module type handed out by the registry.
package module

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrNoAttribute is returned when a name is absent from a module namespace.
var ErrNoAttribute = errors.New("no such attribute")

// Module is a loaded module: a name plus an immutable namespace.
// This is the ONLY shape the import subsystem needs to produce.
type Module struct {
	name      string
	namespace map[string]any
	names     []string // sorted, computed once
}

// New creates a module with a private copy of namespace.
func New(name string, namespace map[string]any) *Module {
	if name == "" {
		panic("module name required")
	}

	ns := make(map[string]any, len(namespace))
	names := make([]string, 0, len(namespace))
	for k, v := range namespace {
		ns[k] = v
		names = append(names, k)
	}
	sort.Strings(names)

	return &Module{
		name:      name,
		namespace: ns,
		names:     names,
	}
}

// Name returns the fully-qualified module name.
func (m *Module) Name() string {
	return m.name
}

// Attr returns the value bound to name.
func (m *Module) Attr(name string) (any, error) {
	v, ok := m.namespace[name]
	if !ok {
		return nil, fmt.Errorf("module %q has no attribute %q: %w", m.name, name, ErrNoAttribute)
	}
	return v, nil
}

// Names returns the sorted attribute names.
func (m *Module) Names() []string {
	out := make([]string, len(m.names))
	copy(out, m.names)
	return out
}

// Namespace returns a copy of the namespace.
func (m *Module) Namespace() map[string]any {
	out := make(map[string]any, len(m.namespace))
	for k, v := range m.namespace {
		out[k] = v
	}
	return out
}

// Checksum returns a SHA256 over the sorted attribute names.
// Two modules exposing the same surface share a checksum.
func (m *Module) Checksum() string {
	hash := sha256.Sum256([]byte(strings.Join(m.names, "\n")))
	return hex.EncodeToString(hash[:])
}

// String returns a short description of the module.
func (m *Module) String() string {
	return fmt.Sprintf("<module '%s'>", m.name)
}
