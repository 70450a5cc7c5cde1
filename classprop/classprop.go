// Package classprop provides read-only computed properties bound to a class.
//
// A property's getter always runs against the owning class, never an
// instance, so it reflects class-level state. Reading works through an
// Instance or through the Class itself; writing or deleting always fails.
package classprop

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	// ErrUnsupported is the kind of every rejected write or delete.
	ErrUnsupported = errors.New("unsupported operation")

	// ErrReadOnly is returned when writing or deleting a computed property.
	ErrReadOnly = fmt.Errorf("read-only property: %w", ErrUnsupported)

	// ErrNoAttribute is returned when neither the class chain nor the instance has a name.
	ErrNoAttribute = errors.New("no such attribute")
)

// Descriptor is the untyped view of a class attribute that computes its value.
type Descriptor interface {
	// Value computes the attribute for owner.
	Value(owner *Class) any
}

// Class is a named owner of class variables and computed attributes.
type Class struct {
	name string
	base *Class

	mu    sync.RWMutex
	vars  map[string]any
	attrs map[string]Descriptor
}

// NewClass creates a class. base may be nil.
func NewClass(name string, base *Class) *Class {
	if name == "" {
		panic("class name required")
	}
	return &Class{
		name:  name,
		base:  base,
		vars:  make(map[string]any),
		attrs: make(map[string]Descriptor),
	}
}

// Name returns the class name.
func (c *Class) Name() string {
	return c.name
}

// Base returns the base class, nil for a root class.
func (c *Class) Base() *Class {
	return c.base
}

// String returns the class name.
func (c *Class) String() string {
	return c.name
}

// SetVar sets a class variable.
func (c *Class) SetVar(name string, v any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vars[name] = v
}

// Var looks up a class variable through the base chain.
func (c *Class) Var(name string) (any, bool) {
	for k := c; k != nil; k = k.base {
		k.mu.RLock()
		v, ok := k.vars[name]
		k.mu.RUnlock()
		if ok {
			return v, true
		}
	}
	return nil, false
}

// Define binds a computed attribute on the class.
func (c *Class) Define(name string, d Descriptor) {
	if name == "" {
		panic("attribute name required")
	}
	if d == nil {
		panic("descriptor required")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.attrs[name] = d
}

// lookup finds the descriptor for name through the base chain.
func (c *Class) lookup(name string) Descriptor {
	for k := c; k != nil; k = k.base {
		k.mu.RLock()
		d := k.attrs[name]
		k.mu.RUnlock()
		if d != nil {
			return d
		}
	}
	return nil
}

// Attr reads name on the class. Computed attributes run against c, even
// when they are defined on a base class; otherwise class variables are used.
func (c *Class) Attr(name string) (any, error) {
	if d := c.lookup(name); d != nil {
		return d.Value(c), nil
	}
	if v, ok := c.Var(name); ok {
		return v, nil
	}
	return nil, fmt.Errorf("class %s has no attribute %q: %w", c.name, name, ErrNoAttribute)
}

// SetAttr sets a class variable, refusing to shadow a computed attribute.
func (c *Class) SetAttr(name string, v any) error {
	if c.lookup(name) != nil {
		return fmt.Errorf("can't set attribute %q of class %s: %w", name, c.name, ErrReadOnly)
	}
	c.SetVar(name, v)
	return nil
}

// DelAttr removes a class variable, refusing to delete a computed attribute.
func (c *Class) DelAttr(name string) error {
	if c.lookup(name) != nil {
		return fmt.Errorf("can't delete attribute %q of class %s: %w", name, c.name, ErrReadOnly)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.vars[name]; !ok {
		return fmt.Errorf("class %s has no attribute %q: %w", c.name, name, ErrNoAttribute)
	}
	delete(c.vars, name)
	return nil
}

// Names returns the sorted computed attributes and class variables visible on c.
func (c *Class) Names() []string {
	seen := make(map[string]struct{})
	for k := c; k != nil; k = k.base {
		k.mu.RLock()
		for name := range k.attrs {
			seen[name] = struct{}{}
		}
		for name := range k.vars {
			seen[name] = struct{}{}
		}
		k.mu.RUnlock()
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New creates an instance of c.
func (c *Class) New() *Instance {
	return &Instance{
		class:  c,
		fields: make(map[string]any),
	}
}

// Instance is an object of a Class with its own fields.
type Instance struct {
	class *Class

	mu     sync.RWMutex
	fields map[string]any
}

// Class returns the class of the instance.
func (i *Instance) Class() *Class {
	return i.class
}

// Attr reads name. Computed attributes are evaluated against the instance's
// class and take precedence over fields.
func (i *Instance) Attr(name string) (any, error) {
	if d := i.class.lookup(name); d != nil {
		return d.Value(i.class), nil
	}

	i.mu.RLock()
	v, ok := i.fields[name]
	i.mu.RUnlock()
	if ok {
		return v, nil
	}

	if v, ok := i.class.Var(name); ok {
		return v, nil
	}
	return nil, fmt.Errorf("%s object has no attribute %q: %w", i.class.name, name, ErrNoAttribute)
}

// Set sets an instance field. Computed attributes cannot be overwritten.
func (i *Instance) Set(name string, v any) error {
	if i.class.lookup(name) != nil {
		return fmt.Errorf("can't set attribute %q of %s object: %w", name, i.class.name, ErrReadOnly)
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	i.fields[name] = v
	return nil
}

// Delete removes an instance field. Computed attributes cannot be deleted.
func (i *Instance) Delete(name string) error {
	if i.class.lookup(name) != nil {
		return fmt.Errorf("can't delete attribute %q of %s object: %w", name, i.class.name, ErrReadOnly)
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	if _, ok := i.fields[name]; !ok {
		return fmt.Errorf("%s object has no attribute %q: %w", i.class.name, name, ErrNoAttribute)
	}
	delete(i.fields, name)
	return nil
}
