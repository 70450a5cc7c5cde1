package classprop

import "fmt"

// Getter computes a class-level value for owner.
type Getter[T any] interface {
	Get(owner *Class) T
}

// ClassMethod is a getter bound to the class it is read from.
type ClassMethod[T any] func(owner *Class) T

// Get calls f(owner).
func (f ClassMethod[T]) Get(owner *Class) T {
	return f(owner)
}

// StaticMethod is a getter that ignores its owner.
type StaticMethod[T any] func() T

// Get calls f().
func (f StaticMethod[T]) Get(*Class) T {
	return f()
}

// Property is a read-only computed class property.
type Property[T any] struct {
	fget Getter[T]
}

// New creates a Property from getter, which may be a Getter[T],
// a func(*Class) T or a func() T. Plain functions are bound to the class.
func New[T any](getter any) *Property[T] {
	return &Property[T]{fget: normalize[T](getter)}
}

// normalize turns getter into a class-bound Getter.
func normalize[T any](getter any) Getter[T] {
	switch g := getter.(type) {
	case nil:
		panic("getter required")
	case Getter[T]:
		return g
	case func(*Class) T:
		return ClassMethod[T](g)
	case func() T:
		return StaticMethod[T](g)
	default:
		var zero T
		panic(fmt.Sprintf("classprop: unsupported getter %T for property of %T", getter, zero))
	}
}

// Getter returns the class-bound getter of p.
func (p *Property[T]) Getter() Getter[T] {
	return p.fget
}

// Get runs the getter against owner.
func (p *Property[T]) Get(owner *Class) T {
	return p.fget.Get(owner)
}

// Value implements Descriptor.
func (p *Property[T]) Value(owner *Class) any {
	return p.Get(owner)
}

// Set always fails: computed class properties are read-only.
func (p *Property[T]) Set(owner *Class, _ T) error {
	return fmt.Errorf("can't set computed property on %s: %w", owner, ErrReadOnly)
}

// Delete always fails: computed class properties are read-only.
func (p *Property[T]) Delete(owner *Class) error {
	return fmt.Errorf("can't delete computed property on %s: %w", owner, ErrReadOnly)
}

// Read reads attribute name of owner as a T.
func Read[T any](owner interface{ Attr(string) (any, error) }, name string) (T, error) {
	var zero T

	v, err := owner.Attr(name)
	if err != nil {
		return zero, err
	}

	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("attribute %q is %T, not %T", name, v, zero)
	}
	return t, nil
}
