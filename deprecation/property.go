package deprecation

import (
	"reflect"
	"strings"

	"github.com/st-keller/bindutil/classprop"
)

// Property creates a read-only computed class property that emits a notice
// on every read. getter accepts the same shapes as classprop.New.
//
// Without WithName the subject is the getter's own name: the function name
// for func getters, Name() for getters that have one, or the getter wrapped
// by a *classprop.Property. Other Getter implementations fall back to their
// bare type name, so give them WithName.
//
// Each call builds its own getter chain, so a Decorator can be shared
// between properties without one use affecting another.
func Property[T any](d *Decorator, getter any) *classprop.Property[T] {
	base := classprop.New[T](getter)
	return classprop.New[T](&deprecatedGetter[T]{
		base:    base.Getter(),
		d:       d,
		subject: getterName[T](getter),
	})
}

// getterName returns the default subject for getter.
func getterName[T any](getter any) string {
	switch g := getter.(type) {
	case interface{ Name() string }:
		return g.Name()
	case *classprop.Property[T]:
		return getterName[T](g.Getter())
	}

	if reflect.ValueOf(getter).Kind() == reflect.Func {
		return FuncName(getter)
	}

	t := reflect.TypeOf(getter)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	name := t.Name()
	if i := strings.Index(name, "["); i >= 0 {
		name = name[:i]
	}
	return name
}

// deprecatedGetter emits a notice, then delegates to base.
type deprecatedGetter[T any] struct {
	base    classprop.Getter[T]
	d       *Decorator
	subject string
}

func (g *deprecatedGetter[T]) Get(owner *classprop.Class) T {
	g.d.emit(g.subject, true)
	return g.base.Get(owner)
}
