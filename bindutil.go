// Package bindutil is the runtime-support layer of a binding package.
//
// It provides two independent facilities:
//  1. Lazy modules - MakeLazyProxy defers importing a module until one of its
//     attributes is read, then keeps it for the life of the process.
//  2. Deprecation - Deprecated and DeprecatedComputedClassProperty warn on
//     every use of an element without changing its behavior.
//
// The package-level functions use registry.Default and the default
// deprecation sink. Runtime bundles its own registry, logger and sink.
package bindutil

import (
	"github.com/st-keller/bindutil/classprop"
	"github.com/st-keller/bindutil/deprecation"
	"github.com/st-keller/bindutil/lazy"
	"github.com/st-keller/bindutil/registry"
)

// MakeLazyProxy returns a proxy for a module registered in registry.Default.
func MakeLazyProxy(name string) *lazy.Proxy {
	return lazy.New(name, registry.Default)
}

// Deprecated returns a decorator that marks a function of type F as deprecated:
//
//	compile := bindutil.Deprecated[func(string) error]("", "2026.0", "use CompileModel", 2)(compile)
//
// An empty name uses the wrapped function's own name; stackDepth < 1 means 1.
func Deprecated[F any](name, version, message string, stackDepth int) func(F) F {
	d := deprecation.New(
		deprecation.WithName(name),
		deprecation.WithVersion(version),
		deprecation.WithMessage(message),
		deprecation.WithStackDepth(stackDepth),
	)
	return func(fn F) F {
		return deprecation.Wrap(d, fn)
	}
}

// ComputedClassProperty returns a read-only property computed from the owning class.
func ComputedClassProperty[T any](getter any) *classprop.Property[T] {
	return classprop.New[T](getter)
}

// DeprecatedComputedClassProperty returns a decorator producing computed class
// properties that emit a deprecation notice on every read.
func DeprecatedComputedClassProperty[T any](name, version, message string, stackDepth int) func(getter any) *classprop.Property[T] {
	d := deprecation.New(
		deprecation.WithName(name),
		deprecation.WithVersion(version),
		deprecation.WithMessage(message),
		deprecation.WithStackDepth(stackDepth),
	)
	return func(getter any) *classprop.Property[T] {
		return deprecation.Property[T](d, getter)
	}
}
