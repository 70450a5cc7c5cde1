// Package deprecation marks functions and computed class properties as
// deprecated without changing what they do.
//
// Every call of a deprecated function first emits a Notice to a Sink and then
// runs the original function with the same arguments, returning its results
// untouched. Notices are not deduplicated: each call warns again.
package deprecation

import (
	"fmt"
	"reflect"
	"runtime"
	"strings"
)

// Decorator holds the notice fields shared by everything it wraps.
// A Decorator is immutable and safe for concurrent use.
type Decorator struct {
	name       string
	doc        string
	version    string
	message    string
	stackDepth int
	sink       Sink
}

// Option configures a Decorator.
type Option func(*Decorator)

// WithName sets the subject shown in notices. Defaults to the wrapped function's name.
func WithName(name string) Option {
	return func(d *Decorator) { d.name = name }
}

// WithDoc records documentation for the deprecated element, reported by Info.
func WithDoc(doc string) Option {
	return func(d *Decorator) { d.doc = doc }
}

// WithVersion sets the version in which the element will be removed.
func WithVersion(version string) Option {
	return func(d *Decorator) { d.version = version }
}

// WithMessage sets the free-form guidance, usually what to use instead.
func WithMessage(message string) Option {
	return func(d *Decorator) { d.message = message }
}

// WithStackDepth sets which frame the notice is attributed to (default 2, the caller).
func WithStackDepth(depth int) Option {
	return func(d *Decorator) {
		if depth < 1 {
			depth = 1
		}
		d.stackDepth = depth
	}
}

// WithSink routes notices to sink instead of the default sink.
func WithSink(sink Sink) Option {
	return func(d *Decorator) { d.sink = sink }
}

// New creates a Decorator.
func New(opts ...Option) *Decorator {
	d := &Decorator{stackDepth: DefaultStackDepth}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Notice builds a fresh notice. fallback is used when no name was configured.
func (d *Decorator) Notice(fallback string) Notice {
	subject := d.name
	if subject == "" {
		subject = fallback
	}
	return Notice{
		Subject:    subject,
		Version:    d.version,
		Message:    d.message,
		StackDepth: d.stackDepth,
	}
}

// Emit sends a notice for subject, attributed relative to the function calling Emit.
func (d *Decorator) Emit(subject string) {
	d.emit(subject, false)
}

func (d *Decorator) emit(subject string, wrapped bool) {
	n := d.Notice(subject)
	n.Caller = callerFrame(n.StackDepth, wrapped)
	deliver(d.sinkOrDefault(), n)
}

func (d *Decorator) sinkOrDefault() Sink {
	if d.sink != nil {
		return d.sink
	}
	return DefaultSink()
}

// deliver hands n to sink. Delivery is best effort: a failing sink must not
// break the deprecated call.
func deliver(sink Sink, n Notice) {
	defer func() { _ = recover() }()
	sink.Warn(n)
}

// Info describes a deprecated element for introspection.
type Info struct {
	Name    string // name of the original function
	Subject string // name shown in notices
	Doc     string
	Version string
	Message string
}

// Info reports what d would say about fn.
func (d *Decorator) Info(fn any) Info {
	name := FuncName(fn)
	n := d.Notice(name)
	return Info{
		Name:    name,
		Subject: n.Subject,
		Doc:     d.doc,
		Version: n.Version,
		Message: n.Message,
	}
}

// Wrap returns a function of the same type as fn that emits a notice and then
// calls fn with the arguments it received. fn must be a non-nil function.
func Wrap[F any](d *Decorator, fn F) F {
	v := reflect.ValueOf(fn)
	if !v.IsValid() || v.Kind() != reflect.Func || v.IsNil() {
		panic(fmt.Sprintf("deprecation: Wrap needs a function, got %T", fn))
	}

	subject := FuncName(fn)
	variadic := v.Type().IsVariadic()

	wrapper := reflect.MakeFunc(v.Type(), func(args []reflect.Value) []reflect.Value {
		d.emit(subject, true)
		if variadic {
			return v.CallSlice(args)
		}
		return v.Call(args)
	})

	return wrapper.Interface().(F)
}

// Func0 is Wrap for func() R without reflection.
func Func0[R any](d *Decorator, fn func() R) func() R {
	subject := FuncName(fn)
	return func() R {
		d.emit(subject, true)
		return fn()
	}
}

// Func1 is Wrap for func(A) R without reflection.
func Func1[A, R any](d *Decorator, fn func(A) R) func(A) R {
	subject := FuncName(fn)
	return func(a A) R {
		d.emit(subject, true)
		return fn(a)
	}
}

// Func2 is Wrap for func(A, B) R without reflection.
func Func2[A, B, R any](d *Decorator, fn func(A, B) R) func(A, B) R {
	subject := FuncName(fn)
	return func(a A, b B) R {
		d.emit(subject, true)
		return fn(a, b)
	}
}

// Func3 is Wrap for func(A, B, C) R without reflection.
func Func3[A, B, C, R any](d *Decorator, fn func(A, B, C) R) func(A, B, C) R {
	subject := FuncName(fn)
	return func(a A, b B, c C) R {
		d.emit(subject, true)
		return fn(a, b, c)
	}
}

// FuncName returns the short name of a function value, e.g. "Compile" or
// "(*Model).Reshape". Non-functions are described by their type.
func FuncName(fn any) string {
	v := reflect.ValueOf(fn)
	if !v.IsValid() {
		return "<nil>"
	}
	if v.Kind() != reflect.Func {
		return fmt.Sprintf("%T", fn)
	}
	if v.IsNil() {
		return "<nil>"
	}

	f := runtime.FuncForPC(v.Pointer())
	if f == nil {
		return v.Type().String()
	}

	name := f.Name()
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.Index(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return strings.TrimSuffix(name, "-fm")
}
