package deprecation

import (
	"reflect"
	"runtime"
	"strings"
)

// DefaultStackDepth attributes a notice to the caller of the deprecated function.
const DefaultStackDepth = 2

// Notice describes one use of a deprecated element.
type Notice struct {
	Subject    string        `json:"subject"`
	Version    string        `json:"version,omitempty"`
	Message    string        `json:"message,omitempty"`
	StackDepth int           `json:"stack_depth"`
	Caller     runtime.Frame `json:"-"`
}

// String renders the notice. Empty version and message are left out:
//
//	X is deprecated and will be removed in version 2.0. use Y
func (n Notice) String() string {
	var b strings.Builder
	b.WriteString(n.Subject)
	b.WriteString(" is deprecated")
	if n.Version != "" {
		b.WriteString(" and will be removed in version ")
		b.WriteString(n.Version)
	}
	b.WriteString(".")
	if n.Message != "" {
		b.WriteString(" ")
		b.WriteString(n.Message)
	}
	return b.String()
}

// HasCaller reports whether the caller location was resolved.
func (n Notice) HasCaller() bool {
	return n.Caller.PC != 0
}

// modulePath is the import path prefix of this module's packages.
var modulePath = func() string {
	pkg := reflect.TypeOf(Notice{}).PkgPath()
	if i := strings.LastIndex(pkg, "/"); i >= 0 {
		return pkg[:i]
	}
	return pkg
}()

// ownFrame reports whether f belongs to this module's non-test code.
func ownFrame(f runtime.Frame) bool {
	if strings.HasSuffix(f.File, "_test.go") {
		return false
	}
	return strings.HasPrefix(f.Function, modulePath+"/") || strings.HasPrefix(f.Function, modulePath+".")
}

// plumbingFrame reports whether f is runtime or reflection machinery.
func plumbingFrame(f runtime.Frame) bool {
	return strings.HasPrefix(f.Function, "runtime.") || strings.HasPrefix(f.Function, "reflect.")
}

// callerFrame resolves the frame for depth.
//
// For wrapped functions depth 1 is the wrapper and depth 2 its caller. For a
// direct Emit depth 1 is the function calling Emit.
func callerFrame(depth int, wrapped bool) runtime.Frame {
	if depth < 1 {
		depth = 1
	}

	pcs := make([]uintptr, 64)
	n := runtime.Callers(1, pcs)
	iter := runtime.CallersFrames(pcs[:n])

	var frames []runtime.Frame
	for {
		f, more := iter.Next()
		frames = append(frames, f)
		if !more {
			break
		}
	}

	// First frame outside this module and the runtime.
	first := -1
	for i, f := range frames {
		if !ownFrame(f) && !plumbingFrame(f) {
			first = i
			break
		}
	}
	if first < 0 {
		return runtime.Frame{}
	}

	var idx int
	if wrapped {
		if depth == 1 {
			for i := first - 1; i >= 0; i-- {
				if ownFrame(frames[i]) {
					return frames[i]
				}
			}
			return frames[first]
		}
		idx = first + depth - 2
	} else {
		idx = first + depth - 1
	}

	if idx < len(frames) {
		return frames[idx]
	}
	// Past the top of the stack: stop at the outermost frame outside the runtime.
	for i := len(frames) - 1; i >= first; i-- {
		if !plumbingFrame(frames[i]) {
			return frames[i]
		}
	}
	return frames[first]
}
