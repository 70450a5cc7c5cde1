package deprecation

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Sink receives deprecation notices. Warn must not block for long; its
// failures are ignored by the caller.
type Sink interface {
	Warn(n Notice)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(n Notice)

// Warn calls f(n).
func (f SinkFunc) Warn(n Notice) {
	f(n)
}

// Discard drops every notice.
var Discard Sink = SinkFunc(func(Notice) {})

var (
	defaultMu   sync.RWMutex
	defaultSink Sink = NewConsoleSink(os.Stderr, !color.NoColor)
)

// DefaultSink returns the process-wide sink used by decorators without WithSink.
func DefaultSink() Sink {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultSink
}

// SetDefaultSink replaces the process-wide sink and returns the previous one.
// A nil sink restores Discard.
func SetDefaultSink(sink Sink) Sink {
	if sink == nil {
		sink = Discard
	}

	defaultMu.Lock()
	defer defaultMu.Unlock()

	prev := defaultSink
	defaultSink = sink
	return prev
}

// Multi fans a notice out to every sink. One failing sink does not stop the others.
func Multi(sinks ...Sink) Sink {
	return SinkFunc(func(n Notice) {
		for _, s := range sinks {
			if s != nil {
				deliver(s, n)
			}
		}
	})
}

// ZapSink logs notices at warn level, attributed to the notice's caller.
type ZapSink struct {
	logger *zap.Logger
}

// NewZapSink creates a ZapSink. A nil logger discards.
func NewZapSink(logger *zap.Logger) *ZapSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZapSink{logger: logger}
}

// Warn implements Sink.
func (s *ZapSink) Warn(n Notice) {
	ce := s.logger.Check(zapcore.WarnLevel, n.String())
	if ce == nil {
		return
	}

	if n.HasCaller() {
		ce.Caller = zapcore.EntryCaller{
			Defined:  true,
			PC:       n.Caller.PC,
			File:     n.Caller.File,
			Line:     n.Caller.Line,
			Function: n.Caller.Function,
		}
	}

	ce.Write(
		zap.String("category", "DeprecationWarning"),
		zap.String("subject", n.Subject),
		zap.String("version", n.Version),
		zap.String("message", n.Message),
		zap.Int("stack_depth", n.StackDepth),
	)
}

// ConsoleSink writes one human-readable line per notice:
//
//	file.go:12: DeprecationWarning: X is deprecated.
type ConsoleSink struct {
	mu    sync.Mutex
	w     io.Writer
	label *color.Color
}

// NewConsoleSink creates a ConsoleSink writing to w.
func NewConsoleSink(w io.Writer, colored bool) *ConsoleSink {
	label := color.New(color.FgYellow, color.Bold)
	if colored {
		label.EnableColor()
	} else {
		label.DisableColor()
	}
	return &ConsoleSink{w: w, label: label}
}

// Warn implements Sink.
func (s *ConsoleSink) Warn(n Notice) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n.HasCaller() {
		fmt.Fprintf(s.w, "%s:%d: ", n.Caller.File, n.Caller.Line)
	}
	fmt.Fprintf(s.w, "%s: %s\n", s.label.Sprint("DeprecationWarning"), n)
}
