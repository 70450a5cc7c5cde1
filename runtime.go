package bindutil

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/st-keller/bindutil/deprecation"
	"github.com/st-keller/bindutil/lazy"
	"github.com/st-keller/bindutil/module"
	"github.com/st-keller/bindutil/registry"
	"github.com/st-keller/bindutil/transport"
)

// Runtime bundles a module registry, a logger and a deprecation sink.
type Runtime struct {
	config   Config
	logger   *zap.Logger
	registry *registry.Registry
	recorder *deprecation.Recorder
	sink     deprecation.Sink
}

// NewRuntime creates a Runtime and registers the remote modules listed in config.
func NewRuntime(config Config) (*Runtime, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger, err := buildLogger(config)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	logger = logger.With(zap.String("package", config.PackageName))

	recorder := deprecation.NewRecorder(config.RecentNotices)

	var sink deprecation.Sink = deprecation.Discard
	if config.Warnings == WarningsLog {
		sink = deprecation.Multi(deprecation.NewZapSink(logger), recorder)
	}

	rt := &Runtime{
		config:   config,
		logger:   logger,
		registry: registry.New(),
		recorder: recorder,
		sink:     sink,
	}

	if err := rt.registerRemoteModules(); err != nil {
		return nil, fmt.Errorf("failed to register remote modules: %w", err)
	}

	logger.Debug("Runtime initialized",
		zap.Int("modules", len(rt.registry.Registered())),
		zap.String("warnings", config.Warnings))

	return rt, nil
}

// buildLogger builds a production zap logger without sampling, so repeated
// deprecation notices are all written.
func buildLogger(config Config) (*zap.Logger, error) {
	if config.Logger != nil {
		return config.Logger, nil
	}

	level, err := zapcore.ParseLevel(config.LogLevel)
	if err != nil {
		return nil, err
	}

	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.Sampling = nil
	zc.Encoding = config.LogFormat
	if config.LogFormat == "console" {
		zc.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	}
	return zc.Build()
}

func (r *Runtime) registerRemoteModules() error {
	if r.config.ModuleURL == "" || len(r.config.Modules) == 0 {
		return nil
	}

	client, err := transport.BuildHTTP2Client(transport.Options{
		CAPath:  r.config.CAPath,
		Timeout: 30 * time.Second,
	})
	if err != nil {
		return err
	}

	for _, name := range r.config.Modules {
		if err := r.registry.Register(name, registry.RemoteLoader(client, r.config.ModuleURL, name)); err != nil {
			return err
		}
	}
	return nil
}

// Register registers a module loader.
func (r *Runtime) Register(name string, loader registry.Loader) error {
	return r.registry.Register(name, loader)
}

// Lazy returns a proxy for name that imports from the runtime's registry on first use.
func (r *Runtime) Lazy(name string) *lazy.Proxy {
	return lazy.New(name, lazy.ImporterFunc(r.importModule))
}

// importModule imports name from the registry and logs the outcome.
func (r *Runtime) importModule(name string) (*module.Module, error) {
	start := time.Now()
	m, err := r.registry.Import(name)
	if err != nil {
		r.logger.Warn("Module import failed",
			zap.String("module", name),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return nil, err
	}

	r.logger.Debug("Module imported",
		zap.String("module", name),
		zap.Int("attributes", len(m.Names())),
		zap.Duration("elapsed", time.Since(start)))
	return m, nil
}

// Decorator returns a deprecation decorator that reports to the runtime's sink.
func (r *Runtime) Decorator(opts ...deprecation.Option) *deprecation.Decorator {
	return deprecation.New(append([]deprecation.Option{deprecation.WithSink(r.sink)}, opts...)...)
}

// Registry returns the runtime's module registry.
func (r *Runtime) Registry() *registry.Registry {
	return r.registry
}

// Recorder returns the recorder of recent deprecation notices.
func (r *Runtime) Recorder() *deprecation.Recorder {
	return r.recorder
}

// Logger returns the runtime's logger.
func (r *Runtime) Logger() *zap.Logger {
	return r.logger
}

// Config returns the runtime's configuration.
func (r *Runtime) Config() Config {
	return r.config
}

// Sync flushes the logger.
func (r *Runtime) Sync() error {
	return r.logger.Sync()
}
