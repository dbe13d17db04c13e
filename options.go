package vizsync

import (
	"log/slog"

	"github.com/hupe1980/vizsync/codec"
	"github.com/hupe1980/vizsync/internal/resource"
	"github.com/hupe1980/vizsync/view"
)

type options struct {
	codec            codec.Codec
	view             view.Options
	metricsCollector MetricsCollector
	logger           *Logger
	resources        *resource.Controller
	cacheBytes       int64
}

// Option configures a Coordinator.
type Option func(*options)

// WithCodec configures the codec used to decode packs and host payloads.
//
// If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithViewOptions sets the initial view configuration. Host "options"
// pushes replace it later.
func WithViewOptions(opts view.Options) Option {
	return func(o *options) {
		o.view = opts.Clone()
	}
}

// WithMetricsCollector configures a metrics collector for monitoring commands.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &vizsync.BasicMetricsCollector{}
//	c := vizsync.New(vizsync.WithMetricsCollector(metrics))
//	// ... drive c ...
//	stats := metrics.GetStats()
//	fmt.Printf("Commands: %d, stale loads: %d\n", stats.CommandCount, stats.StaleResponses)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := vizsync.NewJSONLogger(slog.LevelInfo)
//	c := vizsync.New(vizsync.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithFrameCache sets the byte capacity of the derived frame cache.
func WithFrameCache(capacity int64) Option {
	return func(o *options) {
		o.cacheBytes = capacity
	}
}

// WithResourceController charges cached frames against rc's memory budget.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.resources = rc
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		codec:            codec.Default,
		view:             view.DefaultOptions(),
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.metricsCollector == nil {
		o.metricsCollector = NoopMetricsCollector{}
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}
	return o
}
