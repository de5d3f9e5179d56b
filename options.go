package trajfilter

import "log/slog"

type options struct {
	metricsCollector MetricsCollector
	logger           *Logger
}

// Option configures a filter.
type Option func(*options)

// WithMetricsCollector configures a metrics collector for decisions.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &trajfilter.BasicMetricsCollector{}
//	f, _ := trajfilter.New(cfg, trajfilter.WithMetricsCollector(metrics))
//	// ... run the builder ...
//	stats := metrics.GetStats()
//	fmt.Printf("decisions: %d, memo hits: %.0f%%\n", stats.Decisions, 100*stats.CacheHitRatio())
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for decisions.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := trajfilter.NewJSONLogger(slog.LevelDebug)
//	f, _ := trajfilter.New(cfg, trajfilter.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
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

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
