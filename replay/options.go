package replay

import (
	"github.com/cms-cvs-history/trajfilter"
	"github.com/cms-cvs-history/trajfilter/codec"
	"github.com/cms-cvs-history/trajfilter/ledger"
	"github.com/cms-cvs-history/trajfilter/resource"
)

// Option configures a Runner.
type Option func(*Runner)

// WithCodec selects the record codec for traces and reports. nil selects codec.Default.
func WithCodec(c codec.Codec) Option {
	return func(r *Runner) {
		if c == nil {
			c = codec.Default
		}
		r.codec = c
	}
}

// WithController bounds workers and trace read throughput.
func WithController(c *resource.Controller) Option {
	return func(r *Runner) {
		if c != nil {
			r.controller = c
		}
	}
}

// WithLogger sets the logger shared by the runner and its filters.
func WithLogger(l *trajfilter.Logger) Option {
	return func(r *Runner) {
		if l == nil {
			l = trajfilter.NoopLogger()
		}
		r.logger = l
	}
}

// WithMetricsCollector forwards every filter decision to mc.
func WithMetricsCollector(mc trajfilter.MetricsCollector) Option {
	return func(r *Runner) {
		if mc == nil {
			mc = trajfilter.NoopMetricsCollector{}
		}
		r.metrics = mc
	}
}

// WithLedger appends an entry for every successful run.
func WithLedger(l ledger.Ledger) Option {
	return func(r *Runner) {
		r.ledger = l
	}
}
