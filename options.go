package memsnap

type options struct {
	logger  *Logger
	metrics MetricsCollector
}

// Option configures snapshot construction behavior.
//
// Options exist to avoid exploding the constructor surface; today they
// cover observability only.
type Option func(*options)

// WithLogger configures the logger used for snapshot and view operations.
//
// If nil is passed, logging is disabled.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithMetrics configures the metrics collector invoked after snapshot,
// view, restore and protect operations.
//
// If nil is passed, metrics collection is disabled.
func WithMetrics(c MetricsCollector) Option {
	return func(o *options) {
		if c == nil {
			c = NoopMetricsCollector{}
		}
		o.metrics = c
	}
}

func applyOptions(opts []Option) *options {
	o := &options{
		logger:  NoopLogger(),
		metrics: NoopMetricsCollector{},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
