package chunker

// Option configures optional behavior of a Chunker.
type Option func(*options)

type options struct {
	logger Logger
	stats  StatsCollector
}

// WithLogger sets the Logger used by the Chunker. If not set, no logging
// occurs.
//
// Example:
//
//	c, err := chunker.New(ctx, limits, sizer, writer,
//		chunker.WithLogger(chunker.NewSimpleLogger(chunker.LogLevelInfo)))
func WithLogger(logger Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithStats sets the StatsCollector used by the Chunker. If not set, no
// statistics are collected.
//
// Example:
//
//	stats := chunker.NewBasicStatsCollector()
//	c, err := chunker.New(ctx, limits, sizer, writer, chunker.WithStats(stats))
//
//	// Later, retrieve statistics
//	current := stats.GetStats()
func WithStats(stats StatsCollector) Option {
	return func(o *options) {
		o.stats = stats
	}
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.logger == nil {
		o.logger = NoOpLogger{}
	}
	if o.stats == nil {
		o.stats = NoOpStatsCollector{}
	}
	return o
}
