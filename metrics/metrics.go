// Package metrics exports chunker statistics to Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/MasterOfBinary/gochunk/chunker"
)

const subsystem = "chunker"

// PrometheusCollector is a chunker.StatsCollector that updates Prometheus
// metrics. It also keeps an in-memory copy so GetStats works as with
// chunker.BasicStatsCollector.
type PrometheusCollector struct {
	basic *chunker.BasicStatsCollector

	itemsAccepted  prometheus.Counter
	bytesAccepted  prometheus.Counter
	oversizedItems prometheus.Counter
	flushes        *prometheus.CounterVec
	batchItems     prometheus.Histogram
	batchBytes     prometheus.Histogram
	flushDuration  prometheus.Histogram
	sinkErrors     prometheus.Counter
	sizerErrors    prometheus.Counter
}

// NewPrometheusCollector creates the metrics and registers them with reg.
// namespace prefixes every metric name and may be empty. Registering two
// collectors with the same namespace on one registry fails, so give each
// chunker its own namespace or registry.
func NewPrometheusCollector(reg prometheus.Registerer, namespace string) (*PrometheusCollector, error) {
	c := &PrometheusCollector{
		basic: chunker.NewBasicStatsCollector(),
		itemsAccepted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "items_accepted_total",
			Help:      "Number of items added to a pending batch.",
		}),
		bytesAccepted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "size_accepted_total",
			Help:      "Sum of the sizes of all accepted items, in sizer units.",
		}),
		oversizedItems: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "oversized_items_total",
			Help:      "Number of items larger than the size limit on their own.",
		}),
		flushes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "flushes_total",
			Help:      "Number of writer calls, by flush reason.",
		}, []string{"reason"}),
		batchItems: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "batch_items",
			Help:      "Number of items per written batch.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		}),
		batchBytes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "batch_size",
			Help:      "Summed item size per written batch, in sizer units.",
			Buckets:   prometheus.ExponentialBuckets(64, 4, 10),
		}),
		flushDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "flush_duration_seconds",
			Help:      "Time spent in the writer per batch.",
			Buckets:   prometheus.DefBuckets,
		}),
		sinkErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "sink_errors_total",
			Help:      "Number of writer calls that returned an error.",
		}),
		sizerErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "sizer_errors_total",
			Help:      "Number of sizer failures.",
		}),
	}

	for _, col := range []prometheus.Collector{
		c.itemsAccepted, c.bytesAccepted, c.oversizedItems, c.flushes,
		c.batchItems, c.batchBytes, c.flushDuration, c.sinkErrors, c.sizerErrors,
	} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// RecordItemAccepted implements chunker.StatsCollector.
func (c *PrometheusCollector) RecordItemAccepted(size float64) {
	c.basic.RecordItemAccepted(size)
	c.itemsAccepted.Inc()
	c.bytesAccepted.Add(size)
}

// RecordOversizedItem implements chunker.StatsCollector.
func (c *PrometheusCollector) RecordOversizedItem() {
	c.basic.RecordOversizedItem()
	c.oversizedItems.Inc()
}

// RecordFlushStart implements chunker.StatsCollector.
func (c *PrometheusCollector) RecordFlushStart(batchSize int, batchBytes float64, reason chunker.FlushReason) {
	c.basic.RecordFlushStart(batchSize, batchBytes, reason)
	c.flushes.WithLabelValues(reason.String()).Inc()
	c.batchItems.Observe(float64(batchSize))
	c.batchBytes.Observe(batchBytes)
}

// RecordFlushComplete implements chunker.StatsCollector.
func (c *PrometheusCollector) RecordFlushComplete(batchSize int, duration time.Duration) {
	c.basic.RecordFlushComplete(batchSize, duration)
	c.flushDuration.Observe(duration.Seconds())
}

// RecordSinkError implements chunker.StatsCollector.
func (c *PrometheusCollector) RecordSinkError() {
	c.basic.RecordSinkError()
	c.sinkErrors.Inc()
}

// RecordSizerError implements chunker.StatsCollector.
func (c *PrometheusCollector) RecordSizerError() {
	c.basic.RecordSizerError()
	c.sizerErrors.Inc()
}

// GetStats implements chunker.StatsCollector.
func (c *PrometheusCollector) GetStats() chunker.Stats {
	return c.basic.GetStats()
}
