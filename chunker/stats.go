package chunker

import (
	"math"
	"sync"
	"sync/atomic"
	"time"
)

// StatsCollector receives metrics from a Chunker. All methods are called from
// the background goroutine, except GetStats. If no StatsCollector is set, no
// statistics are collected.
type StatsCollector interface {
	// RecordItemAccepted is called when an item is added to the pending batch.
	RecordItemAccepted(size float64)

	// RecordOversizedItem is called when a single item is larger than SizeLimit.
	RecordOversizedItem()

	// RecordFlushStart is called right before the writer is invoked.
	RecordFlushStart(batchSize int, batchBytes float64, reason FlushReason)

	// RecordFlushComplete is called when the writer returns, successfully or not.
	RecordFlushComplete(batchSize int, duration time.Duration)

	// RecordSinkError is called when the writer returns an error.
	RecordSinkError()

	// RecordSizerError is called when the sizer fails.
	RecordSizerError()

	// GetStats returns a snapshot of the current statistics.
	GetStats() Stats
}

// Stats holds aggregated statistics about a Chunker.
type Stats struct {
	// ItemsAccepted is the number of items added to a pending batch.
	ItemsAccepted uint64

	// ItemsFlushed is the number of items handed to the writer, including
	// items in batches the writer failed on.
	ItemsFlushed uint64

	// OversizedItems is the number of items larger than SizeLimit on their own.
	OversizedItems uint64

	// CountFlushes, SizeFlushes and FinalFlushes count writer calls by reason.
	CountFlushes uint64
	SizeFlushes  uint64
	FinalFlushes uint64

	// FlushesCompleted is the number of writer calls that have returned.
	FlushesCompleted uint64

	// SinkErrors is the number of writer calls that failed.
	SinkErrors uint64

	// SizerErrors is the number of sizer failures. It is at most one.
	SizerErrors uint64

	// BytesAccepted is the sum of the sizes of all accepted items.
	BytesAccepted float64

	// TotalFlushTime is the cumulative time spent inside the writer.
	TotalFlushTime time.Duration

	// MinFlushTime and MaxFlushTime bound the time of a single writer call.
	MinFlushTime time.Duration
	MaxFlushTime time.Duration

	// MinBatchSize and MaxBatchSize bound the number of items per batch.
	MinBatchSize int
	MaxBatchSize int

	// StartTime is when statistics collection began.
	StartTime time.Time

	// LastUpdateTime is when statistics were last updated.
	LastUpdateTime time.Time
}

// Flushes returns the total number of writer calls.
func (s *Stats) Flushes() uint64 {
	return s.CountFlushes + s.SizeFlushes + s.FinalFlushes
}

// AverageFlushTime returns the average time of a writer call, or 0 if no
// writer call has completed.
func (s *Stats) AverageFlushTime() time.Duration {
	if s.FlushesCompleted == 0 {
		return 0
	}
	return s.TotalFlushTime / time.Duration(s.FlushesCompleted)
}

// AverageBatchSize returns the average number of items per batch.
func (s *Stats) AverageBatchSize() float64 {
	n := s.Flushes()
	if n == 0 {
		return 0
	}
	return float64(s.ItemsFlushed) / float64(n)
}

// ErrorRate returns the percentage of writer calls that failed.
func (s *Stats) ErrorRate() float64 {
	if s.FlushesCompleted == 0 {
		return 0
	}
	return float64(s.SinkErrors) / float64(s.FlushesCompleted) * 100
}

// NoOpStatsCollector discards all metrics. It is the default StatsCollector.
type NoOpStatsCollector struct{}

// RecordItemAccepted implements the StatsCollector interface.
func (NoOpStatsCollector) RecordItemAccepted(size float64) {}

// RecordOversizedItem implements the StatsCollector interface.
func (NoOpStatsCollector) RecordOversizedItem() {}

// RecordFlushStart implements the StatsCollector interface.
func (NoOpStatsCollector) RecordFlushStart(batchSize int, batchBytes float64, reason FlushReason) {}

// RecordFlushComplete implements the StatsCollector interface.
func (NoOpStatsCollector) RecordFlushComplete(batchSize int, duration time.Duration) {}

// RecordSinkError implements the StatsCollector interface.
func (NoOpStatsCollector) RecordSinkError() {}

// RecordSizerError implements the StatsCollector interface.
func (NoOpStatsCollector) RecordSizerError() {}

// GetStats implements the StatsCollector interface.
func (NoOpStatsCollector) GetStats() Stats {
	return Stats{}
}

// BasicStatsCollector keeps statistics in memory. It is safe for concurrent use.
type BasicStatsCollector struct {
	mu    sync.RWMutex
	stats Stats

	// Atomic counters for lock-free updates
	itemsAccepted    uint64
	oversizedItems   uint64
	flushesCompleted uint64
	sinkErrors       uint64
	sizerErrors      uint64
}

// NewBasicStatsCollector creates a new BasicStatsCollector.
func NewBasicStatsCollector() *BasicStatsCollector {
	now := time.Now()
	return &BasicStatsCollector{
		stats: Stats{
			StartTime:      now,
			LastUpdateTime: now,
			MinFlushTime:   time.Duration(math.MaxInt64),
		},
	}
}

// RecordItemAccepted implements the StatsCollector interface.
func (b *BasicStatsCollector) RecordItemAccepted(size float64) {
	atomic.AddUint64(&b.itemsAccepted, 1)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.stats.BytesAccepted += size
	b.stats.LastUpdateTime = time.Now()
}

// RecordOversizedItem implements the StatsCollector interface.
func (b *BasicStatsCollector) RecordOversizedItem() {
	atomic.AddUint64(&b.oversizedItems, 1)
}

// RecordFlushStart implements the StatsCollector interface.
func (b *BasicStatsCollector) RecordFlushStart(batchSize int, batchBytes float64, reason FlushReason) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.stats.LastUpdateTime = time.Now()
	b.stats.ItemsFlushed += uint64(batchSize)

	switch reason {
	case FlushCount:
		b.stats.CountFlushes++
	case FlushSize:
		b.stats.SizeFlushes++
	default:
		b.stats.FinalFlushes++
	}

	if batchSize < b.stats.MinBatchSize || b.stats.MinBatchSize == 0 {
		b.stats.MinBatchSize = batchSize
	}
	if batchSize > b.stats.MaxBatchSize {
		b.stats.MaxBatchSize = batchSize
	}
}

// RecordFlushComplete implements the StatsCollector interface.
func (b *BasicStatsCollector) RecordFlushComplete(batchSize int, duration time.Duration) {
	atomic.AddUint64(&b.flushesCompleted, 1)

	b.mu.Lock()
	defer b.mu.Unlock()

	b.stats.LastUpdateTime = time.Now()
	b.stats.TotalFlushTime += duration

	if duration < b.stats.MinFlushTime {
		b.stats.MinFlushTime = duration
	}
	if duration > b.stats.MaxFlushTime {
		b.stats.MaxFlushTime = duration
	}
}

// RecordSinkError implements the StatsCollector interface.
func (b *BasicStatsCollector) RecordSinkError() {
	atomic.AddUint64(&b.sinkErrors, 1)
}

// RecordSizerError implements the StatsCollector interface.
func (b *BasicStatsCollector) RecordSizerError() {
	atomic.AddUint64(&b.sizerErrors, 1)
}

// GetStats implements the StatsCollector interface.
func (b *BasicStatsCollector) GetStats() Stats {
	b.mu.RLock()
	defer b.mu.RUnlock()

	stats := b.stats
	stats.ItemsAccepted = atomic.LoadUint64(&b.itemsAccepted)
	stats.OversizedItems = atomic.LoadUint64(&b.oversizedItems)
	stats.FlushesCompleted = atomic.LoadUint64(&b.flushesCompleted)
	stats.SinkErrors = atomic.LoadUint64(&b.sinkErrors)
	stats.SizerErrors = atomic.LoadUint64(&b.sizerErrors)

	if stats.FlushesCompleted == 0 {
		stats.MinFlushTime = 0
	}

	return stats
}
