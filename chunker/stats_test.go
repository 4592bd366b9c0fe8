package chunker_test

import (
	"sync"
	"testing"
	"time"

	"github.com/MasterOfBinary/gochunk/chunker"
)

func TestNoOpStatsCollector(t *testing.T) {
	var stats chunker.StatsCollector = chunker.NoOpStatsCollector{}

	// These should not panic
	stats.RecordItemAccepted(1)
	stats.RecordOversizedItem()
	stats.RecordFlushStart(10, 100, chunker.FlushCount)
	stats.RecordFlushComplete(10, time.Second)
	stats.RecordSinkError()
	stats.RecordSizerError()

	if s := stats.GetStats(); s.ItemsAccepted != 0 || s.Flushes() != 0 {
		t.Error("NoOpStatsCollector returned non-zero stats")
	}
}

func TestBasicStatsCollector(t *testing.T) {
	stats := chunker.NewBasicStatsCollector()

	stats.RecordFlushStart(5, 50, chunker.FlushCount)
	stats.RecordFlushComplete(5, 100*time.Millisecond)

	stats.RecordFlushStart(3, 90, chunker.FlushSize)
	stats.RecordFlushComplete(3, 50*time.Millisecond)

	stats.RecordFlushStart(7, 10, chunker.FlushFinal)
	stats.RecordFlushComplete(7, 150*time.Millisecond)

	for i := 0; i < 15; i++ {
		stats.RecordItemAccepted(2)
	}
	stats.RecordOversizedItem()
	stats.RecordSinkError()

	s := stats.GetStats()

	if s.Flushes() != 3 || s.FlushesCompleted != 3 {
		t.Errorf("Flushes = %d, FlushesCompleted = %d, want 3 and 3", s.Flushes(), s.FlushesCompleted)
	}
	if s.CountFlushes != 1 || s.SizeFlushes != 1 || s.FinalFlushes != 1 {
		t.Errorf("unexpected flush reasons: %+v", s)
	}
	if s.ItemsAccepted != 15 || s.ItemsFlushed != 15 {
		t.Errorf("ItemsAccepted = %d, ItemsFlushed = %d, want 15", s.ItemsAccepted, s.ItemsFlushed)
	}
	if s.BytesAccepted != 30 {
		t.Errorf("BytesAccepted = %g, want 30", s.BytesAccepted)
	}
	if s.OversizedItems != 1 || s.SinkErrors != 1 {
		t.Errorf("OversizedItems = %d, SinkErrors = %d, want 1 and 1", s.OversizedItems, s.SinkErrors)
	}

	if s.MinFlushTime != 50*time.Millisecond {
		t.Errorf("MinFlushTime = %v, want 50ms", s.MinFlushTime)
	}
	if s.MaxFlushTime != 150*time.Millisecond {
		t.Errorf("MaxFlushTime = %v, want 150ms", s.MaxFlushTime)
	}
	if s.AverageFlushTime() != 100*time.Millisecond {
		t.Errorf("AverageFlushTime = %v, want 100ms", s.AverageFlushTime())
	}

	if s.MinBatchSize != 3 || s.MaxBatchSize != 7 {
		t.Errorf("batch size range = [%d, %d], want [3, 7]", s.MinBatchSize, s.MaxBatchSize)
	}
	if s.AverageBatchSize() != 5 {
		t.Errorf("AverageBatchSize = %v, want 5", s.AverageBatchSize())
	}

	want := float64(1) / float64(3) * 100
	if s.ErrorRate() != want {
		t.Errorf("ErrorRate = %v, want %v", s.ErrorRate(), want)
	}
}

func TestBasicStatsCollector_Empty(t *testing.T) {
	s := chunker.NewBasicStatsCollector().GetStats()

	if s.MinFlushTime != 0 {
		t.Errorf("MinFlushTime = %v, want 0 with no flushes", s.MinFlushTime)
	}
	if s.AverageFlushTime() != 0 || s.AverageBatchSize() != 0 || s.ErrorRate() != 0 {
		t.Error("expected zero averages with no flushes")
	}
}

func TestBasicStatsCollector_Concurrent(t *testing.T) {
	stats := chunker.NewBasicStatsCollector()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				stats.RecordItemAccepted(1)
				stats.RecordFlushStart(1, 1, chunker.FlushCount)
				stats.RecordFlushComplete(1, time.Millisecond)
				_ = stats.GetStats()
			}
		}()
	}
	wg.Wait()

	s := stats.GetStats()
	if s.ItemsAccepted != 1000 || s.FlushesCompleted != 1000 || s.CountFlushes != 1000 {
		t.Errorf("unexpected totals: %+v", s)
	}
}
