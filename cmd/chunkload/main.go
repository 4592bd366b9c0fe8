// Command chunkload generates records and pushes them through a chunker into a
// sink, printing how the records were batched. It is handy for checking limits
// against a real Redis or for watching backpressure with a slow sink.
//
//	chunkload --records 1500 --count-limit 500 --inflate-after 500
//	chunkload --config load.yaml --sink redis --redis-url redis://localhost:6379/0
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/MasterOfBinary/gochunk/chunker"
	"github.com/MasterOfBinary/gochunk/metrics"
	"github.com/MasterOfBinary/gochunk/sink"
	"github.com/MasterOfBinary/gochunk/source"
)

// record mirrors a Kinesis PutRecords entry plus its position in the run.
type record struct {
	ID           string `json:"id"`
	Index        int    `json:"index"`
	Data         string `json:"data"`
	PartitionKey string `json:"partitionKey"`
}

func newRecord(i int) record {
	return record{
		ID:           uuid.NewString(),
		Index:        i,
		Data:         fmt.Sprintf("%05d", i),
		PartitionKey: fmt.Sprintf("%05d", i%100),
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "chunkload:", err)
		os.Exit(1)
	}
}

// run executes one load run. ctx only stops the producers; records already
// enqueued are always written before run returns.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cfg, err := parseConfig(args)
	if err != nil {
		return err
	}

	log := funcr.New(func(prefix, args string) {
		fmt.Fprintln(stderr, prefix, args)
	}, funcr.Options{Verbosity: cfg.Verbosity}).WithName("chunkload")

	reg := prometheus.NewRegistry()
	stats, err := metrics.NewPrometheusCollector(reg, "chunkload")
	if err != nil {
		return err
	}
	if cfg.MetricsAddr != "" {
		srv := &http.Server{
			Addr:              cfg.MetricsAddr,
			Handler:           promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error(err, "Metrics server failed")
			}
		}()
		defer srv.Close()
	}

	writer, closeWriter, err := newWriter(ctx, cfg, stdout)
	if err != nil {
		return err
	}
	defer closeWriter()

	c, err := chunker.New(context.Background(), cfg.Limits, newSizer(cfg), writer,
		chunker.WithLogger(chunker.NewLogrLogger(log)),
		chunker.WithStats(stats))
	if err != nil {
		return err
	}

	start := time.Now()
	produceErr := produce(ctx, c, cfg, log)

	log.Info("Waiting for chunker to finish")
	if err := c.OnIdle(context.Background()); err != nil {
		return fmt.Errorf("chunker: %w", err)
	}

	s := stats.GetStats()
	fmt.Fprintf(stdout, "records=%d batches=%d (count=%d size=%d final=%d) oversized=%d errors=%d elapsed=%v\n",
		s.ItemsFlushed, s.Flushes(), s.CountFlushes, s.SizeFlushes, s.FinalFlushes,
		s.OversizedItems, s.SinkErrors, time.Since(start).Round(time.Millisecond))

	if produceErr != nil {
		return produceErr
	}
	if errs := c.Errors(); len(errs) > 0 {
		for _, err := range errs {
			log.Error(err, "Batch failed")
		}
		return fmt.Errorf("%d batch(es) failed", len(errs))
	}
	return nil
}

// produce generates cfg.Records records and enqueues them from cfg.Producers
// goroutines.
func produce(ctx context.Context, c *chunker.Chunker[record], cfg config, log logr.Logger) error {
	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.Rate > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.Rate), 1)
	}

	g, ctx := errgroup.WithContext(ctx)
	records := make(chan record)
	g.Go(func() error {
		defer close(records)
		for i := 0; i < cfg.Records; i++ {
			if err := limiter.Wait(ctx); err != nil {
				return err
			}
			select {
			case records <- newRecord(i):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	for p := 0; p < cfg.Producers; p++ {
		g.Go(func() error {
			start := time.Now()
			n, err := source.FromChannel[record](ctx, records, c)
			log.V(2).Info("Producer finished", "producer", p, "records", n, "elapsed", time.Since(start))
			if err != nil {
				return fmt.Errorf("producer %d after %d record(s): %w", p, n, err)
			}
			return nil
		})
	}
	return g.Wait()
}

func newSizer(cfg config) chunker.SizerFunc[record] {
	jsonSize := sink.JSONSizer[record]()
	return func(ctx context.Context, rec record) (float64, error) {
		if cfg.InflateAfter > 0 && rec.Index >= cfg.InflateAfter {
			return float64(rec.Index * 1024), nil
		}
		return jsonSize(ctx, rec)
	}
}

func newWriter(ctx context.Context, cfg config, stdout io.Writer) (chunker.WriterFunc[record], func(), error) {
	switch cfg.Sink {
	case "redis":
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			return nil, nil, fmt.Errorf("parse redis URL: %w", err)
		}
		client := redis.NewClient(opts)

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("connect to redis: %w", err)
		}

		w := sink.NewRedisWriter[record](client, cfg.Redis.Key, nil, &sink.RedisWriterOptions{
			Mode:   sink.RedisMode(cfg.Redis.Mode),
			MaxLen: cfg.Redis.MaxLen,
		})
		return w.Write, func() { _ = client.Close() }, nil

	default:
		return func(_ context.Context, recs []record) error {
			_, err := fmt.Fprintf(stdout, "batch records=%d first=%d last=%d\n",
				len(recs), recs[0].Index, recs[len(recs)-1].Index)
			return err
		}, func() {}, nil
	}
}
