package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/MasterOfBinary/gochunk/chunker"
	"github.com/MasterOfBinary/gochunk/sink"
)

// config is the chunkload configuration. It is read from an optional YAML file
// and then overridden by any flag given on the command line.
type config struct {
	Limits chunker.Limits `yaml:"limits"`

	// Records is the number of records to generate.
	Records int `yaml:"records"`

	// Producers is the number of goroutines enqueuing records.
	Producers int `yaml:"producers"`

	// Rate caps records per second across all producers. Zero means unlimited.
	Rate float64 `yaml:"rate"`

	// InflateAfter makes records from this index on report a size of
	// index*1024, which forces size-triggered flushes. Zero disables it.
	InflateAfter int `yaml:"inflateAfter"`

	Sink  string      `yaml:"sink"`
	Redis redisConfig `yaml:"redis"`

	MetricsAddr string `yaml:"metricsAddr"`
	Verbosity   int    `yaml:"verbosity"`
}

type redisConfig struct {
	URL    string `yaml:"url"`
	Key    string `yaml:"key"`
	Mode   string `yaml:"mode"`
	MaxLen int64  `yaml:"maxLen"`
}

func defaultConfig() config {
	return config{
		// Kinesis PutRecords: at most 500 records and 5 MiB, keep 5% headroom.
		Limits:    chunker.Limits{CountLimit: 500, SizeLimit: 5 * 1024 * 1024 * 0.95},
		Records:   1500,
		Producers: 1,
		Sink:      "stdout",
		Redis: redisConfig{
			URL:  "redis://localhost:6379/0",
			Key:  "chunkload",
			Mode: string(sink.RedisList),
		},
	}
}

func (c config) validate() error {
	if err := c.Limits.Validate(); err != nil {
		return err
	}
	if c.Records < 0 {
		return fmt.Errorf("records cannot be negative, got %d", c.Records)
	}
	if c.Producers <= 0 {
		return fmt.Errorf("producers must be positive, got %d", c.Producers)
	}
	if c.Rate < 0 {
		return fmt.Errorf("rate cannot be negative, got %g", c.Rate)
	}
	switch c.Sink {
	case "stdout":
	case "redis":
		if c.Redis.Key == "" {
			return errors.New("redis key cannot be empty")
		}
		if c.Redis.Mode != string(sink.RedisList) && c.Redis.Mode != string(sink.RedisStream) {
			return fmt.Errorf("unknown redis mode %q", c.Redis.Mode)
		}
	default:
		return fmt.Errorf("unknown sink %q", c.Sink)
	}
	return nil
}

// parseConfig builds the configuration from args.
func parseConfig(args []string) (config, error) {
	cfg := defaultConfig()

	fs := pflag.NewFlagSet("chunkload", pflag.ContinueOnError)
	var (
		configPath   = fs.String("config", "", "Path to a YAML config file")
		records      = fs.Int("records", cfg.Records, "Number of records to generate")
		producers    = fs.Int("producers", cfg.Producers, "Number of concurrent producers")
		rateLimit    = fs.Float64("rate", cfg.Rate, "Maximum records per second, 0 for unlimited")
		countLimit   = fs.Int("count-limit", cfg.Limits.CountLimit, "Maximum records per batch")
		sizeLimit    = fs.Float64("size-limit", cfg.Limits.SizeLimit, "Maximum summed record size per batch, in bytes")
		inflateAfter = fs.Int("inflate-after", cfg.InflateAfter, "Report a size of index*1024 for records from this index on, 0 to disable")
		sinkName     = fs.String("sink", cfg.Sink, "Where batches go: stdout or redis")
		redisURL     = fs.String("redis-url", cfg.Redis.URL, "Redis URL")
		redisKey     = fs.String("redis-key", cfg.Redis.Key, "Redis list or stream key")
		redisMode    = fs.String("redis-mode", cfg.Redis.Mode, "Redis mode: list or stream")
		metricsAddr  = fs.String("metrics-addr", cfg.MetricsAddr, "Address to serve Prometheus metrics on, empty to disable")
		verbosity    = fs.IntP("verbosity", "v", cfg.Verbosity, "Log verbosity; 1 logs every batch")
	)
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	if *configPath != "" {
		data, err := os.ReadFile(*configPath)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", *configPath, err)
		}
	}

	// Flags win over the file, but only when given explicitly.
	overrides := map[string]func(){
		"records":       func() { cfg.Records = *records },
		"producers":     func() { cfg.Producers = *producers },
		"rate":          func() { cfg.Rate = *rateLimit },
		"count-limit":   func() { cfg.Limits.CountLimit = *countLimit },
		"size-limit":    func() { cfg.Limits.SizeLimit = *sizeLimit },
		"inflate-after": func() { cfg.InflateAfter = *inflateAfter },
		"sink":          func() { cfg.Sink = *sinkName },
		"redis-url":     func() { cfg.Redis.URL = *redisURL },
		"redis-key":     func() { cfg.Redis.Key = *redisKey },
		"redis-mode":    func() { cfg.Redis.Mode = *redisMode },
		"metrics-addr":  func() { cfg.MetricsAddr = *metricsAddr },
		"verbosity":     func() { cfg.Verbosity = *verbosity },
	}
	fs.Visit(func(f *pflag.Flag) {
		if apply, ok := overrides[f.Name]; ok {
			apply()
		}
	})

	return cfg, cfg.validate()
}
