package sink

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisMode selects how RedisWriter stores items.
type RedisMode string

const (
	// RedisList appends items to a list with RPUSH.
	RedisList RedisMode = "list"
	// RedisStream appends items to a stream with XADD.
	RedisStream RedisMode = "stream"
)

// RedisWriterOptions configures a RedisWriter.
type RedisWriterOptions struct {
	// Mode is RedisList or RedisStream. Default: RedisList.
	Mode RedisMode

	// Field is the stream entry field holding the payload. Default: "data".
	Field string

	// MaxLen trims the stream to this many entries. Zero means no trimming.
	// Ignored in list mode.
	MaxLen int64

	// Transactional wraps each batch in MULTI/EXEC so that it is stored
	// entirely or not at all.
	Transactional bool
}

// RedisWriter stores batches in Redis. Each batch is sent as one pipeline.
type RedisWriter[T any] struct {
	client redis.Cmdable
	key    string
	encode func(T) ([]byte, error)
	opts   RedisWriterOptions
}

// NewRedisWriter creates a RedisWriter that stores items under key. If encode
// is nil, items are stored as JSON. opts may be nil.
func NewRedisWriter[T any](client redis.Cmdable, key string, encode func(T) ([]byte, error), opts *RedisWriterOptions) *RedisWriter[T] {
	if encode == nil {
		encode = func(item T) ([]byte, error) {
			return json.Marshal(item)
		}
	}

	var o RedisWriterOptions
	if opts != nil {
		o = *opts
	}
	if o.Mode == "" {
		o.Mode = RedisList
	}
	if o.Field == "" {
		o.Field = "data"
	}

	return &RedisWriter[T]{
		client: client,
		key:    key,
		encode: encode,
		opts:   o,
	}
}

// Write implements chunker.WriterFunc. It returns the first encode or Redis
// error. With a non-transactional pipeline, commands before a failing one may
// already have been applied.
func (w *RedisWriter[T]) Write(ctx context.Context, items []T) error {
	payloads := make([][]byte, len(items))
	for i, item := range items {
		b, err := w.encode(item)
		if err != nil {
			return fmt.Errorf("encode item %d: %w", i, err)
		}
		payloads[i] = b
	}

	var pipe redis.Pipeliner
	if w.opts.Transactional {
		pipe = w.client.TxPipeline()
	} else {
		pipe = w.client.Pipeline()
	}

	switch w.opts.Mode {
	case RedisList:
		args := make([]interface{}, len(payloads))
		for i, p := range payloads {
			args[i] = p
		}
		pipe.RPush(ctx, w.key, args...)
	case RedisStream:
		for _, p := range payloads {
			pipe.XAdd(ctx, &redis.XAddArgs{
				Stream: w.key,
				MaxLen: w.opts.MaxLen,
				Values: map[string]interface{}{w.opts.Field: p},
			})
		}
	default:
		return fmt.Errorf("unknown redis mode %q", w.opts.Mode)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis %s %q: %w", w.opts.Mode, w.key, err)
	}
	return nil
}
