package idset

import (
	"log/slog"
	"runtime"

	"github.com/hupe1980/idset/codec"
)

// DefaultShardMinRows is the batch size below which Aggregate runs on a single shard.
const DefaultShardMinRows = 4096

// DefaultMaxGroups bounds the number of groups a single Aggregate call may produce.
const DefaultMaxGroups = 1 << 20

type options struct {
	codec            codec.Codec
	shards           int
	shardMinRows     int
	maxGroups        int
	metricsCollector MetricsCollector
	logger           *Logger
}

func defaultOptions() options {
	return options{
		codec:            codec.Default,
		shards:           runtime.GOMAXPROCS(0),
		shardMinRows:     DefaultShardMinRows,
		maxGroups:        DefaultMaxGroups,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
}

// Option configures an Engine.
type Option func(*options)

// WithCodec configures the codec used to decode operands and encode results.
//
// If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithShards sets how many shards a grouped aggregate is split into.
// Each shard accumulates its slice of the batch on its own goroutine and the
// partial states are merged afterwards. The result does not depend on the
// shard count.
//
// Defaults to runtime.GOMAXPROCS(0). Values below 1 disable sharding.
func WithShards(n int) Option {
	return func(o *options) {
		if n < 1 {
			n = 1
		}
		o.shards = n
	}
}

// WithShardMinRows sets the batch size below which Aggregate does not shard.
func WithShardMinRows(n int) Option {
	return func(o *options) {
		o.shardMinRows = n
	}
}

// WithMaxGroups sets the largest number of groups Aggregate accepts. Group ids
// index a dense per-group state array, so a batch whose largest group id is
// n or more is rejected with ErrInvalidArgument.
//
// Values below 1 restore DefaultMaxGroups.
func WithMaxGroups(n int) Option {
	return func(o *options) {
		if n < 1 {
			n = DefaultMaxGroups
		}
		o.maxGroups = n
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &idset.BasicMetricsCollector{}
//	eng := idset.New(idset.WithMetricsCollector(metrics))
//	// ... use eng ...
//	stats := metrics.GetStats()
//	fmt.Printf("Calls: %d, malformed blobs: %d\n", stats.CallCount, stats.MalformedBlobs)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := idset.NewJSONLogger(slog.LevelInfo)
//	eng := idset.New(idset.WithLogger(logger))
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
