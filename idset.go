package idset

import (
	"github.com/hupe1980/idset/codec"
	"github.com/hupe1980/idset/setops"
)

const (
	// Name is the name the function set is registered under.
	Name = "roaring_msisdn"
	// Version is the release of the function set.
	Version = "0.1"
)

// Engine evaluates the catalog functions over columnar batches.
//
// An Engine is immutable after New and safe for concurrent use.
type Engine struct {
	codec        codec.Codec
	shards       int
	shardMinRows int
	maxGroups    int
	metrics      MetricsCollector
	logger       *Logger
}

// New creates an Engine.
func New(optFns ...Option) *Engine {
	o := defaultOptions()
	for _, fn := range optFns {
		fn(&o)
	}

	return &Engine{
		codec:        o.codec,
		shards:       o.shards,
		shardMinRows: o.shardMinRows,
		maxGroups:    o.maxGroups,
		metrics:      o.metricsCollector,
		logger:       o.logger,
	}
}

// Codec returns the codec the engine encodes results with.
func (e *Engine) Codec() codec.Codec {
	return e.codec
}

// algebra returns set algebra that reports malformed operands of function.
func (e *Engine) algebra(function string) setops.Algebra {
	return setops.Algebra{
		Codec: e.codec,
		Observe: func(s codec.Status) {
			if s == codec.StatusMalformed {
				e.metrics.RecordDegraded(function, DegradedMalformedBlob)
			}
		},
	}
}
