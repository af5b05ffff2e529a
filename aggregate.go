package idset

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/idset/aggregate"
	"github.com/hupe1980/idset/vector"
)

// Aggregate runs the aggregate function name over a grouped batch.
//
// groups[i] is the group of input row i. Group ids are dense indexes: they
// must be non-negative and below the engine's group limit (see WithMaxGroups),
// and the result has one row per group id up to the largest one seen. NULL input
// rows are ignored. A group without any accumulated identifier finalizes to a
// zero-length blob.
//
// Large batches are split into contiguous shards that accumulate in parallel;
// the per-group partial states are then tree-merged. The result is identical
// for every shard count.
func (e *Engine) Aggregate(ctx context.Context, name string, groups []int, input vector.Vector) (out *vector.Blob, err error) {
	start := time.Now()
	rows, nGroups, shards := len(groups), 0, 0
	defer func() {
		e.metrics.RecordAggregate(name, rows, nGroups, time.Since(start), err)
		e.logger.LogAggregate(ctx, name, rows, nGroups, shards, err)
	}()

	f, ok := lookup(name)
	if !ok || f.info.Kind != KindAggregate {
		return nil, fmt.Errorf("%w: %q is not an aggregate", ErrUnknownFunction, name)
	}
	if _, err = validate(f.info, []vector.Vector{input}); err != nil {
		return nil, err
	}
	values := input.(*vector.Int64)
	if values.Len() != rows {
		return nil, &ErrLengthMismatch{Function: name, Position: 0, Expected: rows, Actual: values.Len()}
	}

	for i, g := range groups {
		if g < 0 {
			return nil, fmt.Errorf("%w: %s: row %d has negative group %d", ErrInvalidArgument, name, i, g)
		}
		if g >= e.maxGroups {
			return nil, fmt.Errorf("%w: %s: row %d has group %d, limit is %d", ErrInvalidArgument, name, i, g, e.maxGroups)
		}
		nGroups = max(nGroups, g+1)
	}

	shards = e.shardCount(rows)
	partials, err := e.accumulate(ctx, groups, values, nGroups, shards)
	if err != nil {
		return nil, err
	}

	out = vector.NewBlob(nGroups)
	perGroup := make([]*aggregate.State, shards)
	for g := range nGroups {
		for k := range shards {
			perGroup[k] = partials[k][g]
			partials[k][g] = nil
		}
		merged, err := aggregate.MergeAll(ctx, perGroup)
		if err != nil {
			releasePartials(partials)
			return nil, err
		}
		out.Values[g] = merged.FinalizeWith(e.codec)
		merged.Destroy()
	}
	return out, nil
}

func (e *Engine) shardCount(rows int) int {
	if rows < e.shardMinRows || e.shards <= 1 {
		return 1
	}
	return max(1, min(e.shards, rows))
}

// accumulate builds one state slice per shard. Shard k owns the contiguous
// rows [k*rows/shards, (k+1)*rows/shards). States are created lazily, so a
// group absent from a shard stays nil there.
func (e *Engine) accumulate(ctx context.Context, groups []int, values *vector.Int64, nGroups, shards int) ([][]*aggregate.State, error) {
	rows := len(groups)
	partials := make([][]*aggregate.State, shards)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(shards)

	for k := range shards {
		lo, hi := k*rows/shards, (k+1)*rows/shards
		states := make([]*aggregate.State, nGroups)
		partials[k] = states

		g.Go(func() error {
			for i := lo; i < hi; i++ {
				if err := checkpoint(gctx, i-lo); err != nil {
					return err
				}
				if values.IsNull(i) {
					continue
				}
				st := states[groups[i]]
				if st == nil {
					st = aggregate.NewState()
					states[groups[i]] = st
				}
				st.Accumulate(values.Values[i])
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		releasePartials(partials)
		return nil, err
	}
	return partials, nil
}

func releasePartials(partials [][]*aggregate.State) {
	for _, states := range partials {
		for _, st := range states {
			if st != nil {
				st.Destroy()
			}
		}
	}
}
