package aggregate

import (
	"context"
	"testing"

	"github.com/hupe1980/idset/bitmap"
	"github.com/hupe1980/idset/codec"
	"github.com/hupe1980/idset/setops"
	"github.com/hupe1980/idset/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestState_Lifecycle(t *testing.T) {
	s := NewState()
	require.True(t, s.Initialized())

	s.Accumulate(10)
	s.Accumulate(20)
	s.Accumulate(30)
	s.Accumulate(20)

	blob := s.Finalize()
	s.Destroy()
	assert.False(t, s.Initialized())

	assert.True(t, setops.Has(blob, 20))
	assert.False(t, setops.Has(blob, 99))
	n, ok := setops.Cardinality(blob)
	require.True(t, ok)
	assert.Equal(t, int64(3), n)
}

func TestState_IgnoresNonPositive(t *testing.T) {
	s := Build(0, -1, -15550101234, 7)
	defer s.Destroy()

	assert.Equal(t, uint64(1), s.Cardinality())

	empty := Build(0, -3)
	defer empty.Destroy()
	assert.Len(t, empty.Finalize(), 0)
}

func TestState_AccumulateConstant(t *testing.T) {
	naive := NewState()
	defer naive.Destroy()
	for i := 0; i < 5; i++ {
		naive.Accumulate(42)
	}

	fast := NewState()
	defer fast.Destroy()
	fast.AccumulateConstant(42, 5)

	assert.Equal(t, naive.Finalize(), fast.Finalize())

	none := NewState()
	defer none.Destroy()
	none.AccumulateConstant(42, 0)
	none.AccumulateConstant(-1, 10)
	assert.Equal(t, uint64(0), none.Cardinality())
}

func TestState_Uninitialized(t *testing.T) {
	var s State
	assert.False(t, s.Initialized())
	assert.Len(t, s.Finalize(), 0)
	assert.Equal(t, uint64(0), s.Cardinality())
	assert.NotPanics(t, s.Destroy)
	assert.NotPanics(t, s.Destroy)
}

func TestState_Merge(t *testing.T) {
	t.Run("Associativity", func(t *testing.T) {
		single := Build(1, 2, 2, 3)
		defer single.Destroy()

		left := Build(1, 2)
		defer left.Destroy()
		right := Build(2, 3)
		defer right.Destroy()
		left.Merge(right)

		assert.Equal(t, single.Finalize(), left.Finalize())
		// The source is untouched.
		assert.Equal(t, uint64(2), right.Cardinality())
	})

	t.Run("Commutativity", func(t *testing.T) {
		a1, b1 := Build(1, 5), Build(5, 9)
		a2, b2 := Build(1, 5), Build(5, 9)
		defer func() {
			for _, s := range []*State{a1, b1, a2, b2} {
				s.Destroy()
			}
		}()

		a1.Merge(b1)
		b2.Merge(a2)
		assert.Equal(t, a1.Finalize(), b2.Finalize())
	})

	t.Run("Idempotent", func(t *testing.T) {
		a, b := Build(1, 2), Build(2, 3)
		defer a.Destroy()
		defer b.Destroy()

		a.Merge(b)
		once := a.Finalize()
		a.Merge(b)
		assert.Equal(t, once, a.Finalize())
	})

	t.Run("EmptySourceIsNoop", func(t *testing.T) {
		target := Build(4, 5)
		defer target.Destroy()
		before := target.Finalize()

		empty := NewState()
		defer empty.Destroy()
		target.Merge(empty)
		target.Merge(nil)
		target.Merge(&State{})

		assert.Equal(t, before, target.Finalize())
	})

	t.Run("UninitializedTargetAdoptsCopy", func(t *testing.T) {
		source := Build(8, 9)
		defer source.Destroy()

		var target State
		target.Merge(source)
		defer target.Destroy()

		assert.Equal(t, source.Finalize(), target.Finalize())

		source.Accumulate(10)
		assert.Equal(t, uint64(2), target.Cardinality(), "target must own a copy")
	})
}

func TestState_FinalizeMatchesCodec(t *testing.T) {
	s := Build(3, 1, 2)
	defer s.Destroy()

	want := bitmap.Of(1, 2, 3)
	defer want.Release()

	assert.Equal(t, codec.Encode(want), s.Finalize())
	assert.Equal(t, codec.Encode(want), s.FinalizeWith(codec.Portable{}))
}

func TestMergeAll(t *testing.T) {
	ctx := context.Background()

	states := []*State{Build(1), nil, Build(2, 3), Build(3, 4), Build(), Build(5)}
	merged, err := MergeAll(ctx, states)
	require.NoError(t, err)
	defer merged.Destroy()

	want := Build(1, 2, 3, 4, 5)
	defer want.Destroy()
	assert.Equal(t, want.Finalize(), merged.Finalize())

	// Every input other than the survivor has been consumed.
	alive := 0
	for _, s := range states {
		if s != nil && s.Initialized() {
			alive++
		}
	}
	assert.Equal(t, 1, alive)
}

func TestMergeAll_Empty(t *testing.T) {
	merged, err := MergeAll(context.Background(), nil)
	require.NoError(t, err)
	defer merged.Destroy()
	assert.True(t, merged.Initialized())
	assert.Len(t, merged.Finalize(), 0)
}

func TestMergeAll_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	states := []*State{Build(1), Build(2)}
	merged, err := MergeAll(ctx, states)
	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, merged)
	for _, s := range states {
		assert.False(t, s.Initialized())
	}
}

func TestShardingInvariance(t *testing.T) {
	rng := testutil.NewRNG(4711)
	ids := rng.Identifiers(10_000, testutil.MobileRange)
	// Repeat a slice so the multiset has duplicates across shard boundaries.
	ids = append(ids, ids[:500]...)

	single := Build(ids...)
	want := single.Finalize()
	single.Destroy()

	for shards := 1; shards <= 50; shards++ {
		parts := rng.Partition(ids, shards)

		states := make([]*State, len(parts))
		for i, p := range parts {
			states[i] = Build(p...)
		}

		// Random merge order: shuffle, then fold sequentially or by tree.
		rng.Shuffle(len(states), func(i, j int) { states[i], states[j] = states[j], states[i] })

		var got []byte
		if shards%2 == 0 {
			merged, err := MergeAll(context.Background(), states)
			require.NoError(t, err)
			got = merged.Finalize()
			merged.Destroy()
		} else {
			var acc State
			for _, s := range states {
				acc.Merge(s)
				s.Destroy()
			}
			got = acc.Finalize()
			acc.Destroy()
		}

		require.Equal(t, want, got, "shards=%d", shards)
	}

	decoded := codec.Decode(want)
	defer decoded.Release()
	assert.Equal(t, testutil.Distinct(ids), decoded.ToArray())
}

func BenchmarkState_Accumulate(b *testing.B) {
	rng := testutil.NewRNG(1)
	ids := rng.Identifiers(100_000, testutil.MobileRange)

	b.ReportAllocs()
	for b.Loop() {
		s := Build(ids...)
		_ = s.Finalize()
		s.Destroy()
	}
}
