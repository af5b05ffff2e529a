package aggregate

import (
	"github.com/hupe1980/idset/bitmap"
	"github.com/hupe1980/idset/codec"
)

// State accumulates identifiers for one group.
//
// The zero value is an uninitialized state: it owns no set, finalizes to a
// zero-length blob and adopts a copy of the source on Merge.
// A State is owned by one goroutine at a time.
type State struct {
	set *bitmap.Bitmap
}

// NewState returns an initialized state.
func NewState() *State {
	s := &State{}
	s.Initialize()
	return s
}

// Build returns an initialized state that has accumulated values.
func Build(values ...int64) *State {
	s := NewState()
	for _, v := range values {
		s.Accumulate(v)
	}
	return s
}

// Initialize creates the owned empty set, releasing any previous one.
func (s *State) Initialize() {
	s.set.Release()
	s.set = bitmap.New()
}

// Initialized reports whether the state owns a set.
func (s *State) Initialized() bool {
	return !s.set.Released()
}

// Accumulate inserts v when it is a positive identifier. Zero (the
// normalizer's failure value) and negative values are ignored.
func (s *State) Accumulate(v int64) {
	if v <= 0 {
		return
	}
	if s.set.Released() {
		s.set = bitmap.New()
	}
	s.set.Add(uint64(v))
}

// AccumulateConstant is Accumulate applied count times. Re-insertion is a
// no-op, so one insert suffices.
func (s *State) AccumulateConstant(v int64, count uint64) {
	if count == 0 {
		return
	}
	s.Accumulate(v)
}

// Merge folds source into s (the target): s becomes the union of both.
// An uninitialized target adopts a copy of the source; a nil, empty or
// uninitialized source leaves s unchanged. source is not modified.
func (s *State) Merge(source *State) {
	if source == nil || source.set.Released() || source.set.IsEmpty() {
		return
	}
	if s.set.Released() {
		s.set = source.set.Clone()
		return
	}
	s.set.Or(source.set)
}

// Cardinality returns the number of identifiers accumulated so far.
func (s *State) Cardinality() uint64 {
	if s.set.Released() {
		return 0
	}
	return s.set.Cardinality()
}

// Finalize encodes the accumulated set. An uninitialized state yields a
// zero-length blob.
func (s *State) Finalize() []byte {
	return s.FinalizeWith(codec.Default)
}

// FinalizeWith is Finalize with an explicit codec.
func (s *State) FinalizeWith(c codec.Codec) []byte {
	if s.set.Released() {
		return []byte{}
	}
	return c.Encode(s.set)
}

// Destroy releases the owned set. Calling it again is a no-op.
func (s *State) Destroy() {
	s.set.Release()
	s.set = nil
}
