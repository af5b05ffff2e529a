// Package setops implements set algebra over encoded sets.
//
// Every function takes blobs, decodes them, and (for the binary operations)
// returns a new blob. None of them fail: a malformed operand is treated as the
// empty set, and the only NULL-like answer is Cardinality's ok=false.
package setops

import (
	"github.com/hupe1980/idset/bitmap"
	"github.com/hupe1980/idset/codec"
	"github.com/hupe1980/idset/internal/conv"
)

// Algebra evaluates set operations with a configurable codec.
// The zero value uses codec.Default and observes nothing.
type Algebra struct {
	// Codec decodes operands and encodes results. Nil means codec.Default.
	Codec codec.Codec
	// Observe, if set, is called with the decode status of every operand.
	Observe func(codec.Status)
}

var std Algebra

// Has reports whether id is a member of the encoded set.
func Has(blob []byte, id uint64) bool { return std.Has(blob, id) }

// Cardinality returns the member count. ok is false for a zero-length or
// malformed blob, which the host surfaces as NULL.
func Cardinality(blob []byte) (n int64, ok bool) { return std.Cardinality(blob) }

// Union returns the encoding of a ∪ b.
func Union(a, b []byte) []byte { return std.Union(a, b) }

// Intersect returns the encoding of a ∩ b.
func Intersect(a, b []byte) []byte { return std.Intersect(a, b) }

// Difference returns the encoding of a \ b.
func Difference(a, b []byte) []byte { return std.Difference(a, b) }

func (a Algebra) currentCodec() codec.Codec {
	if a.Codec == nil {
		return codec.Default
	}
	return a.Codec
}

func (a Algebra) decode(blob []byte) (*bitmap.Bitmap, codec.Status) {
	s, status := a.currentCodec().DecodeStatus(blob)
	if a.Observe != nil {
		a.Observe(status)
	}
	return s, status
}

// Has reports whether id is a member of the encoded set.
func (a Algebra) Has(blob []byte, id uint64) bool {
	s, _ := a.decode(blob)
	if s == nil {
		return false
	}
	defer s.Release()
	return s.Contains(id)
}

// Cardinality returns the member count; see the package-level Cardinality.
func (a Algebra) Cardinality(blob []byte) (int64, bool) {
	s, status := a.decode(blob)
	if s == nil {
		return 0, false
	}
	defer s.Release()
	if status != codec.StatusOK {
		return 0, false
	}
	n, err := conv.Uint64ToInt64(s.Cardinality())
	if err != nil {
		return 0, false
	}
	return n, true
}

// Union returns the encoding of x ∪ y.
func (a Algebra) Union(x, y []byte) []byte { return a.apply(x, y, (*bitmap.Bitmap).Or) }

// Intersect returns the encoding of x ∩ y.
func (a Algebra) Intersect(x, y []byte) []byte { return a.apply(x, y, (*bitmap.Bitmap).And) }

// Difference returns the encoding of x \ y. It is not symmetric.
func (a Algebra) Difference(x, y []byte) []byte { return a.apply(x, y, (*bitmap.Bitmap).AndNot) }

// apply decodes both operands, runs op on a copy of the left one and
// re-encodes. Every decoded or copied set is released on every path.
func (a Algebra) apply(x, y []byte, op func(dst, src *bitmap.Bitmap)) []byte {
	left, _ := a.decode(x)
	right, _ := a.decode(y)
	if left == nil || right == nil {
		left.Release()
		right.Release()
		return []byte{}
	}
	defer left.Release()
	defer right.Release()

	result := left.Clone()
	defer result.Release()

	op(result, right)
	return a.currentCodec().Encode(result)
}
