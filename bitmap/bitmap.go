package bitmap

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"iter"
	"sync"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
)

// Portable layout constants (RoaringFormatSpec, 64-bit extension):
// an 8-byte little-endian bucket count followed by, per bucket, a 4-byte
// high key and a 32-bit portable roaring bitmap.
const (
	bucketCountSize = 8
	bucketKeySize   = 4
	// minBucketBodySize is the smallest 32-bit portable bitmap (cookie + container count).
	minBucketBodySize = 8
)

var (
	// ErrMalformed is returned by Deserialize when the buffer is not a valid portable encoding.
	ErrMalformed = errors.New("bitmap: malformed portable encoding")

	// ErrShortBuffer is returned by SerializeTo when the buffer cannot hold the encoding.
	ErrShortBuffer = errors.New("bitmap: short buffer")
)

// Set is the capability surface of the compressed integer set.
// Bitmap is the only implementation; the interface documents the primitives
// the codec, algebra and aggregate layers are allowed to rely on.
type Set interface {
	Add(x uint64)
	Contains(x uint64) bool
	Cardinality() uint64
	PortableSize() uint64
	SerializeTo(buf []byte) (int, error)
}

var _ Set = (*Bitmap)(nil)

// Bitmap is an owned 64-bit roaring bitmap.
// A Bitmap has exactly one owner; it is not safe for concurrent mutation.
type Bitmap struct {
	rb *roaring64.Bitmap
}

// bitmapPool recycles released bitmaps to cut allocations in batch hot paths.
var bitmapPool = sync.Pool{
	New: func() any {
		return &Bitmap{
			rb: roaring64.New(),
		}
	},
}

// New returns an empty bitmap. Call Release when done.
func New() *Bitmap {
	b := bitmapPool.Get().(*Bitmap)
	if b.rb == nil {
		b.rb = roaring64.New()
	}
	return b
}

// Of returns a bitmap holding the given values.
func Of(values ...uint64) *Bitmap {
	b := New()
	b.rb.AddMany(values)
	return b
}

// Release hands the bitmap back to the pool.
// Releasing a nil or already released bitmap is a no-op.
func (b *Bitmap) Release() {
	if b == nil || b.rb == nil {
		return
	}
	// Clear before returning to pool to release container memory
	b.rb.Clear()
	bitmapPool.Put(&Bitmap{rb: b.rb})
	b.rb = nil
}

// Released reports whether Release has been called on b.
func (b *Bitmap) Released() bool {
	return b == nil || b.rb == nil
}

// Clone returns a deep copy of the bitmap.
func (b *Bitmap) Clone() *Bitmap {
	c := New()
	c.rb.Or(b.rb)
	return c
}

// Add inserts x. Adding a present value is a no-op.
func (b *Bitmap) Add(x uint64) {
	b.rb.Add(x)
}

// Contains reports whether x is a member.
func (b *Bitmap) Contains(x uint64) bool {
	return b.rb.Contains(x)
}

// Cardinality returns the number of members.
func (b *Bitmap) Cardinality() uint64 {
	return b.rb.GetCardinality()
}

// IsEmpty reports whether the bitmap has no members.
func (b *Bitmap) IsEmpty() bool {
	return b.rb.IsEmpty()
}

// Or unions other into b.
func (b *Bitmap) Or(other *Bitmap) {
	b.rb.Or(other.rb)
}

// And intersects b with other in place.
func (b *Bitmap) And(other *Bitmap) {
	b.rb.And(other.rb)
}

// AndNot removes every member of other from b.
func (b *Bitmap) AndNot(other *Bitmap) {
	b.rb.AndNot(other.rb)
}

// Equals reports whether both bitmaps hold the same members.
func (b *Bitmap) Equals(other *Bitmap) bool {
	return b.rb.Equals(other.rb)
}

// ToArray returns the members in ascending order.
func (b *Bitmap) ToArray() []uint64 {
	return b.rb.ToArray()
}

// Values returns an ascending iterator over the members.
func (b *Bitmap) Values() iter.Seq[uint64] {
	return func(yield func(uint64) bool) {
		it := b.rb.Iterator()
		for it.HasNext() {
			if !yield(it.Next()) {
				return
			}
		}
	}
}

// PortableSize returns the exact size of the portable encoding.
func (b *Bitmap) PortableSize() uint64 {
	return b.rb.GetSerializedSizeInBytes()
}

// SerializeTo writes the portable encoding into buf and returns the number of
// bytes written. buf must be at least PortableSize bytes long.
func (b *Bitmap) SerializeTo(buf []byte) (int, error) {
	w := &fixedWriter{buf: buf}
	n, err := b.rb.WriteTo(w)
	if err != nil {
		return int(n), err
	}
	return int(n), nil
}

// Deserialize decodes a portable encoding into a new bitmap.
// The buffer is validated before the library parser trusts any length field,
// and a panicking parser is reported as ErrMalformed.
func Deserialize(buf []byte) (b *Bitmap, err error) {
	if err := validateHeader(buf); err != nil {
		return nil, err
	}

	b = New()
	defer func() {
		if r := recover(); r != nil {
			b.Release()
			b = nil
			err = fmt.Errorf("%w: %v", ErrMalformed, r)
		}
	}()

	if _, err := b.rb.ReadFrom(bytes.NewReader(buf)); err != nil {
		b.Release()
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return b, nil
}

func validateHeader(buf []byte) error {
	if len(buf) < bucketCountSize {
		return fmt.Errorf("%w: %d bytes is shorter than the bucket count", ErrMalformed, len(buf))
	}
	buckets := binary.LittleEndian.Uint64(buf[:bucketCountSize])
	maxBuckets := uint64(len(buf)-bucketCountSize) / (bucketKeySize + minBucketBodySize)
	if buckets > maxBuckets {
		return fmt.Errorf("%w: %d buckets do not fit in %d bytes", ErrMalformed, buckets, len(buf))
	}
	return nil
}

// fixedWriter writes into a preallocated slice and never grows it.
type fixedWriter struct {
	buf []byte
	off int
}

func (w *fixedWriter) Write(p []byte) (int, error) {
	n := copy(w.buf[w.off:], p)
	w.off += n
	if n < len(p) {
		return n, ErrShortBuffer
	}
	return n, nil
}
