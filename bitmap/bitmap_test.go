package bitmap

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBitmap_Primitives(t *testing.T) {
	b := New()
	defer b.Release()

	assert.True(t, b.IsEmpty())
	assert.Equal(t, uint64(0), b.Cardinality())

	b.Add(10)
	b.Add(10)
	b.Add(1 << 40)
	b.Add(math.MaxUint64)

	assert.Equal(t, uint64(3), b.Cardinality())
	assert.True(t, b.Contains(10))
	assert.True(t, b.Contains(1<<40))
	assert.True(t, b.Contains(math.MaxUint64))
	assert.False(t, b.Contains(11))
	assert.Equal(t, []uint64{10, 1 << 40, math.MaxUint64}, b.ToArray())
}

func TestBitmap_BinaryOps(t *testing.T) {
	tests := []struct {
		name string
		op   func(dst, src *Bitmap)
		want []uint64
	}{
		{"Or", (*Bitmap).Or, []uint64{1, 2, 3, 4}},
		{"And", (*Bitmap).And, []uint64{2, 3}},
		{"AndNot", (*Bitmap).AndNot, []uint64{1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Of(1, 2, 3)
			defer a.Release()
			b := Of(2, 3, 4)
			defer b.Release()

			tt.op(a, b)
			assert.Equal(t, tt.want, a.ToArray())
			// The source operand is never modified.
			assert.Equal(t, []uint64{2, 3, 4}, b.ToArray())
		})
	}
}

func TestBitmap_CloneIsDeep(t *testing.T) {
	a := Of(1, 2)
	defer a.Release()

	c := a.Clone()
	defer c.Release()

	c.Add(3)
	assert.Equal(t, uint64(2), a.Cardinality())
	assert.Equal(t, uint64(3), c.Cardinality())
	assert.False(t, a.Equals(c))
}

func TestBitmap_ReleaseIsIdempotent(t *testing.T) {
	b := Of(1)
	b.Release()
	assert.True(t, b.Released())
	assert.NotPanics(t, b.Release)

	var nilBitmap *Bitmap
	assert.NotPanics(t, nilBitmap.Release)
	assert.True(t, nilBitmap.Released())

	// A recycled bitmap starts empty.
	fresh := New()
	defer fresh.Release()
	assert.True(t, fresh.IsEmpty())
}

func TestBitmap_Values(t *testing.T) {
	b := Of(5, 1, 3)
	defer b.Release()

	var got []uint64
	for v := range b.Values() {
		got = append(got, v)
		if len(got) == 2 {
			break
		}
	}
	assert.Equal(t, []uint64{1, 3}, got)
}

func TestBitmap_PortableGolden(t *testing.T) {
	b := Of(1)
	defer b.Release()

	want := []byte{
		0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, // bucket count
		0x00, 0x00, 0x00, 0x00, // high key
		0x3A, 0x30, 0x00, 0x00, // cookie (no run containers)
		0x01, 0x00, 0x00, 0x00, // container count
		0x00, 0x00, 0x00, 0x00, // key 0, cardinality-1 = 0
		0x10, 0x00, 0x00, 0x00, // offset of container 0
		0x01, 0x00, // value 1
	}

	require.Equal(t, uint64(len(want)), b.PortableSize())

	buf := make([]byte, b.PortableSize())
	n, err := b.SerializeTo(buf)
	require.NoError(t, err)
	require.Equal(t, len(want), n)
	assert.Equal(t, want, buf)

	got, err := Deserialize(want)
	require.NoError(t, err)
	defer got.Release()
	assert.Equal(t, []uint64{1}, got.ToArray())
}

func TestBitmap_SerializeRoundTrip(t *testing.T) {
	b := New()
	defer b.Release()
	for i := uint64(0); i < 5000; i++ {
		b.Add(i * 7919)
		b.Add(1<<33 + i)
	}
	for i := uint64(100000); i < 170000; i++ {
		b.Add(i) // dense range, bitmap container
	}

	buf := make([]byte, b.PortableSize())
	n, err := b.SerializeTo(buf)
	require.NoError(t, err)
	require.Equal(t, len(buf), n)

	got, err := Deserialize(buf)
	require.NoError(t, err)
	defer got.Release()
	assert.True(t, b.Equals(got))

	again := make([]byte, got.PortableSize())
	_, err = got.SerializeTo(again)
	require.NoError(t, err)
	assert.Equal(t, buf, again)
}

func TestBitmap_SerializeToShortBuffer(t *testing.T) {
	b := Of(1, 2, 3)
	defer b.Release()

	buf := make([]byte, b.PortableSize()-1)
	_, err := b.SerializeTo(buf)
	require.ErrorIs(t, err, ErrShortBuffer)
}

func TestDeserialize_Malformed(t *testing.T) {
	huge := make([]byte, 16)
	binary.LittleEndian.PutUint64(huge, math.MaxUint64)

	valid := Of(1, 2, 3)
	defer valid.Release()
	good := make([]byte, valid.PortableSize())
	_, err := valid.SerializeTo(good)
	require.NoError(t, err)

	tests := []struct {
		name string
		data []byte
	}{
		{"TooShort", []byte{0x01, 0x02}},
		{"HugeBucketCount", huge},
		{"Truncated", good[:len(good)-3]},
		{"BadCookie", func() []byte {
			bad := append([]byte(nil), good...)
			bad[12] = 0xFF
			bad[13] = 0xFF
			return bad
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := Deserialize(tt.data)
			require.ErrorIs(t, err, ErrMalformed)
			assert.Nil(t, b)
		})
	}
}

func TestDeserialize_NativeEmptyEncoding(t *testing.T) {
	// Eight zero bytes: zero buckets, the library's own empty encoding.
	b, err := Deserialize(make([]byte, 8))
	require.NoError(t, err)
	defer b.Release()
	assert.True(t, b.IsEmpty())
}
