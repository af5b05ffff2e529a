package codec

import (
	"github.com/hupe1980/idset/bitmap"
	"github.com/hupe1980/idset/internal/conv"
)

// Status describes how a blob was decoded.
type Status uint8

const (
	// StatusEmpty means the input was zero-length or nil: the empty set by convention.
	StatusEmpty Status = iota
	// StatusOK means the input was a valid portable encoding (possibly of an empty set).
	StatusOK
	// StatusMalformed means the input failed validation and was replaced by the empty set.
	StatusMalformed
)

func (s Status) String() string {
	switch s {
	case StatusEmpty:
		return "empty"
	case StatusOK:
		return "ok"
	case StatusMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// Portable is the roaring64 portable codec with the zero-length-means-empty
// convention layered on top.
type Portable struct{}

// Encode implements Codec.
func (Portable) Encode(s *bitmap.Bitmap) []byte { return Encode(s) }

// Decode implements Codec.
func (Portable) Decode(data []byte) *bitmap.Bitmap { return Decode(data) }

// DecodeStatus implements Codec.
func (Portable) DecodeStatus(data []byte) (*bitmap.Bitmap, Status) { return DecodeStatus(data) }

// Name returns the unique name of the codec ("portable").
func (Portable) Name() string { return "portable" }

// Encode serializes s to the portable layout.
//
// A nil or empty set yields a zero-length slice without consulting the library
// serializer, whose own empty encoding is eight zero bytes. If the bytes written
// differ from the predicted size the result is also zero-length.
func Encode(s *bitmap.Bitmap) []byte {
	if s.Released() || s.Cardinality() == 0 {
		return []byte{}
	}
	return encodeTo(s)
}

// serializer is the part of a set Encode writes through.
type serializer interface {
	PortableSize() uint64
	SerializeTo(buf []byte) (int, error)
}

func encodeTo(s serializer) []byte {
	size, err := conv.Uint64ToInt(s.PortableSize())
	if err != nil || size == 0 {
		return []byte{}
	}

	buf := make([]byte, size)
	n, err := s.SerializeTo(buf)
	if err != nil || n != size {
		return []byte{}
	}
	return buf
}

// Decode reconstructs a set from data. The caller owns the result.
// Zero-length input and malformed input both produce a new empty set.
func Decode(data []byte) *bitmap.Bitmap {
	s, _ := DecodeStatus(data)
	return s
}

// DecodeStatus is Decode plus the reason an empty set came back.
func DecodeStatus(data []byte) (*bitmap.Bitmap, Status) {
	if len(data) == 0 {
		return bitmap.New(), StatusEmpty
	}

	s, err := bitmap.Deserialize(data)
	if err != nil {
		return bitmap.New(), StatusMalformed
	}
	return s, StatusOK
}
