// Package codec centralizes set encoding.
//
// idset treats the codec as a compatibility boundary: blobs are stored by the
// host and compared byte for byte, so a codec must be deterministic and must
// never change its layout for an existing name.
package codec

import "github.com/hupe1980/idset/bitmap"

// Codec encodes/decodes integer sets.
// Implementations must be safe for concurrent use.
type Codec interface {
	// Encode returns the blob form of s. The empty set encodes to a zero-length slice.
	Encode(s *bitmap.Bitmap) []byte
	// Decode returns a new owned set. It never fails; bad input degrades to the empty set.
	Decode(data []byte) *bitmap.Bitmap
	// DecodeStatus is Decode with the degradation made visible.
	DecodeStatus(data []byte) (*bitmap.Bitmap, Status)
	Name() string
}

// Default is the codec used when none is configured.
var Default Codec = Portable{}

// ByName returns a built-in codec by its stable name.
func ByName(name string) (Codec, bool) {
	switch name {
	case "portable", "roaring64-portable":
		return Portable{}, true
	default:
		return nil, false
	}
}
