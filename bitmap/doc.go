// Package bitmap wraps the 64-bit roaring bitmap as an owned integer set.
//
// The wrapper exposes only the primitives the rest of idset relies on:
// create, release, clone, add, contains, cardinality, the three in-place
// binary operations, and the portable serialization (size query, serialize,
// validating deserialize).
//
// # Portable Format
//
// SerializeTo and Deserialize use the RoaringFormatSpec 64-bit portable layout,
// the same bytes CRoaring's roaring64_bitmap_portable_serialize produces:
//
//	┌──────────────────┬───────────────┬────────────────────────────┬─────┐
//	│ bucket count u64 │ high key u32  │ 32-bit portable bitmap     │ ... │
//	│ little endian    │ little endian │ (cookie, containers, data) │     │
//	└──────────────────┴───────────────┴────────────────────────────┴─────┘
//
// # Ownership
//
// Every Bitmap returned by New, Of, Clone or Deserialize has exactly one
// owner, who must call Release once. Released bitmaps are recycled through a
// sync.Pool.
package bitmap
