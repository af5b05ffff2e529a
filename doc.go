// Package idset builds, stores and queries compact sets of subscriber
// identifiers.
//
// Free-form phone numbers are normalized to 64-bit identifiers, folded into
// compressed roaring sets by a grouped aggregate, and exchanged as opaque
// blobs in the portable roaring64 layout. Blobs can be tested for membership,
// counted and combined with union, intersection and difference.
//
// # Quick Start
//
//	ctx := context.Background()
//	eng := idset.New()
//
//	ids, _ := eng.Call(ctx, "msisdn_normalize", vector.TextOf("+49 151 1234567", "0151-7654321"))
//	sets, _ := eng.Aggregate(ctx, "bitmap_agg", []int{0, 0}, ids)
//
//	has, _ := eng.Call(ctx, "bitmap_has", sets, vector.Int64Of(491511234567))
//
// # Functions
//
//	roaring_test()                     -> VARCHAR   loaded check
//	msisdn_normalize(VARCHAR)          -> BIGINT    0 for invalid input
//	bitmap_has(BLOB, BIGINT)           -> BOOLEAN
//	bitmap_cardinality(BLOB)           -> BIGINT    NULL for empty or malformed
//	bitmap_union(BLOB, BLOB)           -> BLOB
//	bitmap_intersection(BLOB, BLOB)    -> BLOB
//	bitmap_difference(BLOB, BLOB)      -> BLOB
//	bitmap_agg(BIGINT)                 -> BLOB      aggregate
//
// # Error Model
//
// Data faults degrade to values: a malformed blob behaves like the empty set
// and unparseable text normalizes to 0. They are counted through
// MetricsCollector.RecordDegraded. Only programming errors at the batch
// boundary (unknown function, wrong arity, column type or length, cancelled
// context) are returned as errors.
//
// # Persistence
//
//	store := setstore.NewCompressedStore(setstore.NewLocalStore("./sets"), setstore.CompressionZstd)
//	_ = eng.Save(ctx, store, "daily/2026-10-19", sets.Values[0])
//	blob, err := eng.Load(ctx, store, "daily/2026-10-19")
//
// Remote backends live in setstore/s3, setstore/minio and setstore/dynamodb.
package idset
