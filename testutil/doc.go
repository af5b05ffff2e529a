// Package testutil provides testing utilities for idset.
//
// This package is intended for use in tests and benchmarks only.
// It provides a seeded, thread-safe RNG with helpers for generating
// subscriber-number-like identifiers and random shard layouts.
//
// # Identifier Generation
//
//	rng := testutil.NewRNG(seed)
//	ids := rng.Identifiers(10_000, testutil.MobileRange)
//
// # Sharding
//
//	shards := rng.Partition(ids, 8)   // 8 random, possibly uneven shards
//	rng.Shuffle(len(shards), func(i, j int) { shards[i], shards[j] = shards[j], shards[i] })
package testutil
