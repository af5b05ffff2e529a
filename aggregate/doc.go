// Package aggregate builds integer sets incrementally during grouped computation.
//
// A State follows the host aggregate contract:
//
//	Initialize → Accumulate / AccumulateConstant / Merge ... → Finalize → Destroy
//
// Under parallel execution the host keeps one State per shard, accumulates
// each shard independently (no locking), and merges the partial states in any
// order or tree shape. Merge is a set union, so it is commutative, associative
// and idempotent, and the finalized blob is identical for every partitioning
// of the same multiset of inputs. MergeAll runs such a tree merge with an
// errgroup.
package aggregate
