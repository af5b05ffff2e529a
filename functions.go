package idset

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/hupe1980/idset/msisdn"
	"github.com/hupe1980/idset/setops"
	"github.com/hupe1980/idset/vector"
)

// Kind distinguishes scalar functions from aggregates.
type Kind uint8

const (
	// KindScalar maps each input row to one output row (Engine.Call).
	KindScalar Kind = iota
	// KindAggregate folds the rows of each group into one value (Engine.Aggregate).
	KindAggregate
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindAggregate:
		return "aggregate"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// FunctionInfo describes a catalog entry.
type FunctionInfo struct {
	Name   string
	Args   []vector.Type
	Result vector.Type
	Kind   Kind
}

// Catalog function names.
const (
	FuncTest              = "roaring_test"
	FuncMsisdnNormalize   = "msisdn_normalize"
	FuncBitmapHas         = "bitmap_has"
	FuncBitmapCardinality = "bitmap_cardinality"
	FuncBitmapUnion       = "bitmap_union"
	FuncBitmapIntersect   = "bitmap_intersection"
	FuncBitmapDifference  = "bitmap_difference"
	FuncBitmapAgg         = "bitmap_agg"
)

// loadedMessage is the single row returned by roaring_test.
const loadedMessage = "Roaring MSISDN Extension Loaded!"

// ctxCheckRows is how many rows are processed between context checks.
const ctxCheckRows = 2048

type scalarFunc func(ctx context.Context, e *Engine, args []vector.Vector) (vector.Vector, error)

type function struct {
	info FunctionInfo
	run  scalarFunc
}

var catalog = []function{
	{FunctionInfo{FuncTest, nil, vector.TypeText, KindScalar}, runTest},
	{FunctionInfo{FuncMsisdnNormalize, []vector.Type{vector.TypeText}, vector.TypeInt64, KindScalar}, runNormalize},
	{FunctionInfo{FuncBitmapHas, []vector.Type{vector.TypeBlob, vector.TypeInt64}, vector.TypeBool, KindScalar}, runHas},
	{FunctionInfo{FuncBitmapCardinality, []vector.Type{vector.TypeBlob}, vector.TypeInt64, KindScalar}, runCardinality},
	{FunctionInfo{FuncBitmapIntersect, []vector.Type{vector.TypeBlob, vector.TypeBlob}, vector.TypeBlob, KindScalar}, binary(FuncBitmapIntersect, setops.Algebra.Intersect)},
	{FunctionInfo{FuncBitmapUnion, []vector.Type{vector.TypeBlob, vector.TypeBlob}, vector.TypeBlob, KindScalar}, binary(FuncBitmapUnion, setops.Algebra.Union)},
	{FunctionInfo{FuncBitmapDifference, []vector.Type{vector.TypeBlob, vector.TypeBlob}, vector.TypeBlob, KindScalar}, binary(FuncBitmapDifference, setops.Algebra.Difference)},
	{FunctionInfo{FuncBitmapAgg, []vector.Type{vector.TypeInt64}, vector.TypeBlob, KindAggregate}, nil},
}

func lookup(name string) (function, bool) {
	for _, f := range catalog {
		if f.info.Name == name {
			return f, true
		}
	}
	return function{}, false
}

// Functions returns the catalog in registration order.
func (e *Engine) Functions() []FunctionInfo {
	out := make([]FunctionInfo, len(catalog))
	for i, f := range catalog {
		out[i] = f.info
		out[i].Args = slices.Clone(f.info.Args)
	}
	return out
}

// Call runs the scalar function name over a batch.
//
// All argument columns must have the catalog types and the same length; the
// result has that length. A row with a NULL in any argument yields NULL.
// Data faults in non-NULL rows never fail the call: they degrade to values
// (see the setops and msisdn packages) and are reported through the
// MetricsCollector.
func (e *Engine) Call(ctx context.Context, name string, args ...vector.Vector) (out vector.Vector, err error) {
	start := time.Now()
	rows := 0
	defer func() {
		e.metrics.RecordCall(name, rows, time.Since(start), err)
		e.logger.LogCall(ctx, name, rows, err)
	}()

	f, ok := lookup(name)
	if !ok || f.info.Kind != KindScalar {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFunction, name)
	}
	if rows, err = validate(f.info, args); err != nil {
		return nil, err
	}
	if err = ctx.Err(); err != nil {
		return nil, err
	}

	return f.run(ctx, e, args)
}

// validate checks arity, column types and lengths, and returns the row count.
func validate(info FunctionInfo, args []vector.Vector) (int, error) {
	if len(args) != len(info.Args) {
		return 0, &ErrArity{Function: info.Name, Expected: len(info.Args), Actual: len(args)}
	}

	rows := 0
	for i, want := range info.Args {
		if !conforms(args[i], want) {
			got := vector.TypeInvalid
			if !isNil(args[i]) {
				got = args[i].Type()
			}
			return 0, &ErrArgumentType{Function: info.Name, Position: i, Expected: want, Actual: got}
		}
		if i == 0 {
			rows = args[i].Len()
		} else if n := args[i].Len(); n != rows {
			return 0, &ErrLengthMismatch{Function: info.Name, Position: i, Expected: rows, Actual: n}
		}
	}
	return rows, nil
}

func conforms(v vector.Vector, t vector.Type) bool {
	if isNil(v) {
		return false
	}
	var ok bool
	switch t {
	case vector.TypeText:
		_, ok = v.(*vector.Text)
	case vector.TypeInt64:
		_, ok = v.(*vector.Int64)
	case vector.TypeBlob:
		_, ok = v.(*vector.Blob)
	case vector.TypeBool:
		_, ok = v.(*vector.Bool)
	}
	return ok
}

// isNil reports whether v is nil or a nil column pointer.
func isNil(v vector.Vector) bool {
	switch c := v.(type) {
	case nil:
		return true
	case *vector.Text:
		return c == nil
	case *vector.Int64:
		return c == nil
	case *vector.Blob:
		return c == nil
	case *vector.Bool:
		return c == nil
	}
	return false
}

func checkpoint(ctx context.Context, row int) error {
	if row%ctxCheckRows != 0 {
		return nil
	}
	return ctx.Err()
}

func runTest(context.Context, *Engine, []vector.Vector) (vector.Vector, error) {
	return vector.TextOf(loadedMessage), nil
}

func runNormalize(ctx context.Context, e *Engine, args []vector.Vector) (vector.Vector, error) {
	in := args[0].(*vector.Text)
	out := vector.NewInt64(in.Len())

	for i, text := range in.Values {
		if err := checkpoint(ctx, i); err != nil {
			return nil, err
		}
		if in.IsNull(i) {
			out.SetNull(i)
			continue
		}
		id, err := msisdn.Parse(text)
		if err != nil {
			e.metrics.RecordDegraded(FuncMsisdnNormalize, DegradedUnnormalizable)
			e.logger.LogDegraded(ctx, FuncMsisdnNormalize, DegradedUnnormalizable, i)
		}
		out.Values[i] = int64(id)
	}
	return out, nil
}

func runHas(ctx context.Context, e *Engine, args []vector.Vector) (vector.Vector, error) {
	blobs, ids := args[0].(*vector.Blob), args[1].(*vector.Int64)
	out := vector.NewBool(blobs.Len())
	alg := e.algebra(FuncBitmapHas)

	for i := range out.Values {
		if err := checkpoint(ctx, i); err != nil {
			return nil, err
		}
		if vector.AnyNull(i, blobs, ids) {
			out.SetNull(i)
			continue
		}
		// The host passes BIGINT; the bits are reinterpreted as an unsigned identifier.
		out.Values[i] = alg.Has(blobs.Values[i], uint64(ids.Values[i]))
	}
	return out, nil
}

func runCardinality(ctx context.Context, e *Engine, args []vector.Vector) (vector.Vector, error) {
	blobs := args[0].(*vector.Blob)
	out := vector.NewInt64(blobs.Len())
	alg := e.algebra(FuncBitmapCardinality)

	for i, blob := range blobs.Values {
		if err := checkpoint(ctx, i); err != nil {
			return nil, err
		}
		if blobs.IsNull(i) {
			out.SetNull(i)
			continue
		}
		n, ok := alg.Cardinality(blob)
		if !ok {
			out.SetNull(i)
			continue
		}
		out.Values[i] = n
	}
	return out, nil
}

func binary(name string, op func(setops.Algebra, []byte, []byte) []byte) scalarFunc {
	return func(ctx context.Context, e *Engine, args []vector.Vector) (vector.Vector, error) {
		left, right := args[0].(*vector.Blob), args[1].(*vector.Blob)
		out := vector.NewBlob(left.Len())
		alg := e.algebra(name)

		for i := range out.Values {
			if err := checkpoint(ctx, i); err != nil {
				return nil, err
			}
			if vector.AnyNull(i, left, right) {
				out.SetNull(i)
				continue
			}
			out.Values[i] = op(alg, left.Values[i], right.Values[i])
		}
		return out, nil
	}
}
