package idset

import (
	"errors"
	"fmt"

	"github.com/hupe1980/idset/setstore"
	"github.com/hupe1980/idset/vector"
)

var (
	// ErrUnknownFunction is returned for a name missing from the catalog, or a
	// scalar name passed to Aggregate.
	ErrUnknownFunction = errors.New("unknown function")

	// ErrInvalidArgument is the common cause of ErrArity, ErrArgumentType and
	// ErrLengthMismatch.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound is returned by Load when the store has no set of that name.
	ErrNotFound = errors.New("not found")

	// ErrMalformedSet is returned by Save for bytes that do not decode.
	ErrMalformedSet = errors.New("malformed encoded set")
)

// ErrArity indicates a call with the wrong number of arguments.
//
// errors.Is(err, ErrInvalidArgument) holds.
type ErrArity struct {
	Function string
	Expected int
	Actual   int
}

func (e *ErrArity) Error() string {
	return fmt.Sprintf("%s: expected %d arguments, got %d", e.Function, e.Expected, e.Actual)
}

func (e *ErrArity) Unwrap() error { return ErrInvalidArgument }

// ErrArgumentType indicates an argument column of the wrong type.
//
// errors.Is(err, ErrInvalidArgument) holds.
type ErrArgumentType struct {
	Function string
	Position int
	Expected vector.Type
	Actual   vector.Type
}

func (e *ErrArgumentType) Error() string {
	return fmt.Sprintf("%s: argument %d: expected %s, got %s", e.Function, e.Position, e.Expected, e.Actual)
}

func (e *ErrArgumentType) Unwrap() error { return ErrInvalidArgument }

// ErrLengthMismatch indicates columns (or group ids) of different lengths.
//
// errors.Is(err, ErrInvalidArgument) holds.
type ErrLengthMismatch struct {
	Function string
	Position int
	Expected int
	Actual   int
}

func (e *ErrLengthMismatch) Error() string {
	return fmt.Sprintf("%s: argument %d: expected %d rows, got %d", e.Function, e.Position, e.Expected, e.Actual)
}

func (e *ErrLengthMismatch) Unwrap() error { return ErrInvalidArgument }

func translateError(err error) error {
	if err == nil {
		return nil
	}

	// Not found unification.
	if errors.Is(err, setstore.ErrNotFound) && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}

	return err
}
