package idset

import (
	"context"
	"fmt"

	"github.com/hupe1980/idset/codec"
	"github.com/hupe1980/idset/setstore"
)

// Save stores one encoded set under name.
//
// The blob must decode with the engine's codec; a zero-length blob (the
// empty set) is valid. Malformed bytes are rejected with ErrMalformedSet so
// that a store never holds a set that every reader would degrade to empty.
func (e *Engine) Save(ctx context.Context, store setstore.Store, name string, blob []byte) (err error) {
	defer func() {
		e.logger.LogStore(ctx, "save", name, len(blob), err)
	}()

	s, status := e.codec.DecodeStatus(blob)
	s.Release()
	if status == codec.StatusMalformed {
		return fmt.Errorf("%w: %q", ErrMalformedSet, name)
	}

	return translateError(store.Put(ctx, name, blob))
}

// Load reads the encoded set stored under name.
// A missing name yields an error matching ErrNotFound.
func (e *Engine) Load(ctx context.Context, store setstore.Store, name string) (blob []byte, err error) {
	defer func() {
		e.logger.LogStore(ctx, "load", name, len(blob), err)
	}()

	blob, err = store.Get(ctx, name)
	if err != nil {
		return nil, translateError(err)
	}
	return blob, nil
}
