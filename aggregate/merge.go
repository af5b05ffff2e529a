package aggregate

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// MergeAll combines states into one by pairwise tree merge.
//
// Each round merges state 2i+1 into state 2i concurrently and destroys the
// merged-in state, so MergeAll consumes its input: the returned state is the
// only one left alive. Nil entries are skipped. With no live input the result
// is a fresh initialized state.
//
// The context is checked between rounds. On cancellation every state still
// owned by MergeAll is destroyed before the error is returned.
func MergeAll(ctx context.Context, states []*State) (*State, error) {
	live := make([]*State, 0, len(states))
	for _, s := range states {
		if s != nil {
			live = append(live, s)
		}
	}
	if len(live) == 0 {
		return NewState(), nil
	}

	for len(live) > 1 {
		if err := ctx.Err(); err != nil {
			destroyAll(live)
			return nil, err
		}

		g := new(errgroup.Group)
		g.SetLimit(runtime.GOMAXPROCS(0))

		for i := 0; i+1 < len(live); i += 2 {
			target, source := live[i], live[i+1]
			g.Go(func() error {
				target.Merge(source)
				source.Destroy()
				return nil
			})
		}
		_ = g.Wait()

		next := live[:0]
		for i := 0; i < len(live); i += 2 {
			next = append(next, live[i])
		}
		live = next
	}

	return live[0], nil
}

func destroyAll(states []*State) {
	for _, s := range states {
		s.Destroy()
	}
}
