package enrich

import (
	"context"
	"errors"
)

// All materializes every element of the slice using a throwaway collection
// and enricher configured by opts. It owns the lifecycle: construct, Start,
// wait for the drain run to finish, Close, then collect outputs.
//
// Semantics:
// - The returned batch holds the successfully processed elements in
//   materialization order (priority order, not input order, when opts or the
//   processor touch the queue).
// - The returned error is errors.Join of all process errors plus ctx.Err()
//   if the context expired first (nil if no errors).
func All[E comparable](
	ctx context.Context, elements []E, proc Processor[E], opts ...Option,
) ([]E, error) {
	if len(elements) == 0 {
		return nil, nil
	}

	coll := NewCollectionFrom(elements)
	e, err := New(ctx, coll, proc, opts...)
	if err != nil {
		return nil, err
	}
	e.Start(ctx)

	var (
		batch []E
		errs  []error
	)
wait:
	for {
		select {
		case ev := <-e.GetEvents():
			if d, ok := ev.(Done[E]); ok {
				batch = d.Batch
				break wait
			}
		case procErr := <-e.GetErrors():
			errs = append(errs, procErr)
		case <-ctx.Done():
			errs = append(errs, ctx.Err())
			break wait
		}
	}

	// Close before draining errors so the range terminates cleanly.
	e.Close()
	for procErr := range e.GetErrors() {
		errs = append(errs, procErr)
	}
	return batch, errors.Join(errs...)
}
