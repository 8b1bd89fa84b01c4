package fuse

import "context"

// Run executes fn through c and returns its typed result, for protected
// operations that produce a value alongside an error. Admission and
// accounting are identical to Do; when c rejects the call, Run returns the
// zero value of T with ErrOpen.
func Run[T any](ctx context.Context, c *Circuit, fn func(context.Context) (T, error)) (T, error) {
	var result T
	err := c.Do(ctx, func(ctx context.Context) error {
		var fnErr error
		result, fnErr = fn(ctx)
		return fnErr
	})
	return result, err
}
