// Package pool runs a batch of independent tasks on a bounded number of goroutines.
package pool

import (
	"context"
	"fmt"
	"runtime/debug"

	"golang.org/x/sync/errgroup"
)

// PanicError is a recovered panic from a task.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("task panicked: %v", e.Value)
}

// Result is the outcome of one task, at the index of its input.
type Result[R any] struct {
	Value R
	Err   error
}

// Map calls fn for every item using at most width concurrent goroutines.
//
// Every task runs to completion even when another one fails; Map only returns once all
// of them are joined. Panics are recovered into *PanicError. The returned slice is
// indexed like items; the error is the first task failure observed, if any.
func Map[T, R any](ctx context.Context, width int, items []T, fn func(context.Context, T) (R, error)) ([]Result[R], error) {
	if width < 1 {
		width = 1
	}
	results := make([]Result[R], len(items))

	var g errgroup.Group
	g.SetLimit(width)
	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			v, err := Do(ctx, item, fn)
			results[i] = Result[R]{Value: v, Err: err}
			return err
		})
	}
	err := g.Wait()
	return results, err
}

// Do calls fn on the current goroutine, recovering a panic into *PanicError.
func Do[T, R any](ctx context.Context, item T, fn func(context.Context, T) (R, error)) (v R, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()
	return fn(ctx, item)
}
