// Package fsm holds small helpers around looplab/fsm callbacks.
package fsm

import (
	"context"

	"github.com/looplab/fsm"
)

// WrapEvent adapts an error-returning callback; a non-nil error is stored in
// event.Err and returned from FSM.Event.
func WrapEvent(fn func(ctx context.Context, event *fsm.Event) error) fsm.Callback {
	return func(ctx context.Context, event *fsm.Event) {
		if err := fn(ctx, event); err != nil {
			event.Err = err
		}
	}
}

// Arg returns event argument i as T.
func Arg[T any](event *fsm.Event, i int) (T, bool) {
	var zero T
	if i < 0 || i >= len(event.Args) {
		return zero, false
	}
	v, ok := event.Args[i].(T)
	return v, ok
}
