package fsm

import (
	"context"
	"errors"
	"testing"

	"github.com/looplab/fsm"
	"github.com/stretchr/testify/assert"
)

func TestWrapEvent(t *testing.T) {
	boom := errors.New("boom")

	f := fsm.NewFSM("a",
		fsm.Events{{Name: "go", Src: []string{"a"}, Dst: "b"}},
		fsm.Callbacks{
			"enter_b": WrapEvent(func(_ context.Context, e *fsm.Event) error {
				n, ok := Arg[int](e, 0)
				assert.True(t, ok)
				assert.Equal(t, 7, n)

				_, ok = Arg[string](e, 0)
				assert.False(t, ok)
				_, ok = Arg[int](e, 3)
				assert.False(t, ok)
				return boom
			}),
		},
	)

	err := f.Event(context.Background(), "go", 7)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "b", f.Current())
}
