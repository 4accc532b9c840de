package server

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestManagerStopsAllOnFailure(t *testing.T) {
	boom := errors.New("boom")
	stopped := make(chan struct{})

	m := &Manager{servers: []Server{
		ServerFunc(func(ctx context.Context) error {
			<-ctx.Done()
			close(stopped)
			return nil
		}),
		ServerFunc(func(context.Context) error { return boom }),
	}}

	assert.ErrorIs(t, m.Start(context.Background()), boom)
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("sibling server was not cancelled")
	}
}

func TestManagerStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	m := &Manager{servers: []Server{
		ServerFunc(func(ctx context.Context) error { <-ctx.Done(); return nil }),
	}}

	cancel()
	assert.NoError(t, m.Start(ctx))
}
