package async_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/worklens-io/worklens/pkg/utils/async"
)

func waitFor(t *testing.T, wg *sync.WaitGroup) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("async handler did not complete within timeout")
	}
}

func TestDispatch(t *testing.T) {
	t.Run("runs the handler", func(t *testing.T) {
		var wg sync.WaitGroup
		executed := false

		wg.Add(1)
		async.Dispatch(context.Background(), func(ctx context.Context) error {
			defer wg.Done()
			executed = true
			return nil
		})

		waitFor(t, &wg)
		gt.True(t, executed)
	})

	t.Run("swallows handler errors", func(t *testing.T) {
		var wg sync.WaitGroup
		wg.Add(1)
		async.Dispatch(context.Background(), func(ctx context.Context) error {
			defer wg.Done()
			return goerr.New("background failure")
		})
		waitFor(t, &wg)
	})

	t.Run("recovers from panic", func(t *testing.T) {
		var wg sync.WaitGroup
		wg.Add(1)
		async.Dispatch(context.Background(), func(ctx context.Context) error {
			defer wg.Done()
			panic("background panic")
		})
		waitFor(t, &wg)
	})

	t.Run("keeps the context logger", func(t *testing.T) {
		ctx := ctxlog.With(context.Background(), ctxlog.From(context.Background()))

		var wg sync.WaitGroup
		var hasLogger bool

		wg.Add(1)
		async.Dispatch(ctx, func(ctx context.Context) error {
			defer wg.Done()
			hasLogger = ctxlog.From(ctx) != nil
			return nil
		})

		waitFor(t, &wg)
		gt.True(t, hasLogger)
	})

	t.Run("outlives the caller's context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())

		var wg sync.WaitGroup
		var canceled bool

		wg.Add(1)
		async.Dispatch(ctx, func(ctx context.Context) error {
			defer wg.Done()
			time.Sleep(20 * time.Millisecond)
			canceled = ctx.Err() != nil
			return nil
		})
		cancel()

		waitFor(t, &wg)
		gt.False(t, canceled)
	})
}
