package effects_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/on-the-ground/effect_stack_go/effects"
	"github.com/stretchr/testify/require"
)

func TestWithHandlers_LIFORelease(t *testing.T) {
	baseCtx := context.Background()
	require.Len(t, effects.GetStack(baseCtx), 0)

	a := effects.Handler(func(_ context.Context, _ ping) (any, error) { return "a", nil })
	b := effects.Handler(func(_ context.Context, _ ping) (any, error) { return "b", nil })

	ctx, end := effects.WithHandlers(baseCtx, a, b)

	stack := effects.GetStack(ctx)
	require.Len(t, stack, 2)
	// left-to-right push: the rightmost binding is innermost
	require.Equal(t, a.EffectId(), stack[0].EffectId())
	require.Equal(t, b.EffectId(), stack[1].EffectId())

	res, err := effects.Send(ctx, ping{})
	require.NoError(t, err)
	require.Equal(t, "b", res)

	restored := end()
	require.Len(t, effects.GetStack(restored), 0)
	require.Len(t, effects.GetStack(baseCtx), 0)
}

func TestWithHandlers_PopOnPanic(t *testing.T) {
	baseCtx := context.Background()

	func() {
		defer func() {
			if r := recover(); r == nil {
				t.Fatalf("expected panic to propagate")
			}
		}()

		ctx, end := effects.WithHandler(baseCtx, func(_ context.Context, _ ping) (any, error) {
			panic("handler blew up")
		})
		defer end()

		_, _ = effects.Send(ctx, ping{})
	}()

	// the ambient stack outside the scope is intact
	require.Len(t, effects.GetStack(baseCtx), 0)
	_, err := effects.Send(baseCtx, ping{})
	require.ErrorIs(t, err, effects.ErrNoEffectHandler)
}

func TestWithHandlers_TeardownIdempotent(t *testing.T) {
	ctx := context.Background()

	exits := 0
	_, end := effects.WithHandler(ctx,
		func(_ context.Context, _ ping) (any, error) { return nil, nil },
		effects.WithOnExit(func() error {
			exits++
			return nil
		}),
	)

	first := end()
	second := end()
	require.Equal(t, 1, exits)
	require.Equal(t, first, second)
}

func TestWithHandlers_EnterExitHooks(t *testing.T) {
	ctx := context.Background()

	var events []string
	hooked := effects.Handler(
		func(_ context.Context, _ ping) (any, error) { return "ok", nil },
		effects.WithOnEnter(func() { events = append(events, "enter") }),
		effects.WithOnExit(func() error {
			events = append(events, "exit")
			return nil
		}),
	)

	ctx, end := effects.WithHandlers(ctx, hooked)
	require.Equal(t, []string{"enter"}, events)

	_, err := effects.Send(ctx, ping{})
	require.NoError(t, err)

	end()
	require.Equal(t, []string{"enter", "exit"}, events)
}

func TestWithHandlers_TeardownCollectsErrors(t *testing.T) {
	ctx := context.Background()

	order := []string{}
	first := effects.Handler(
		func(_ context.Context, _ ping) (any, error) { return nil, nil },
		effects.WithOnExit(func() error {
			order = append(order, "first")
			return errors.New("first teardown failed")
		}),
	)
	second := effects.Handler(
		func(_ context.Context, _ command) (any, error) { return nil, nil },
		effects.WithOnExit(func() error {
			order = append(order, "second")
			return nil
		}),
	)

	_, end := effects.WithHandlers(ctx, first, second)
	end()

	// exit hooks run innermost-first
	require.Equal(t, []string{"second", "first"}, order)
}

func TestScope_GoroutineIsolation(t *testing.T) {
	baseCtx := context.Background()

	const numWorkers = 3
	const sendsPerWorker = 5

	results := make(chan string, numWorkers*sendsPerWorker)
	var wg sync.WaitGroup
	wg.Add(numWorkers)

	for i := 0; i < numWorkers; i++ {
		go func(id int) {
			defer wg.Done()

			// each goroutine scopes its own handler over the inherited snapshot
			ctx, end := effects.WithHandler(baseCtx, func(_ context.Context, _ ping) (any, error) {
				return fmt.Sprintf("pong-%d", id), nil
			})
			defer end()

			for j := 0; j < sendsPerWorker; j++ {
				res, err := effects.Send(ctx, ping{})
				if err != nil {
					t.Errorf("unexpected error: %v", err)
					return
				}
				results <- res.(string)
			}
		}(i)
	}
	wg.Wait()
	close(results)

	counts := make(map[string]int)
	for res := range results {
		counts[res]++
	}
	for i := 0; i < numWorkers; i++ {
		expected := fmt.Sprintf("pong-%d", i)
		if counts[expected] != sendsPerWorker {
			t.Fatalf("worker %d produced %d results, expected %d", i, counts[expected], sendsPerWorker)
		}
	}

	// the spawning context never saw any of the workers' pushes
	require.Len(t, effects.GetStack(baseCtx), 0)
}
