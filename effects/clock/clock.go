package clock

import (
	"context"
	"time"

	"github.com/on-the-ground/effect_stack_go/effects"
	"github.com/rickb777/date/v2/timespan"
)

// TimeSpan is the uncertainty-bounded instant returned by the Now effect.
type TimeSpan = timespan.TimeSpan

const epsilon = time.Millisecond

// Now requests the current instant from the innermost clock scope.
type Now struct {
	effects.Base
}

// InterpretFinal falls back to the system clock, so code running outside
// any clock scope still observes real time.
func (Now) InterpretFinal(_ context.Context) (any, error) {
	return SpanAround(time.Now()), nil
}

// SpanAround widens t by the measurement epsilon on both sides.
func SpanAround(t time.Time) TimeSpan {
	return timespan.BetweenTimes(t.Add(-1*epsilon), t.Add(epsilon))
}

// WithSystemEffectHandler registers a clock scope backed by the system
// clock.
func WithSystemEffectHandler(ctx context.Context) (context.Context, func() context.Context) {
	return effects.WithHandler(
		ctx,
		func(_ context.Context, _ Now) (any, error) {
			return SpanAround(time.Now()), nil
		},
		effects.WithName("system_clock_handler"),
	)
}

// WithFixedEffectHandler registers a clock scope pinned to t. Intended for
// tests and replays that need a deterministic clock.
func WithFixedEffectHandler(ctx context.Context, t time.Time) (context.Context, func() context.Context) {
	return effects.WithHandler(
		ctx,
		func(_ context.Context, _ Now) (any, error) {
			return SpanAround(t), nil
		},
		effects.WithName("fixed_clock_handler"),
	)
}

// Effect returns the current instant as a TimeSpan.
func Effect(ctx context.Context) (TimeSpan, error) {
	return effects.SendOf[TimeSpan](ctx, Now{})
}
