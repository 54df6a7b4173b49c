package effects

import (
	"context"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

type stackKey struct{}
type cursorKey struct{}

// handlerStack is an immutable outer-to-inner snapshot of the visible
// bindings. Scoped entry derives a longer copy; nothing mutates a snapshot
// in place. A goroutine spawned with a context keeps the snapshot that
// context carried, so concurrent execution scopes never observe each
// other's pushes and pops.
type handlerStack []*HandlerBinding

func visibleStack(ctx context.Context) handlerStack {
	if s, ok := ctx.Value(stackKey{}).(handlerStack); ok {
		return s
	}
	return nil
}

// noCursor masks the cursor of any enclosing dispatch, e.g. inside a
// bound call whose stack the cursor does not index.
const noCursor = -1

func dispatchCursor(ctx context.Context) (int, bool) {
	if c, ok := ctx.Value(cursorKey{}).(int); ok && c >= 0 {
		return c, true
	}
	return 0, false
}

// WithHandlers pushes the given bindings onto the ambient stack
// left-to-right, so the rightmost binding ends up innermost. It returns
// the context carrying the grown stack and a teardown restoring the
// previous scope. The teardown is idempotent and meant for defer: the pop
// happens on every exit path, panics included, and the parent scope is
// never touched in between.
//
// Usage:
//
//	ctx, end := effects.WithHandlers(ctx, outer, inner)
//	defer end()
func WithHandlers(ctx context.Context, bindings ...*HandlerBinding) (context.Context, func() context.Context) {
	parent := ctx
	current := visibleStack(ctx)
	grown := make(handlerStack, 0, len(current)+len(bindings))
	grown = append(grown, current...)
	grown = append(grown, bindings...)
	ctxWith := context.WithValue(ctx, stackKey{}, grown)

	logger, _ := zap.NewProduction()
	for _, hb := range bindings {
		hb.enter()
		logger.Sugar().Debugf("entered handler scope: effectId: %v, type: %v", hb.effectId, hb.effectType)
	}

	closed := false
	return ctxWith, func() context.Context {
		if closed {
			return parent
		}
		closed = true
		var errs error
		for i := len(bindings) - 1; i >= 0; i-- {
			hb := bindings[i]
			errs = multierr.Append(errs, hb.exit())
			logger.Sugar().Debugf("exited handler scope: effectId: %v, type: %v", hb.effectId, hb.effectType)
		}
		if errs != nil {
			logger.Warn("handler scope teardown failed", zap.Error(errs))
		}
		return parent
	}
}

// WithHandler registers a single handler whose effect type is inferred
// from the callable, combining Handler and WithHandlers.
func WithHandler[E Effect](
	ctx context.Context,
	fn func(context.Context, E) (any, error),
	opts ...HandlerOption,
) (context.Context, func() context.Context) {
	return WithHandlers(ctx, Handler(fn, opts...))
}
