package effects

import (
	"context"

	"go.uber.org/multierr"
)

// GetStack returns a copy of the visible handler stack, outer-to-inner:
// index 0 is the lowest-priority binding, the last index the one Send
// tries first. The copy reflects exactly what dispatch would search from
// the top.
func GetStack(ctx context.Context) []*HandlerBinding {
	current := visibleStack(ctx)
	snapshot := make([]*HandlerBinding, len(current))
	copy(snapshot, current)
	return snapshot
}

// Bind returns a function that runs computation with the visible stack
// replaced by exactly the given bindings, bindings[0] outermost and the
// last one innermost, for the duration of that one call. The ambient
// stack of the invoking context is never mutated; code outside the call
// observes nothing.
//
// Combined with GetStack this reorders or extends live stacks ad hoc:
// reverse the priorities, or slide a fallback underneath the current
// handlers.
func Bind[T any](
	computation func(context.Context) (T, error),
	bindings ...*HandlerBinding,
) func(context.Context) (T, error) {
	fixed := make(handlerStack, len(bindings))
	copy(fixed, bindings)
	return func(ctx context.Context) (T, error) {
		return runBound(ctx, computation, fixed, fixed)
	}
}

// BindInheriting keeps the invoking context's stack underneath the given
// bindings: the bindings take priority, while the ambient handlers remain
// reachable below them. The inherited portion is resolved at call time
// from the context the bound function receives.
func BindInheriting[T any](
	computation func(context.Context) (T, error),
	bindings ...*HandlerBinding,
) func(context.Context) (T, error) {
	added := make(handlerStack, len(bindings))
	copy(added, bindings)
	return func(ctx context.Context) (T, error) {
		current := visibleStack(ctx)
		fixed := make(handlerStack, 0, len(current)+len(added))
		fixed = append(fixed, current...)
		fixed = append(fixed, added...)
		return runBound(ctx, computation, fixed, added)
	}
}

// runBound installs the fabricated stack, masks any enclosing dispatch
// cursor, and runs the enter/exit hooks of the freshly supplied bindings
// around the call. Exit hooks run on every path out.
func runBound[T any](
	ctx context.Context,
	computation func(context.Context) (T, error),
	fixed handlerStack,
	hooked handlerStack,
) (res T, err error) {
	bctx := context.WithValue(ctx, stackKey{}, fixed)
	bctx = context.WithValue(bctx, cursorKey{}, noCursor)

	for _, hb := range hooked {
		hb.enter()
	}
	defer func() {
		var errs error
		for i := len(hooked) - 1; i >= 0; i-- {
			errs = multierr.Append(errs, hooked[i].exit())
		}
		err = multierr.Append(err, errs)
	}()

	res, err = computation(bctx)
	return
}
