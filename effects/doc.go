// Package effects implements dynamically-scoped, type-directed effect
// dispatch for Go.
//
// A computation declares what it needs by sending an effect, a typed
// request for behavior it does not implement, and whichever handler is
// innermost in the current scope decides how that request is fulfilled.
// Handlers can be stacked, shadowed, reordered, and intercepted without
// the computation knowing or caring.
//
// # What is an Effect?
//
// Any value embedding Base. The runtime type of the value is the dispatch
// key; its fields are the payload delivered to the matched handler.
//
// # How does it work?
//
// Handlers enter scope through WithHandler / WithHandlers, which derive a
// context carrying a grown handler stack and return a teardown restoring
// the previous scope:
//
//	ctx, end := effects.WithHandler(ctx, func(_ context.Context, e Ask) (any, error) {
//	    return "Alice", nil
//	})
//	defer end()
//
//	name, err := effects.SendOf[string](ctx, Ask{Question: "name?"})
//
// Send walks the visible stack innermost-first and invokes the first
// binding whose effect type matches, synchronously, in the calling
// goroutine. A handler that wants to rewrite an effect and pass it on
// builds a fresh effect and calls Resend, which continues the search
// strictly below the executing handler. A handler can never re-match
// itself, and a missing downstream handler is a hard error rather than a
// silent fallback.
//
// Because the stack rides the context as an immutable snapshot, every
// goroutine observes the scope it was spawned with and later pushes in
// other goroutines are invisible to it. The engine owns no goroutines,
// takes no locks, and never suspends.
//
// # Composition
//
// GetStack snapshots the visible bindings and Bind replays a computation
// against any ordering of them: reverse the priorities, slide a fallback
// underneath, or run against handlers that were never entered at all.
//
// This package exports the core engine; built-in effects live in the
// subpackages log, binding, state, and clock.
package effects
