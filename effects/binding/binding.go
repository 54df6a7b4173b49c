package binding

import (
	"context"
	"errors"
	"fmt"

	"github.com/on-the-ground/effect_stack_go/effects"
)

// ErrKeyNotFound indicates that no binding scope, local or enclosing,
// holds the requested key.
var ErrKeyNotFound = fmt.Errorf("key not found")

// Lookup asks the nearest binding scope for the value bound to Key.
type Lookup struct {
	effects.Base
	Key string
}

// WithEffectHandler registers a binding scope over the given key-value
// map.
//
//   - Accepts a key-value map used for lookups.
//   - A key missing locally is delegated to the enclosing binding scope,
//     so nested scopes shadow outer ones key by key.
//   - Returns a context with the effect handler registered and a teardown
//     restoring the previous scope.
func WithEffectHandler(
	ctx context.Context,
	bindingMap map[string]any,
) (context.Context, func() context.Context) {
	bh := bindingHandler{
		bindingMap: normalizeBindingMap(bindingMap),
	}
	return effects.WithHandler(ctx, bh.handle, effects.WithName("binding_handler"))
}

// Effect performs a key-based lookup through the binding scopes.
//
// Returns either the value found or ErrKeyNotFound if the key is not
// found and no enclosing scope provides it.
func Effect(ctx context.Context, key string) (any, error) {
	return effects.Send(ctx, Lookup{Key: key})
}

// GetOf is the typed variant of Effect.
func GetOf[T any](ctx context.Context, key string) (T, error) {
	return effects.SendOf[T](ctx, Lookup{Key: key})
}

func normalizeBindingMap(bm map[string]any) map[string]any {
	if bm == nil {
		bm = make(map[string]any)
	}
	return bm
}

type bindingHandler struct {
	bindingMap map[string]any
}

// handle looks up the key in the local bindingMap.
//   - If found: returns the value.
//   - If not found: forwards a fresh Lookup to the enclosing scope.
//     Resend keeps the search below this handler, so a miss at the
//     outermost scope surfaces as ErrKeyNotFound instead of re-entering
//     this frame.
func (bh bindingHandler) handle(ctx context.Context, payload Lookup) (any, error) {
	if v, ok := bh.bindingMap[payload.Key]; ok {
		return v, nil
	}
	v, err := effects.Resend(ctx, Lookup{Key: payload.Key})
	if err != nil {
		if errors.Is(err, effects.ErrNoEffectHandler) {
			return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, payload.Key)
		}
		return nil, err
	}
	return v, nil
}
