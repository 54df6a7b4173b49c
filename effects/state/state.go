package state

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/on-the-ground/effect_stack_go/effects"
)

// ErrNoSuchKey is an error indicating that the key was not found in any
// state scope.
var ErrNoSuchKey = fmt.Errorf("key not found")

// WithEffectHandler registers a state scope seeded with initMap. The
// state is held in a memory-safe sync.Map, so a scope shared across
// goroutines stays consistent.
//
// With delegation enabled, a Load miss is forwarded to the enclosing
// state scope before failing, and a delegated hit is cached locally.
func WithEffectHandler(
	ctx context.Context,
	delegation bool,
	initMap map[string]any,
) (context.Context, func() context.Context) {
	sh := &stateHandler{delegation: delegation}
	for k, v := range initMap {
		sh.store.Store(k, v)
	}
	return effects.WithHandler[Payload](ctx, sh.handle, effects.WithName("state_handler"))
}

// Effect routes a state operation payload to the innermost state scope.
func Effect(ctx context.Context, payload Payload) (any, error) {
	return effects.Send(ctx, payload)
}

// EffectLoad retrieves the value stored under key.
func EffectLoad(ctx context.Context, key string) (any, error) {
	return effects.Send(ctx, Load{Key: key})
}

// EffectStore binds value to key within the innermost state scope.
func EffectStore(ctx context.Context, key string, value any) error {
	_, err := effects.Send(ctx, Store{Key: key, Value: value})
	return err
}

// EffectDelete removes key from the innermost state scope.
func EffectDelete(ctx context.Context, key string) error {
	_, err := effects.Send(ctx, Delete{Key: key})
	return err
}

// EffectKeys lists the keys held by the innermost state scope, in no
// particular order.
func EffectKeys(ctx context.Context) ([]string, error) {
	return effects.SendOf[[]string](ctx, Keys{})
}

// GetOf fetches a typed value from the state scope using the provided key.
// Returns a zero value and error if the key is not found or the type is
// mismatched.
func GetOf[T any](ctx context.Context, key string) (T, error) {
	return effects.SendOf[T](ctx, Load{Key: key})
}

// stateHandler defines the in-memory state store logic behind one scope.
type stateHandler struct {
	store      sync.Map
	delegation bool
}

// handle routes the given payload to the appropriate state operation.
func (sh *stateHandler) handle(ctx context.Context, payload Payload) (any, error) {
	switch payload := payload.(type) {
	case Load:
		if v, ok := sh.store.Load(payload.Key); ok {
			return v, nil
		}
		if sh.delegation {
			return sh.delegate(ctx, payload)
		}
		return nil, fmt.Errorf("%w: %s", ErrNoSuchKey, payload.Key)

	case Store:
		sh.store.Store(payload.Key, payload.Value)
		return nil, nil

	case Delete:
		sh.store.Delete(payload.Key)
		return nil, nil

	case Keys:
		keys := []string{}
		sh.store.Range(func(k, _ any) bool {
			keys = append(keys, k.(string))
			return true
		})
		return keys, nil

	default:
		// Payload is sealed; a new variant reaching here is a bug.
		panic(fmt.Errorf("invalid state operation type: %T", payload))
	}
}

// delegate forwards a Load miss to the enclosing state scope and caches a
// hit locally.
func (sh *stateHandler) delegate(ctx context.Context, payload Load) (any, error) {
	v, err := effects.Resend(ctx, Load{Key: payload.Key})
	if err != nil {
		if errors.Is(err, effects.ErrNoEffectHandler) {
			return nil, fmt.Errorf("%w: %s", ErrNoSuchKey, payload.Key)
		}
		return nil, err
	}
	sh.store.Store(payload.Key, v)
	return v, nil
}
