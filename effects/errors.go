package effects

import (
	"errors"
	"fmt"
)

// ErrNoEffectHandler is the sentinel every unhandled-effect failure
// unwraps to.
var ErrNoEffectHandler = fmt.Errorf("no effect handler registered for this effect")

// ErrUntypedHandler is the binding-construction error for a handler
// declared without an effect type.
var ErrUntypedHandler = errors.New("handler binding requires an effect type")

// ErrNotAnEffectType is the binding-construction error for an explicit
// type that does not implement Effect.
var ErrNotAnEffectType = errors.New("handler binding requires a type implementing effects.Effect")

// ErrNilHandlerFunc is the binding-construction error for a missing
// callable.
var ErrNilHandlerFunc = errors.New("handler binding requires a callable")

// NoHandlerError reports that dispatch exhausted the visible stack without
// finding a handler for the effect.
type NoHandlerError struct {
	Effect Effect
}

func (e *NoHandlerError) Error() string {
	return fmt.Sprintf("%v: %s", ErrNoEffectHandler, DescribeEffect(e.Effect))
}

func (e *NoHandlerError) Unwrap() error { return ErrNoEffectHandler }
