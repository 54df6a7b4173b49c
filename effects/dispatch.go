package effects

import (
	"context"
	"errors"
	"reflect"
)

// Send dispatches eff to the innermost visible handler bound to its
// runtime type and returns that handler's result. When the stack is
// exhausted, Send falls back to the effect's own InterpretFinal if the
// type implements SelfInterpreter, otherwise it fails with a
// *NoHandlerError naming the effect type.
//
// Inside a handler, Send searches strictly below the executing frame; a
// handler can never resolve its own dispatch.
func Send(ctx context.Context, eff Effect) (any, error) {
	return dispatch(ctx, eff, true)
}

// Resend re-dispatches eff, typically a fresh effect built inside a
// handler, to the handlers below the executing frame. It never consults
// a default interpretation: when nothing below resolves the effect the
// caller gets a hard *NoHandlerError, so a missing downstream handler is
// observable instead of silently absorbed.
func Resend(ctx context.Context, eff Effect) (any, error) {
	return dispatch(ctx, eff, false)
}

// SafeSend behaves like Send but returns fallback when eff itself went
// unhandled. An unhandled-effect error raised for a different effect
// deeper in the handling chain still propagates.
func SafeSend(ctx context.Context, eff Effect, fallback any) (any, error) {
	res, err := Send(ctx, eff)
	if err == nil {
		return res, nil
	}
	var nhe *NoHandlerError
	if errors.As(err, &nhe) && sameEffect(nhe.Effect, eff) {
		return fallback, nil
	}
	return res, err
}

func sameEffect(a, b Effect) bool {
	ta := reflect.TypeOf(a)
	if ta == nil || ta != reflect.TypeOf(b) || !ta.Comparable() {
		return false
	}
	return a == b
}

// dispatch walks the visible stack innermost-first. The index of the frame
// being invoked rides the handler's context as the dispatch cursor, so a
// nested dispatch issued from inside that handler starts just below it.
// Each dispatch owns its cursor; sibling and concurrent dispatches are
// unaffected.
func dispatch(ctx context.Context, eff Effect, interpretFinal bool) (any, error) {
	if eff == nil {
		return nil, &NoHandlerError{}
	}
	stack := visibleStack(ctx)
	effType := reflect.TypeOf(eff)
	discriminant := discriminantOf(effType)

	top := len(stack) - 1
	if cursor, ok := dispatchCursor(ctx); ok && cursor <= top {
		top = cursor - 1
	}
	for i := top; i >= 0; i-- {
		hb := stack[i]
		if !hb.matches(effType, discriminant) {
			continue
		}
		return hb.fn(context.WithValue(ctx, cursorKey{}, i), eff)
	}
	if interpretFinal {
		if si, ok := eff.(SelfInterpreter); ok {
			return si.InterpretFinal(ctx)
		}
	}
	return nil, &NoHandlerError{Effect: eff}
}
