package effects

import (
	"context"
	"fmt"
)

// SendOf sends eff and asserts the handler's result to the declared result
// type R. Returns a zero value and an error if dispatch fails or the
// result has a different type.
func SendOf[R any](ctx context.Context, eff Effect) (R, error) {
	return getTypedValueOf[R](func() (any, error) {
		return Send(ctx, eff)
	})
}

// ResendOf is the forwarding variant of SendOf.
func ResendOf[R any](ctx context.Context, eff Effect) (R, error) {
	return getTypedValueOf[R](func() (any, error) {
		return Resend(ctx, eff)
	})
}

// MustSendOf is the panic-on-failure variant of SendOf.
// Use when a matching handler is guaranteed to be in scope.
func MustSendOf[R any](ctx context.Context, eff Effect) R {
	return mustGetTypedValue[R](func() (any, error) {
		return Send(ctx, eff)
	})
}

// getTypedValueOf safely asserts the result of a getter function to the
// expected type T. Returns an error if type assertion fails.
func getTypedValueOf[T any](getFn func() (any, error)) (T, error) {
	var zero T

	res, err := getFn()
	if err != nil {
		return zero, fmt.Errorf("failed to get value: %w", err)
	}

	val, ok := res.(T)
	if !ok {
		return zero, fmt.Errorf("unexpected type: %T", res)
	}

	return val, nil
}

// mustGetTypedValue is the panic-on-failure variant of getTypedValueOf.
func mustGetTypedValue[T any](getFn func() (any, error)) T {
	res, err := getTypedValueOf[T](getFn)
	if err != nil {
		panic(err)
	}
	return res
}
