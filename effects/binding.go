package effects

import (
	"context"
	"fmt"
	"reflect"

	"github.com/google/uuid"
)

// HandlerFunc is the untyped shape of a handler callable.
type HandlerFunc func(ctx context.Context, eff Effect) (any, error)

// HandlerBinding pairs a handler callable with the single effect type it
// resolves. Bindings are immutable once constructed; scoped entry/exit and
// the composition API share them freely.
type HandlerBinding struct {
	effectId     string
	name         string
	fn           HandlerFunc
	effectType   reflect.Type
	discriminant uint64
	explicit     bool
	onEnter      func()
	onExit       func() error
}

// HandlerOption customizes a handler binding at construction time.
type HandlerOption func(*HandlerBinding)

// WithName overrides the diagnostic name of a binding.
func WithName(name string) HandlerOption {
	return func(hb *HandlerBinding) { hb.name = name }
}

// WithOnEnter registers a hook invoked when the binding enters a scope or
// a bound call begins.
func WithOnEnter(hook func()) HandlerOption {
	return func(hb *HandlerBinding) { hb.onEnter = hook }
}

// WithOnExit registers a hook invoked when the binding leaves a scope or a
// bound call ends. The hook runs on every exit path, including panics
// unwinding through a deferred teardown.
func WithOnExit(hook func() error) HandlerOption {
	return func(hb *HandlerBinding) { hb.onExit = hook }
}

// Handler produces a handler binding whose effect type is inferred from
// the callable's payload parameter. E may be a concrete effect type or an
// interface extending Effect; in the latter case the binding matches every
// payload implementing E.
func Handler[E Effect](fn func(context.Context, E) (any, error), opts ...HandlerOption) *HandlerBinding {
	effType := reflect.TypeOf((*E)(nil)).Elem()
	hb, err := HandlerFor(effType, func(ctx context.Context, eff Effect) (any, error) {
		return fn(ctx, eff.(E))
	}, opts...)
	if err != nil {
		// E is constrained to Effect, so construction cannot fail here.
		panic(err)
	}
	hb.explicit = false
	return hb
}

// HandlerFor produces a handler binding for an untyped callable, bound
// explicitly to effType. Inference failure is a construction-time error,
// never a dispatch-time one.
func HandlerFor(effType reflect.Type, fn HandlerFunc, opts ...HandlerOption) (*HandlerBinding, error) {
	if fn == nil {
		return nil, ErrNilHandlerFunc
	}
	if effType == nil {
		return nil, fmt.Errorf("%w: callable is untyped and no explicit type was given", ErrUntypedHandler)
	}
	if !effType.Implements(effectIfaceType) {
		return nil, fmt.Errorf("%w: %v", ErrNotAnEffectType, effType)
	}
	hb := &HandlerBinding{
		effectId:     uuid.New().String(),
		name:         "handler",
		fn:           fn,
		effectType:   effType,
		discriminant: discriminantOf(effType),
		explicit:     true,
	}
	for _, opt := range opts {
		opt(hb)
	}
	return hb, nil
}

// Barrier produces a binding that stops effects of type E from reaching
// handlers further out in the stack: inside its scope such effects fail as
// unhandled even when an outer handler exists.
func Barrier[E Effect](opts ...HandlerOption) *HandlerBinding {
	opts = append([]HandlerOption{WithName("barrier")}, opts...)
	return Handler(func(_ context.Context, eff E) (any, error) {
		return nil, &NoHandlerError{Effect: eff}
	}, opts...)
}

// EffectId returns the unique id assigned to this binding.
func (hb *HandlerBinding) EffectId() string { return hb.effectId }

// Name returns the diagnostic name of this binding.
func (hb *HandlerBinding) Name() string { return hb.name }

// EffectType returns the effect type this binding resolves.
func (hb *HandlerBinding) EffectType() reflect.Type { return hb.effectType }

// Explicit reports whether the effect type was supplied explicitly rather
// than inferred from the callable.
func (hb *HandlerBinding) Explicit() bool { return hb.explicit }

func (hb *HandlerBinding) String() string {
	return fmt.Sprintf("HandlerBinding(%s, %s)", hb.name, hb.effectType)
}

// matches reports whether this binding resolves effects of effType.
// Identity is checked through the discriminant fast path; interface-typed
// bindings fall back to method-set satisfaction.
func (hb *HandlerBinding) matches(effType reflect.Type, discriminant uint64) bool {
	if hb.discriminant == discriminant && hb.effectType == effType {
		return true
	}
	if hb.effectType.Kind() == reflect.Interface {
		return effType.Implements(hb.effectType)
	}
	return false
}

func (hb *HandlerBinding) enter() {
	if hb.onEnter != nil {
		hb.onEnter()
	}
}

func (hb *HandlerBinding) exit() error {
	if hb.onExit != nil {
		return hb.onExit()
	}
	return nil
}
