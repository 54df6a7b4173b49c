package effects

import (
	"context"
	"reflect"

	"github.com/cespare/xxhash/v2"
)

// Effect is the marker interface implemented by every effect payload.
// Concrete effect types embed Base; interface types extending Effect may
// be used as binding targets to catch a sealed family of payloads.
type Effect interface {
	isEffect()
}

// Base marks a struct as an effect payload.
//
// Usage:
//
//	type Ask struct {
//	    effects.Base
//	    Question string
//	}
type Base struct{}

func (Base) isEffect() {}

// SelfInterpreter is implemented by effect types that carry their own
// final interpretation. Send falls back to it when the visible stack has
// no matching handler; Resend never consults it. Most effect types do not
// implement this.
type SelfInterpreter interface {
	Effect
	InterpretFinal(ctx context.Context) (any, error)
}

var effectIfaceType = reflect.TypeOf((*Effect)(nil)).Elem()

// DescribeEffect returns the diagnostic name of the effect's runtime type.
func DescribeEffect(eff Effect) string {
	if eff == nil {
		return "<nil>"
	}
	return reflect.TypeOf(eff).String()
}

// discriminantOf hashes a fully-qualified type name into the stable 64-bit
// tag compared on the dispatch fast path.
func discriminantOf(t reflect.Type) uint64 {
	name := t.String()
	if t.Name() != "" && t.PkgPath() != "" {
		name = t.PkgPath() + "." + t.Name()
	}
	return xxhash.Sum64String(name)
}
