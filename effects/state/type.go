package state

import "github.com/on-the-ground/effect_stack_go/effects"

// Payload is a sealed interface for state operations. Only the predefined
// payload types (Load, Store, Delete) can implement it, and all of them
// dispatch through the single interface-typed binding the state scope
// registers.
type Payload interface {
	effects.Effect
	payload()
}

// Load is the payload type for retrieving a value from the state.
type Load struct {
	effects.Base
	Key string
}

// payload prevents external packages from implementing Payload.
func (Load) payload() {}

// Store is the payload type for binding a value to a key.
type Store struct {
	effects.Base
	Key   string
	Value any
}

func (Store) payload() {}

// Delete is the payload type for removing a key from the state.
type Delete struct {
	effects.Base
	Key string
}

func (Delete) payload() {}

// Keys is the payload type for listing the keys held by the local scope.
// Delegation never applies; enclosing scopes keep their own key sets.
type Keys struct {
	effects.Base
}

func (Keys) payload() {}
