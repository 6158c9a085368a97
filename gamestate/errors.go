package gamestate

import "github.com/rotisserie/eris"

var (
	ErrEntityDoesNotExist     = eris.New("entity does not exist")
	ErrComponentNotOnEntity   = eris.New("component not on entity")
	ErrComponentNotRegistered = eris.New("component not registered")
	ErrArchetypeNotFound      = eris.New("archetype for components not found")

	// ErrEntitySlotsExhausted is fatal: the 32-bit slot space ran out. There is
	// no recovery short of restarting the process with a fresh world.
	ErrEntitySlotsExhausted = eris.New("entity slot space exhausted")
)
