// Package engine defines the context handed to systems each tick. It is the
// seam between the scheduler and the world facade: systems receive full world
// access for the duration of their update call and must not retain it.
package engine

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/tesseraworks/tessera/events"
	"github.com/tesseraworks/tessera/gamestate"
	"github.com/tesseraworks/tessera/types"
)

type Context interface {
	// Delta is the elapsed time since the previous tick.
	Delta() time.Duration
	// Tick is the number of completed ticks.
	Tick() uint64

	Logger() *zerolog.Logger
	SetLogger(logger zerolog.Logger)

	// State is the mutable world state. Mutations are visible to queries
	// issued later in the same tick.
	State() *gamestate.State
	GetComponentByName(name string) (types.ComponentMetadata, error)

	// EmitEvent queues an event for delivery at the end of the tick.
	EmitEvent(event events.Event)
	// EmitEventImmediate delivers the event synchronously before returning.
	EmitEventImmediate(event events.Event)
}
