package tessera

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/tesseraworks/tessera/events"
	"github.com/tesseraworks/tessera/gamestate"
	"github.com/tesseraworks/tessera/types"
	"github.com/tesseraworks/tessera/types/engine"
)

// worldContext implements engine.Context over a World. One instance lives for
// the lifetime of the world; systems borrow it for the duration of their
// update call.
type worldContext struct {
	world  *World
	logger *zerolog.Logger
}

var _ engine.Context = (*worldContext)(nil)

func newWorldContext(world *World) *worldContext {
	return &worldContext{
		world:  world,
		logger: &world.logger,
	}
}

func (ctx *worldContext) Delta() time.Duration {
	return ctx.world.delta
}

func (ctx *worldContext) Tick() uint64 {
	return ctx.world.tick
}

func (ctx *worldContext) Logger() *zerolog.Logger {
	return ctx.logger
}

func (ctx *worldContext) SetLogger(logger zerolog.Logger) {
	ctx.logger = &logger
}

func (ctx *worldContext) State() *gamestate.State {
	return ctx.world.state
}

func (ctx *worldContext) GetComponentByName(name string) (types.ComponentMetadata, error) {
	return ctx.world.componentManager.GetComponentByName(name)
}

func (ctx *worldContext) EmitEvent(event events.Event) {
	ctx.world.eventBus.Emit(event)
}

func (ctx *worldContext) EmitEventImmediate(event events.Event) {
	ctx.world.eventBus.EmitImmediate(event)
}
