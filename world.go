// Package tessera is the world facade of the tessera ECS runtime. All other
// subsystems, from rendering to combat to editors, interact with the engine
// exclusively through this surface.
package tessera

import (
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"

	"github.com/tesseraworks/tessera/component"
	"github.com/tesseraworks/tessera/cql"
	"github.com/tesseraworks/tessera/events"
	"github.com/tesseraworks/tessera/gamestate"
	"github.com/tesseraworks/tessera/log"
	"github.com/tesseraworks/tessera/search"
	"github.com/tesseraworks/tessera/search/filter"
	"github.com/tesseraworks/tessera/snapshot"
	"github.com/tesseraworks/tessera/statsd"
	"github.com/tesseraworks/tessera/system"
	"github.com/tesseraworks/tessera/types"
	"github.com/tesseraworks/tessera/types/engine"
)

// World composes the entity registry, component stores, query index, event
// bus, system scheduler and serialization gateway behind one surface. It is
// built once at application start, passed by reference to collaborators, and
// is not safe for concurrent use: all systems run serially within a tick.
type World struct {
	logger zerolog.Logger

	state            *gamestate.State
	componentManager *component.Manager
	systemManager    *system.Manager
	eventBus         *events.Bus
	gateway          *snapshot.Gateway

	ctx *worldContext

	tick  uint64
	delta time.Duration
}

// NewWorld creates a world. Configuration comes from the environment
// (see WorldConfig) with options taking precedence.
func NewWorld(opts ...WorldOption) (*World, error) {
	cfg, err := loadWorldConfig()
	if err != nil {
		return nil, err
	}

	options := worldOptions{
		strictRestore: cfg.StrictRestore,
		statsdAddress: cfg.StatsdAddress,
	}
	for _, opt := range opts {
		opt(&options)
	}

	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	if options.logger != nil {
		logger = *options.logger
	}
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, eris.Wrapf(err, "invalid log level %q", cfg.LogLevel)
	}
	logger = logger.Level(level)

	if options.statsdAddress != "" {
		if err := statsd.Init(options.statsdAddress, options.statsdTags); err != nil {
			logger.Warn().Err(err).Msg("failed to initialize statsd client; telemetry disabled")
		}
	}

	gatewayOpts := make([]snapshot.Option, 0, 1)
	if options.strictRestore {
		gatewayOpts = append(gatewayOpts, snapshot.WithStrict())
	}

	w := &World{
		logger:           logger,
		state:            gamestate.New(logger),
		componentManager: component.NewManager(),
		systemManager:    system.NewManager(),
		eventBus:         events.NewBus(logger),
		gateway:          snapshot.NewGateway(logger, gatewayOpts...),
	}
	w.ctx = newWorldContext(w)
	return w, nil
}

// Tick runs one frame: every enabled system in ascending (priority,
// registration order), then a drain of all events queued during the pass.
// delta is the elapsed time since the previous tick.
func (w *World) Tick(delta time.Duration) (err error) {
	startTime := time.Now()
	w.delta = delta

	defer func() {
		if r := recover(); r != nil {
			w.logger.Error().
				Uint64("tick", w.tick).
				Str("system", w.systemManager.GetCurrentSystem()).
				Interface("panic", r).
				Msg("tick panicked")
			panic(r)
		}
	}()

	if err := w.systemManager.RunSystems(w.ctx); err != nil {
		return err
	}
	delivered := w.eventBus.Drain()

	w.tick++
	w.logger.Debug().
		Uint64("tick", w.tick).
		Int("events_delivered", delivered).
		Dur("duration", time.Since(startTime)).
		Msg("tick completed")
	return nil
}

// CurrentTick returns the number of completed ticks.
func (w *World) CurrentTick() uint64 {
	return w.tick
}

// Context returns the engine context bound to this world. Systems receive it
// per tick; code outside the tick loop can use it to call the generic
// component operations directly.
func (w *World) Context() engine.Context {
	return w.ctx
}

// ---------------------------------------------------------------------------
// Entities and tags
// ---------------------------------------------------------------------------

// Create creates a single entity, optionally with initial components, and
// queues an EntityCreated event.
func (w *World) Create(components ...types.Component) (types.EntityID, error) {
	return Create(w.ctx, components...)
}

// Destroy removes the entity, all its components and all its tags, and queues
// an EntityDestroyed event. Destroying a dead or unknown entity is a no-op.
func (w *World) Destroy(id types.EntityID) bool {
	return Destroy(w.ctx, id)
}

func (w *World) IsAlive(id types.EntityID) bool {
	return w.state.IsAlive(id)
}

func (w *World) EntityCount() int {
	return w.state.EntityCount()
}

func (w *World) AddTag(id types.EntityID, tag string) error {
	return w.state.AddTag(id, tag)
}

func (w *World) RemoveTag(id types.EntityID, tag string) bool {
	return w.state.RemoveTag(id, tag)
}

func (w *World) HasTag(id types.EntityID, tag string) bool {
	return w.state.HasTag(id, tag)
}

// EntitiesWithTag returns all entities carrying the tag, in tagging order.
func (w *World) EntitiesWithTag(tag string) []types.EntityID {
	return w.state.EntitiesWithTag(tag)
}

// ---------------------------------------------------------------------------
// Queries
// ---------------------------------------------------------------------------

// NewSearch creates a search over this world's entities.
func (w *World) NewSearch(componentFilter filter.ComponentFilter) *search.Search {
	return search.New(w.state, componentFilter)
}

// EvalCQL runs a textual component query and returns the matching entities.
func (w *World) EvalCQL(query string) ([]types.EntityID, error) {
	expr, err := cql.Parse(query)
	if err != nil {
		return nil, err
	}
	componentFilter, err := cql.ToComponentFilter(expr, w.componentManager.GetComponentByName)
	if err != nil {
		return nil, err
	}
	return w.NewSearch(componentFilter).Collect()
}

// ---------------------------------------------------------------------------
// Events
// ---------------------------------------------------------------------------

func (w *World) Subscribe(eventName string, handler events.Handler) events.Subscription {
	return w.eventBus.Subscribe(eventName, handler)
}

func (w *World) Unsubscribe(sub events.Subscription) bool {
	return w.eventBus.Unsubscribe(sub)
}

// EmitEvent queues an event for delivery at the end of the current tick, or
// at the next Tick call if emitted between frames.
func (w *World) EmitEvent(event events.Event) {
	w.eventBus.Emit(event)
}

// EmitEventImmediate delivers the event to all current subscribers before
// returning.
func (w *World) EmitEventImmediate(event events.Event) {
	w.eventBus.EmitImmediate(event)
}

// ---------------------------------------------------------------------------
// Systems
// ---------------------------------------------------------------------------

// SetSystemPriority changes a system's priority; it takes effect on the next
// tick.
func (w *World) SetSystemPriority(name string, priority int) error {
	return w.systemManager.SetPriority(name, priority)
}

// SetSystemEnabled enables or disables a system without losing its position.
func (w *World) SetSystemEnabled(name string, enabled bool) error {
	return w.systemManager.SetEnabled(name, enabled)
}

// ---------------------------------------------------------------------------
// Snapshot / restore
// ---------------------------------------------------------------------------

// Snapshot produces a versioned record of every live entity and every
// component type registered with the serialization gateway.
func (w *World) Snapshot() (*snapshot.Record, error) {
	return w.gateway.Take(w.state)
}

// Restore recreates a record's entities in this world with fresh identifiers.
// Systems and event subscriptions are untouched; they are re-registered by
// startup code, not persisted.
func (w *World) Restore(rec *snapshot.Record) (*snapshot.Report, error) {
	return w.gateway.Restore(w.state, rec)
}

// SnapshotGateway exposes the serialization gateway, mainly so callers can
// unregister component types they do not want persisted.
func (w *World) SnapshotGateway() *snapshot.Gateway {
	return w.gateway
}

// ---------------------------------------------------------------------------
// Introspection
// ---------------------------------------------------------------------------

func (w *World) GetRegisteredComponents() []types.ComponentMetadata {
	return w.componentManager.GetComponents()
}

func (w *World) GetSystemNames() []string {
	return w.systemManager.GetSystemNames()
}

func (w *World) GetRegisteredSystems() []string {
	return w.systemManager.GetSystemNames()
}

// LogWorldState writes a structured summary of registered components and
// systems, typically once at startup.
func (w *World) LogWorldState(level zerolog.Level) {
	log.World(&w.logger, w, level)
}

func (w *World) Logger() *zerolog.Logger {
	return &w.logger
}
