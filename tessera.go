package tessera

import (
	"github.com/rotisserie/eris"

	"github.com/tesseraworks/tessera/component"
	"github.com/tesseraworks/tessera/events"
	"github.com/tesseraworks/tessera/system"
	"github.com/tesseraworks/tessera/types"
	"github.com/tesseraworks/tessera/types/engine"
)

// RegisterComponent registers the component type T with the world: it is
// assigned a ComponentID, given a backing store, and registered with the
// serialization gateway so it is persisted by default. Callers that do not
// want T in snapshots unregister it from the gateway afterwards.
func RegisterComponent[T types.Component](w *World) error {
	compMetadata, err := component.NewMetadata[T]()
	if err != nil {
		return err
	}
	if err := w.componentManager.Register(compMetadata); err != nil {
		return err
	}
	if err := w.state.RegisterComponents([]types.ComponentMetadata{compMetadata}); err != nil {
		return err
	}
	return w.gateway.RegisterType(compMetadata)
}

// RegisterSystems registers systems at default priority. Either all of them
// are registered or none of them are.
func RegisterSystems(w *World, systems ...system.System) error {
	return w.systemManager.RegisterSystems(systems...)
}

// RegisterSystem registers a single system, optionally with a priority.
// Lower priorities run first; ties run in registration order.
func RegisterSystem(w *World, sys system.System, opts ...system.Option) error {
	return w.systemManager.Register(sys, opts...)
}

// RegisterInitSystems registers systems that run exactly once, before the
// regular systems of the first tick.
func RegisterInitSystems(w *World, systems ...system.System) {
	w.systemManager.RegisterInitSystems(systems...)
}

// Create creates a single entity with the given initial components and queues
// an EntityCreated event.
func Create(ctx engine.Context, components ...types.Component) (types.EntityID, error) {
	ids, err := CreateMany(ctx, 1, components...)
	if err != nil {
		return types.EntityID{}, err
	}
	return ids[0], nil
}

// CreateMany creates num entities, each with the given initial components.
func CreateMany(ctx engine.Context, num int, components ...types.Component) ([]types.EntityID, error) {
	acc := make([]types.ComponentMetadata, 0, len(components))
	for _, comp := range components {
		compMetadata, err := ctx.GetComponentByName(comp.Name())
		if err != nil {
			return nil, err
		}
		acc = append(acc, compMetadata)
	}

	ids, err := ctx.State().CreateManyEntities(num)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		for i, comp := range components {
			if err := ctx.State().SetComponentForEntity(acc[i], id, comp); err != nil {
				return nil, err
			}
		}
		ctx.EmitEvent(events.EntityCreated{ID: id})
	}
	return ids, nil
}

// Destroy removes the entity and everything attached to it, queueing an
// EntityDestroyed event. It reports false for a dead or unknown entity.
func Destroy(ctx engine.Context, id types.EntityID) bool {
	if !ctx.State().DestroyEntity(id) {
		return false
	}
	ctx.EmitEvent(events.EntityDestroyed{ID: id})
	return true
}

// SetComponent adds the component to the entity, replacing any existing
// instance of the same type.
func SetComponent[T types.Component](ctx engine.Context, id types.EntityID, comp *T) error {
	var t T
	compMetadata, err := ctx.GetComponentByName(t.Name())
	if err != nil {
		return err
	}
	if err := ctx.State().SetComponentForEntity(compMetadata, id, *comp); err != nil {
		return err
	}
	ctx.Logger().Debug().
		Str("entity_id", id.String()).
		Str("component_name", compMetadata.Name()).
		Int("component_id", int(compMetadata.ID())).
		Msg("entity updated")
	return nil
}

// GetComponent returns a copy of the entity's component of type T. The caller
// never receives an alias into the store; write changes back with
// SetComponent or UpdateComponent.
func GetComponent[T types.Component](ctx engine.Context, id types.EntityID) (*T, error) {
	var t T
	compMetadata, err := ctx.GetComponentByName(t.Name())
	if err != nil {
		return nil, err
	}
	value, err := ctx.State().GetComponentForEntity(compMetadata, id)
	if err != nil {
		return nil, err
	}
	comp, ok := value.(T)
	if !ok {
		return nil, eris.Errorf("type assertion for component %q failed", compMetadata.Name())
	}
	return &comp, nil
}

// UpdateComponent reads the entity's component of type T, applies fn, and
// writes the result back.
func UpdateComponent[T types.Component](ctx engine.Context, id types.EntityID, fn func(*T) *T) error {
	val, err := GetComponent[T](ctx, id)
	if err != nil {
		return err
	}
	return SetComponent(ctx, id, fn(val))
}

// RemoveComponent deletes the entity's component of type T if present, and
// reports whether anything was removed.
func RemoveComponent[T types.Component](ctx engine.Context, id types.EntityID) (bool, error) {
	var t T
	compMetadata, err := ctx.GetComponentByName(t.Name())
	if err != nil {
		return false, err
	}
	return ctx.State().RemoveComponentFromEntity(compMetadata, id)
}

// HasComponent reports whether the entity currently holds a component of
// type T. Unknown entities and unregistered types report false.
func HasComponent[T types.Component](ctx engine.Context, id types.EntityID) bool {
	var t T
	compMetadata, err := ctx.GetComponentByName(t.Name())
	if err != nil {
		return false
	}
	return ctx.State().HasComponentForEntity(compMetadata, id)
}
