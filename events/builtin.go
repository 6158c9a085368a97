package events

import "github.com/tesseraworks/tessera/types"

// Built-in event names. Applications extend the catalog with their own Event
// implementations; these are the ones the world itself emits.
const (
	EntityCreatedName   = "tessera.entity_created"
	EntityDestroyedName = "tessera.entity_destroyed"
)

// EntityCreated is queued by the world whenever an entity is created.
type EntityCreated struct {
	ID types.EntityID
}

func (EntityCreated) Name() string { return EntityCreatedName }

// EntityDestroyed is queued by the world whenever an entity is destroyed.
type EntityDestroyed struct {
	ID types.EntityID
}

func (EntityDestroyed) Name() string { return EntityDestroyedName }

// Custom is a free-form application event: a kind string plus a payload map.
// It is the escape hatch for events that do not warrant their own type.
type Custom struct {
	Kind string
	Data map[string]any
}

func (c Custom) Name() string { return c.Kind }
