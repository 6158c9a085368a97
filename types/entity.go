package types

import "fmt"

// EntityID identifies a single entity within a world. It is a (slot, generation)
// pair: slots are recycled after an entity is destroyed, and the generation is
// bumped on every destroy so that a stale EntityID held by a caller resolves to
// "not found" instead of aliasing whatever entity later reuses the slot.
type EntityID struct {
	Slot       uint32
	Generation uint32
}

func (id EntityID) String() string {
	return fmt.Sprintf("%d@%d", id.Slot, id.Generation)
}

// ArchetypeID identifies a group of entities that share the exact same set of
// component types.
type ArchetypeID int
