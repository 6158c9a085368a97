// Package gamestate owns all mutable world state: the entity allocator, one
// homogeneous component store per registered type, the archetype-based query
// index, and the tag index. Index maintenance is synchronous: by the time any
// mutating method returns, a query sees the change.
package gamestate

import (
	"github.com/rs/zerolog"

	"github.com/tesseraworks/tessera/types"
)

type State struct {
	logger zerolog.Logger

	entities entityAllocator

	// One backing store per component type. Mixed record layouts never share
	// a container; the ComponentID resolves to its own map.
	stores          map[types.ComponentID]map[types.EntityID]any
	typeToComponent map[types.ComponentID]types.ComponentMetadata

	archetypes   []*archetype
	archIDByKey  map[string]types.ArchetypeID
	entityToArch map[types.EntityID]types.ArchetypeID

	tags *tagIndex
}

func New(logger zerolog.Logger) *State {
	s := &State{
		logger:          logger,
		entities:        newEntityAllocator(),
		stores:          make(map[types.ComponentID]map[types.EntityID]any),
		typeToComponent: make(map[types.ComponentID]types.ComponentMetadata),
		archetypes:      make([]*archetype, 0),
		archIDByKey:     make(map[string]types.ArchetypeID),
		entityToArch:    make(map[types.EntityID]types.ArchetypeID),
		tags:            newTagIndex(),
	}
	// Archetype 0 holds entities with no components yet.
	s.getOrCreateArchetype(nil)
	return s
}

// RegisterComponents installs the component registry into the state. It must
// be called before any component mutation.
func (s *State) RegisterComponents(comps []types.ComponentMetadata) error {
	for _, comp := range comps {
		if _, ok := s.typeToComponent[comp.ID()]; ok {
			continue
		}
		s.typeToComponent[comp.ID()] = comp
		s.stores[comp.ID()] = make(map[types.EntityID]any)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Entities
// ---------------------------------------------------------------------------

func (s *State) CreateEntity() (types.EntityID, error) {
	id, err := s.entities.allocate()
	if err != nil {
		return types.EntityID{}, err
	}
	s.archetypes[0].push(id)
	s.entityToArch[id] = 0
	s.logger.Debug().Str("entity_id", id.String()).Msg("entity created")
	return id, nil
}

func (s *State) CreateManyEntities(num int) ([]types.EntityID, error) {
	ids := make([]types.EntityID, 0, num)
	for i := 0; i < num; i++ {
		id, err := s.CreateEntity()
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// DestroyEntity removes the entity, every component it holds and every tag
// attached to it. Destroying a dead or unknown entity is a no-op and reports
// false.
func (s *State) DestroyEntity(id types.EntityID) bool {
	if !s.entities.isAlive(id) {
		return false
	}
	arch := s.archetypes[s.entityToArch[id]]
	for _, comp := range arch.components {
		delete(s.stores[comp.ID()], id)
	}
	arch.removeEntity(id)
	delete(s.entityToArch, id)
	s.tags.removeEntity(id)
	s.entities.release(id)
	s.logger.Debug().Str("entity_id", id.String()).Msg("entity destroyed")
	return true
}

func (s *State) IsAlive(id types.EntityID) bool {
	return s.entities.isAlive(id)
}

func (s *State) EntityCount() int {
	return s.entities.liveCount()
}

// EachEntity visits every live entity in slot order. Return false from the
// callback to stop early.
func (s *State) EachEntity(fn func(types.EntityID) bool) {
	s.entities.each(fn)
}

// ---------------------------------------------------------------------------
// Components
// ---------------------------------------------------------------------------

// SetComponentForEntity adds the component to the entity, replacing any
// existing instance of the same type. Adding a new type moves the entity to
// the archetype for its new component set before this method returns.
func (s *State) SetComponentForEntity(
	comp types.ComponentMetadata, id types.EntityID, value any,
) error {
	if !s.entities.isAlive(id) {
		return ErrEntityDoesNotExist
	}
	store, ok := s.stores[comp.ID()]
	if !ok {
		return ErrComponentNotRegistered
	}
	if _, exists := store[id]; exists {
		// Same component set, no archetype move. Replace in place.
		store[id] = value
		return nil
	}
	store[id] = value
	s.moveEntity(id, comp.ID(), true)
	return nil
}

// RemoveComponentFromEntity deletes the component instance if present. It
// reports whether anything was removed; a dead entity or an absent component
// is an empty result, not an error.
func (s *State) RemoveComponentFromEntity(
	comp types.ComponentMetadata, id types.EntityID,
) (bool, error) {
	if !s.entities.isAlive(id) {
		return false, nil
	}
	store, ok := s.stores[comp.ID()]
	if !ok {
		return false, ErrComponentNotRegistered
	}
	if _, exists := store[id]; !exists {
		return false, nil
	}
	delete(store, id)
	s.moveEntity(id, comp.ID(), false)
	return true, nil
}

// GetComponentForEntity returns the stored component value. Component structs
// are stored and returned by value, so the caller holds a copy, never an
// alias into the store.
func (s *State) GetComponentForEntity(
	comp types.ComponentMetadata, id types.EntityID,
) (any, error) {
	if !s.entities.isAlive(id) {
		return nil, ErrEntityDoesNotExist
	}
	store, ok := s.stores[comp.ID()]
	if !ok {
		return nil, ErrComponentNotRegistered
	}
	value, exists := store[id]
	if !exists {
		return nil, ErrComponentNotOnEntity
	}
	return value, nil
}

func (s *State) HasComponentForEntity(comp types.ComponentMetadata, id types.EntityID) bool {
	if !s.entities.isAlive(id) {
		return false
	}
	store, ok := s.stores[comp.ID()]
	if !ok {
		return false
	}
	_, exists := store[id]
	return exists
}

// GetComponentTypesForEntity returns the component types currently on the
// entity, sorted by ComponentID.
func (s *State) GetComponentTypesForEntity(id types.EntityID) ([]types.ComponentMetadata, error) {
	if !s.entities.isAlive(id) {
		return nil, ErrEntityDoesNotExist
	}
	arch := s.archetypes[s.entityToArch[id]]
	comps := make([]types.ComponentMetadata, len(arch.components))
	copy(comps, arch.components)
	return comps, nil
}

// moveEntity shifts the entity to the archetype matching its component set
// after compID was added or removed.
func (s *State) moveEntity(id types.EntityID, compID types.ComponentID, added bool) {
	oldArch := s.archetypes[s.entityToArch[id]]

	newComps := make([]types.ComponentMetadata, 0, len(oldArch.components)+1)
	for _, c := range oldArch.components {
		if !added && c.ID() == compID {
			continue
		}
		newComps = append(newComps, c)
	}
	if added {
		newComps = append(newComps, s.typeToComponent[compID])
	}

	newArch := s.getOrCreateArchetype(newComps)
	oldArch.removeEntity(id)
	newArch.push(id)
	s.entityToArch[id] = newArch.id
}

func (s *State) getOrCreateArchetype(comps []types.ComponentMetadata) *archetype {
	ids := make([]types.ComponentID, 0, len(comps))
	for _, c := range comps {
		ids = append(ids, c.ID())
	}
	key := archetypeKey(ids)
	if archID, ok := s.archIDByKey[key]; ok {
		return s.archetypes[archID]
	}
	arch := newArchetype(types.ArchetypeID(len(s.archetypes)), comps)
	s.archetypes = append(s.archetypes, arch)
	s.archIDByKey[key] = arch.id
	s.logger.Debug().Int("archetype_id", int(arch.id)).Int("components", len(comps)).
		Msg("archetype created")
	return arch
}

// ---------------------------------------------------------------------------
// Tags
// ---------------------------------------------------------------------------

func (s *State) AddTag(id types.EntityID, tag string) error {
	if !s.entities.isAlive(id) {
		return ErrEntityDoesNotExist
	}
	s.tags.add(id, tag)
	return nil
}

// RemoveTag reports whether the entity actually carried the tag.
func (s *State) RemoveTag(id types.EntityID, tag string) bool {
	if !s.entities.isAlive(id) {
		return false
	}
	return s.tags.remove(id, tag)
}

func (s *State) HasTag(id types.EntityID, tag string) bool {
	return s.entities.isAlive(id) && s.tags.has(id, tag)
}

// EntitiesWithTag returns the tagged entities in tagging order. The slice is
// a snapshot owned by the caller.
func (s *State) EntitiesWithTag(tag string) []types.EntityID {
	return s.tags.entities(tag)
}

// TagsForEntity returns the entity's tags in the order they were attached.
func (s *State) TagsForEntity(id types.EntityID) []string {
	if !s.entities.isAlive(id) {
		return nil
	}
	return s.tags.tagsFor(id)
}

// ---------------------------------------------------------------------------
// Query index access
// ---------------------------------------------------------------------------

// ArchetypeCount returns the number of archetypes ever created. Search caches
// compare it against their high-water mark to find archetypes created since
// the last evaluation.
func (s *State) ArchetypeCount() int {
	return len(s.archetypes)
}

// ArchetypesAfter visits the component sets of archetypes with id >= seen.
func (s *State) ArchetypesAfter(seen int, fn func(types.ArchetypeID, []types.ComponentMetadata) bool) {
	for _, arch := range s.archetypes[seen:] {
		if !fn(arch.id, arch.components) {
			return
		}
	}
}

// EntitiesForArchetype returns a snapshot of the archetype's members in
// insertion order.
func (s *State) EntitiesForArchetype(archID types.ArchetypeID) []types.EntityID {
	if int(archID) >= len(s.archetypes) {
		return nil
	}
	arch := s.archetypes[archID]
	out := make([]types.EntityID, len(arch.entities))
	copy(out, arch.entities)
	return out
}
