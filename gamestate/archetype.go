package gamestate

import (
	"sort"
	"strconv"
	"strings"

	"github.com/tesseraworks/tessera/types"
)

// archetype groups every live entity that holds exactly the same set of
// component types. Entities are kept in insertion order; membership moves are
// applied synchronously by the State, which keeps the query index eagerly
// consistent with component adds and removes.
type archetype struct {
	id         types.ArchetypeID
	components []types.ComponentMetadata
	compSet    map[types.ComponentID]struct{}
	entities   []types.EntityID
	position   map[types.EntityID]int
}

func newArchetype(id types.ArchetypeID, components []types.ComponentMetadata) *archetype {
	sorted := make([]types.ComponentMetadata, len(components))
	copy(sorted, components)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID() < sorted[j].ID() })

	compSet := make(map[types.ComponentID]struct{}, len(sorted))
	for _, c := range sorted {
		compSet[c.ID()] = struct{}{}
	}
	return &archetype{
		id:         id,
		components: sorted,
		compSet:    compSet,
		entities:   make([]types.EntityID, 0),
		position:   make(map[types.EntityID]int),
	}
}

func (a *archetype) push(id types.EntityID) {
	a.position[id] = len(a.entities)
	a.entities = append(a.entities, id)
}

// removeEntity deletes the entity while preserving the insertion order of the
// remaining members.
func (a *archetype) removeEntity(id types.EntityID) {
	idx, ok := a.position[id]
	if !ok {
		return
	}
	copy(a.entities[idx:], a.entities[idx+1:])
	a.entities = a.entities[:len(a.entities)-1]
	delete(a.position, id)
	for i := idx; i < len(a.entities); i++ {
		a.position[a.entities[i]] = i
	}
}

func (a *archetype) has(compID types.ComponentID) bool {
	_, ok := a.compSet[compID]
	return ok
}

func (a *archetype) len() int {
	return len(a.entities)
}

// archetypeKey builds the lookup key for a component set. IDs are sorted so
// the key is independent of the order components were added in.
func archetypeKey(compIDs []types.ComponentID) string {
	sorted := make([]types.ComponentID, len(compIDs))
	copy(sorted, compIDs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var sb strings.Builder
	for i, id := range sorted {
		if i > 0 {
			sb.WriteByte('|')
		}
		sb.WriteString(strconv.Itoa(int(id)))
	}
	return sb.String()
}
