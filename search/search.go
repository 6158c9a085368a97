// Package search answers "which entities hold components matching this
// filter" against the archetype index kept by gamestate.
package search

import (
	"github.com/rotisserie/eris"

	"github.com/tesseraworks/tessera/gamestate"
	"github.com/tesseraworks/tessera/search/filter"
	"github.com/tesseraworks/tessera/types"
)

var ErrNoEntitiesFound = eris.New("no entities found")

// CallbackFn is invoked per matching entity. Return false to stop iterating.
type CallbackFn func(types.EntityID) bool

// cache remembers which archetypes matched the filter and how many archetypes
// existed when they were last evaluated. Archetype component sets are
// immutable, so only archetypes created since need to be examined.
type cache struct {
	archetypes []types.ArchetypeID
	seen       int
}

// Search filters entities by their component sets. Reusing one Search across
// frames amortizes filter evaluation; a fresh Search is still cheap.
type Search struct {
	state       *gamestate.State
	filter      filter.ComponentFilter
	archMatches *cache
	filterErr   error
}

// New creates a search over the given state. The filter is validated once;
// an invalid filter (such as an empty component list) surfaces from every
// subsequent call.
func New(state *gamestate.State, componentFilter filter.ComponentFilter) *Search {
	return &Search{
		state:       state,
		filter:      componentFilter,
		archMatches: &cache{},
		filterErr:   filter.Validate(componentFilter),
	}
}

// Each calls the callback for every entity matching the search. The matching
// entity list is captured when Each is called: entities destroyed by the
// callback (or by anything it triggers) are skipped for the remainder of the
// iteration rather than corrupting it, and entities created mid-iteration are
// first seen by the next query.
func (s *Search) Each(callback CallbackFn) error {
	ids, err := s.snapshotMatches()
	if err != nil {
		return err
	}
	for _, id := range ids {
		if !s.state.IsAlive(id) {
			continue
		}
		if !callback(id) {
			return nil
		}
	}
	return nil
}

// Count returns the number of entities matching the search.
func (s *Search) Count() (int, error) {
	ids, err := s.snapshotMatches()
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}

// First returns the first matching entity, or ErrNoEntitiesFound.
func (s *Search) First() (types.EntityID, error) {
	ids, err := s.snapshotMatches()
	if err != nil {
		return types.EntityID{}, err
	}
	if len(ids) == 0 {
		return types.EntityID{}, ErrNoEntitiesFound
	}
	return ids[0], nil
}

// Collect returns all matching entities. The slice is owned by the caller.
func (s *Search) Collect() ([]types.EntityID, error) {
	return s.snapshotMatches()
}

func (s *Search) snapshotMatches() ([]types.EntityID, error) {
	if s.filterErr != nil {
		return nil, s.filterErr
	}
	ids := make([]types.EntityID, 0)
	for _, archID := range s.evaluateSearch() {
		ids = append(ids, s.state.EntitiesForArchetype(archID)...)
	}
	return ids, nil
}

func (s *Search) evaluateSearch() []types.ArchetypeID {
	s.state.ArchetypesAfter(s.archMatches.seen, func(id types.ArchetypeID, comps []types.ComponentMetadata) bool {
		if s.filter.MatchesComponents(comps) {
			s.archMatches.archetypes = append(s.archMatches.archetypes, id)
		}
		return true
	})
	s.archMatches.seen = s.state.ArchetypeCount()
	return s.archMatches.archetypes
}
