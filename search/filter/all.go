package filter

import "github.com/tesseraworks/tessera/types"

type all struct{}

// All matches every component set, including the empty one. Callers that
// really want every entity must say so explicitly with this filter; an empty
// Contains or Exact is rejected by the search instead.
func All() ComponentFilter {
	return all{}
}

func (all) MatchesComponents(_ []types.ComponentMetadata) bool {
	return true
}
