package filter

import "github.com/tesseraworks/tessera/types"

type and struct {
	filters []ComponentFilter
}

// And matches component sets that match every sub-filter.
func And(filters ...ComponentFilter) ComponentFilter {
	return and{filters: filters}
}

func (f and) MatchesComponents(components []types.ComponentMetadata) bool {
	for _, filter := range f.filters {
		if !filter.MatchesComponents(components) {
			return false
		}
	}
	return true
}
