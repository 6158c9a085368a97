package filter

import "github.com/tesseraworks/tessera/types"

type or struct {
	filters []ComponentFilter
}

// Or matches component sets that match at least one sub-filter.
func Or(filters ...ComponentFilter) ComponentFilter {
	return or{filters: filters}
}

func (f or) MatchesComponents(components []types.ComponentMetadata) bool {
	for _, filter := range f.filters {
		if filter.MatchesComponents(components) {
			return true
		}
	}
	return false
}
