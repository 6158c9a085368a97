package filter

import "github.com/tesseraworks/tessera/types"

type not struct {
	filter ComponentFilter
}

// Not matches component sets that do not match the wrapped filter.
func Not(filter ComponentFilter) ComponentFilter {
	return not{filter: filter}
}

func (f not) MatchesComponents(components []types.ComponentMetadata) bool {
	return !f.filter.MatchesComponents(components)
}
