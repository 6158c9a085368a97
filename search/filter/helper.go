package filter

import "github.com/tesseraworks/tessera/types"

// MatchComponentMetadata returns true if the given slice of components
// contains the given component. Components are the same if they share a Name.
func MatchComponentMetadata(
	components []types.ComponentMetadata,
	cType types.ComponentMetadata,
) bool {
	for _, c := range components {
		if cType.Name() == c.Name() {
			return true
		}
	}
	return false
}

// CreateComponentMatcher builds a membership predicate over the given
// component slice, keyed by component name.
func CreateComponentMatcher(components []types.ComponentMetadata) func(types.ComponentMetadata) bool {
	nameToComponent := make(map[string]struct{}, len(components))
	for _, component := range components {
		nameToComponent[component.Name()] = struct{}{}
	}
	return func(cType types.ComponentMetadata) bool {
		_, ok := nameToComponent[cType.Name()]
		return ok
	}
}
