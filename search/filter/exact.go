package filter

import "github.com/tesseraworks/tessera/types"

type exact struct {
	components []types.ComponentMetadata
}

// Exact matches component sets that contain exactly the specified components,
// nothing more and nothing less.
func Exact(components ...types.ComponentMetadata) ComponentFilter {
	return exact{components: components}
}

func (f exact) MatchesComponents(components []types.ComponentMetadata) bool {
	if len(components) != len(f.components) {
		return false
	}
	match := CreateComponentMatcher(f.components)
	for _, comp := range components {
		if !match(comp) {
			return false
		}
	}
	return true
}
