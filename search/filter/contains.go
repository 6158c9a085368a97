package filter

import "github.com/tesseraworks/tessera/types"

type contains struct {
	components []types.ComponentMetadata
}

// Contains matches component sets that include every specified component,
// whatever else they also hold.
func Contains(components ...types.ComponentMetadata) ComponentFilter {
	return contains{components: components}
}

func (f contains) MatchesComponents(components []types.ComponentMetadata) bool {
	for _, want := range f.components {
		if !MatchComponentMetadata(components, want) {
			return false
		}
	}
	return true
}
