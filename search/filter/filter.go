// Package filter provides the combinators used to match archetypes by their
// component sets.
package filter

import "github.com/tesseraworks/tessera/types"

// ComponentFilter decides whether an archetype's component set matches.
type ComponentFilter interface {
	// MatchesComponents returns true if the component set matches the filter.
	MatchesComponents(components []types.ComponentMetadata) bool
}
