package snapshot

import (
	"github.com/wI2L/jsondiff"

	"github.com/tesseraworks/tessera/codec"
)

// Diff computes a JSON patch describing how record b differs from record a.
// Editor and debugging tooling use it to show what changed between two
// snapshots of the same world.
func Diff(a, b *Record) (jsondiff.Patch, error) {
	aBz, err := codec.Encode(a)
	if err != nil {
		return nil, err
	}
	bBz, err := codec.Encode(b)
	if err != nil {
		return nil, err
	}
	return jsondiff.CompareJSON(aBz, bBz)
}
