package component

import (
	"crypto/sha256"
	"encoding/hex"
	"reflect"

	"github.com/goccy/go-json"
	"github.com/invopop/jsonschema"
	"github.com/rotisserie/eris"

	"github.com/tesseraworks/tessera/codec"
	"github.com/tesseraworks/tessera/types"
)

// NewMetadata builds the engine-side metadata for the component type T.
// The zero value of T supplies the registered name.
func NewMetadata[T types.Component]() (types.ComponentMetadata, error) {
	var t T
	if t.Name() == "" {
		return nil, eris.New("component name must not be empty")
	}
	return &metadata[T]{
		typ:    reflect.TypeOf(t),
		name:   t.Name(),
		digest: schemaDigest(t),
	}, nil
}

// metadata implements types.ComponentMetadata for a concrete component type.
// There is exactly one instance per registered type per world.
type metadata[T types.Component] struct {
	isIDSet bool
	id      types.ComponentID
	typ     reflect.Type
	name    string
	digest  string
}

func (c *metadata[T]) SetID(id types.ComponentID) error {
	if c.isIDSet {
		// Tests often register the same component struct in several worlds.
		// Re-registration is fine as long as the assigned ID is unchanged.
		if id == c.id {
			return nil
		}
		return eris.Errorf("id for component %q is already set to %v, cannot change to %v", c.name, c.id, id)
	}
	c.id = id
	c.isIDSet = true
	return nil
}

func (c *metadata[T]) ID() types.ComponentID {
	return c.id
}

func (c *metadata[T]) Name() string {
	return c.name
}

func (c *metadata[T]) String() string {
	return c.name
}

func (c *metadata[T]) New() any {
	var t T
	return t
}

func (c *metadata[T]) Encode(value any) ([]byte, error) {
	return codec.Encode(value)
}

func (c *metadata[T]) Decode(bz []byte) (any, error) {
	return codec.Decode[T](bz)
}

func (c *metadata[T]) SchemaDigest() string {
	return c.digest
}

// schemaDigest reflects the JSON schema of the component struct and hashes it.
// Two builds of the engine agree on the digest iff the component's serialized
// layout is identical, which is what snapshot restore wants to check.
func schemaDigest(v any) string {
	schema := jsonschema.Reflect(v)
	bz, err := json.Marshal(schema)
	if err != nil {
		// jsonschema output is always marshalable; a failure here is a bug.
		panic(eris.Wrap(err, "failed to marshal component schema"))
	}
	sum := sha256.Sum256(bz)
	return hex.EncodeToString(sum[:])
}
