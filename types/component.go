package types

type ComponentID int

// Component is the interface implemented by all user-defined component structs.
// A component is a plain data record; Name is the stable identifier used for
// registration, queries and serialization.
type Component interface {
	Name() string
}

// ComponentMetadata is the engine-side representation of a registered component
// type. It carries the assigned ComponentID plus the codec used to move the
// component in and out of snapshot records.
type ComponentMetadata interface { //revive:disable-line:exported
	// SetID assigns the ID of this component type. It must only be set once.
	SetID(ComponentID) error
	// ID returns the assigned ID of the component type.
	ID() ComponentID
	// New returns a zero value of the underlying component type.
	New() any

	Encode(any) ([]byte, error)
	Decode([]byte) (any, error)

	// SchemaDigest returns a stable digest of the component's JSON schema.
	// Snapshots record it per type so a restore can detect layout drift.
	SchemaDigest() string

	Name() string
}
