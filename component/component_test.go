package component_test

import (
	"testing"

	"gotest.tools/v3/assert"

	"github.com/tesseraworks/tessera/component"
	"github.com/tesseraworks/tessera/types"
)

type Energy struct {
	Amount int
	Cap    int
}

func (Energy) Name() string { return "energy" }

type Ownable struct {
	Owner string
}

func (Ownable) Name() string { return "ownable" }

type unnamed struct{}

func (unnamed) Name() string { return "" }

func TestMetadataEncodeDecodeRoundTrip(t *testing.T) {
	meta, err := component.NewMetadata[Energy]()
	assert.NilError(t, err)
	assert.Equal(t, "energy", meta.Name())

	bz, err := meta.Encode(Energy{Amount: 150, Cap: 200})
	assert.NilError(t, err)

	value, err := meta.Decode(bz)
	assert.NilError(t, err)
	assert.Equal(t, Energy{Amount: 150, Cap: 200}, value.(Energy))
}

func TestMetadataIDCanOnlyBeSetOnce(t *testing.T) {
	meta, err := component.NewMetadata[Energy]()
	assert.NilError(t, err)

	assert.NilError(t, meta.SetID(5))
	assert.Equal(t, types.ComponentID(5), meta.ID())

	// Re-setting the same id is tolerated, a different id is not.
	assert.NilError(t, meta.SetID(5))
	assert.Assert(t, meta.SetID(6) != nil)
}

func TestEmptyComponentNameIsRejected(t *testing.T) {
	_, err := component.NewMetadata[unnamed]()
	assert.Assert(t, err != nil)
}

func TestSchemaDigestIsStablePerType(t *testing.T) {
	a, err := component.NewMetadata[Energy]()
	assert.NilError(t, err)
	b, err := component.NewMetadata[Energy]()
	assert.NilError(t, err)
	other, err := component.NewMetadata[Ownable]()
	assert.NilError(t, err)

	assert.Equal(t, a.SchemaDigest(), b.SchemaDigest())
	assert.Assert(t, a.SchemaDigest() != other.SchemaDigest())
}

func TestManagerAssignsIDsInRegistrationOrder(t *testing.T) {
	m := component.NewManager()

	energy, err := component.NewMetadata[Energy]()
	assert.NilError(t, err)
	ownable, err := component.NewMetadata[Ownable]()
	assert.NilError(t, err)

	assert.NilError(t, m.Register(energy))
	assert.NilError(t, m.Register(ownable))
	assert.Assert(t, energy.ID() < ownable.ID())

	got, err := m.GetComponentByName("energy")
	assert.NilError(t, err)
	assert.Equal(t, energy.ID(), got.ID())

	_, err = m.GetComponentByName("missing")
	assert.Assert(t, err != nil)
}

func TestManagerRejectsDuplicateNames(t *testing.T) {
	m := component.NewManager()

	first, err := component.NewMetadata[Energy]()
	assert.NilError(t, err)
	second, err := component.NewMetadata[Energy]()
	assert.NilError(t, err)

	assert.NilError(t, m.Register(first))
	assert.ErrorIs(t, m.Register(second), component.ErrComponentAlreadyRegistered)
}
