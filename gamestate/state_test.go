package gamestate

import (
	"testing"

	"github.com/rs/zerolog"
	"gotest.tools/v3/assert"

	"github.com/tesseraworks/tessera/component"
	"github.com/tesseraworks/tessera/types"
)

type Position struct {
	X, Y float64
}

func (Position) Name() string { return "position" }

type Velocity struct {
	DX, DY float64
}

func (Velocity) Name() string { return "velocity" }

type Health struct {
	Amount int
}

func (Health) Name() string { return "health" }

func newTestState(t *testing.T) (*State, types.ComponentMetadata, types.ComponentMetadata, types.ComponentMetadata) {
	t.Helper()
	pos, err := component.NewMetadata[Position]()
	assert.NilError(t, err)
	vel, err := component.NewMetadata[Velocity]()
	assert.NilError(t, err)
	hp, err := component.NewMetadata[Health]()
	assert.NilError(t, err)
	assert.NilError(t, pos.SetID(1))
	assert.NilError(t, vel.SetID(2))
	assert.NilError(t, hp.SetID(3))

	state := New(zerolog.Nop())
	assert.NilError(t, state.RegisterComponents([]types.ComponentMetadata{pos, vel, hp}))
	return state, pos, vel, hp
}

func TestComponentMutationIsImmediatelyVisible(t *testing.T) {
	state, pos, _, _ := newTestState(t)

	id, err := state.CreateEntity()
	assert.NilError(t, err)

	assert.NilError(t, state.SetComponentForEntity(pos, id, Position{X: 1, Y: 2}))
	assert.Assert(t, state.HasComponentForEntity(pos, id))

	value, err := state.GetComponentForEntity(pos, id)
	assert.NilError(t, err)
	assert.Equal(t, Position{X: 1, Y: 2}, value.(Position))
}

func TestSetComponentReplacesExistingInstance(t *testing.T) {
	state, pos, _, _ := newTestState(t)

	id, err := state.CreateEntity()
	assert.NilError(t, err)

	assert.NilError(t, state.SetComponentForEntity(pos, id, Position{X: 1}))
	archCount := state.ArchetypeCount()

	assert.NilError(t, state.SetComponentForEntity(pos, id, Position{X: 7}))
	value, err := state.GetComponentForEntity(pos, id)
	assert.NilError(t, err)
	assert.Equal(t, 7.0, value.(Position).X)

	// Replacing in place must not grow the archetype table.
	assert.Equal(t, archCount, state.ArchetypeCount())
}

func TestDestroyCascadesComponentsAndTags(t *testing.T) {
	state, pos, vel, _ := newTestState(t)

	id, err := state.CreateEntity()
	assert.NilError(t, err)
	assert.NilError(t, state.SetComponentForEntity(pos, id, Position{}))
	assert.NilError(t, state.SetComponentForEntity(vel, id, Velocity{}))
	assert.NilError(t, state.AddTag(id, "enemy"))

	assert.Assert(t, state.DestroyEntity(id))

	assert.Assert(t, !state.HasComponentForEntity(pos, id))
	assert.Assert(t, !state.HasComponentForEntity(vel, id))
	assert.Assert(t, !state.HasTag(id, "enemy"))
	assert.Equal(t, 0, len(state.EntitiesWithTag("enemy")))

	_, err = state.GetComponentForEntity(pos, id)
	assert.ErrorIs(t, err, ErrEntityDoesNotExist)

	// Destroy is idempotent.
	assert.Assert(t, !state.DestroyEntity(id))
}

func TestRemoveComponentReportsWhetherRemoved(t *testing.T) {
	state, pos, vel, _ := newTestState(t)

	id, err := state.CreateEntity()
	assert.NilError(t, err)
	assert.NilError(t, state.SetComponentForEntity(pos, id, Position{}))

	removed, err := state.RemoveComponentFromEntity(pos, id)
	assert.NilError(t, err)
	assert.Assert(t, removed)

	removed, err = state.RemoveComponentFromEntity(pos, id)
	assert.NilError(t, err)
	assert.Assert(t, !removed)

	removed, err = state.RemoveComponentFromEntity(vel, id)
	assert.NilError(t, err)
	assert.Assert(t, !removed)

	// A dead entity is an absent result, not an error.
	state.DestroyEntity(id)
	removed, err = state.RemoveComponentFromEntity(pos, id)
	assert.NilError(t, err)
	assert.Assert(t, !removed)
}

func TestArchetypePreservesInsertionOrder(t *testing.T) {
	state, pos, _, _ := newTestState(t)

	var ids []types.EntityID
	for i := 0; i < 4; i++ {
		id, err := state.CreateEntity()
		assert.NilError(t, err)
		assert.NilError(t, state.SetComponentForEntity(pos, id, Position{X: float64(i)}))
		ids = append(ids, id)
	}

	arch := state.entityToArch[ids[0]]
	assert.DeepEqual(t, state.EntitiesForArchetype(arch), ids)

	// Removing from the middle keeps the relative order of the rest.
	state.DestroyEntity(ids[1])
	assert.DeepEqual(t, state.EntitiesForArchetype(arch),
		[]types.EntityID{ids[0], ids[2], ids[3]})
}

func TestTagsAreManyToMany(t *testing.T) {
	state, _, _, _ := newTestState(t)

	a, err := state.CreateEntity()
	assert.NilError(t, err)
	b, err := state.CreateEntity()
	assert.NilError(t, err)

	assert.NilError(t, state.AddTag(a, "enemy"))
	assert.NilError(t, state.AddTag(b, "enemy"))
	assert.NilError(t, state.AddTag(b, "boss"))

	assert.DeepEqual(t, state.EntitiesWithTag("enemy"), []types.EntityID{a, b})
	assert.DeepEqual(t, state.EntitiesWithTag("boss"), []types.EntityID{b})
	assert.DeepEqual(t, state.TagsForEntity(b), []string{"enemy", "boss"})

	// Tags are case-sensitive, and adding one twice is a no-op.
	assert.Equal(t, 0, len(state.EntitiesWithTag("Enemy")))
	assert.NilError(t, state.AddTag(a, "enemy"))
	assert.DeepEqual(t, state.EntitiesWithTag("enemy"), []types.EntityID{a, b})

	assert.Assert(t, state.RemoveTag(b, "enemy"))
	assert.Assert(t, !state.RemoveTag(b, "enemy"))
	assert.DeepEqual(t, state.EntitiesWithTag("enemy"), []types.EntityID{a})
}

func TestTagOnDeadEntity(t *testing.T) {
	state, _, _, _ := newTestState(t)

	id, err := state.CreateEntity()
	assert.NilError(t, err)
	state.DestroyEntity(id)

	assert.ErrorIs(t, state.AddTag(id, "enemy"), ErrEntityDoesNotExist)
	assert.Assert(t, !state.HasTag(id, "enemy"))
}

func TestUnregisteredComponentIsRejected(t *testing.T) {
	state, _, _, _ := newTestState(t)

	unregistered, err := component.NewMetadata[Position]()
	assert.NilError(t, err)
	assert.NilError(t, unregistered.SetID(99))

	id, err := state.CreateEntity()
	assert.NilError(t, err)

	err = state.SetComponentForEntity(unregistered, id, Position{})
	assert.ErrorIs(t, err, ErrComponentNotRegistered)
}

func TestGetComponentTypesForEntity(t *testing.T) {
	state, pos, vel, _ := newTestState(t)

	id, err := state.CreateEntity()
	assert.NilError(t, err)
	assert.NilError(t, state.SetComponentForEntity(vel, id, Velocity{}))
	assert.NilError(t, state.SetComponentForEntity(pos, id, Position{}))

	comps, err := state.GetComponentTypesForEntity(id)
	assert.NilError(t, err)
	assert.Equal(t, 2, len(comps))
	// Sorted by ComponentID regardless of add order.
	assert.Equal(t, "position", comps[0].Name())
	assert.Equal(t, "velocity", comps[1].Name())
}
