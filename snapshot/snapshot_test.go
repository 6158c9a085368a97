package snapshot_test

import (
	"testing"

	"github.com/rs/zerolog"
	"gotest.tools/v3/assert"

	"github.com/tesseraworks/tessera/component"
	"github.com/tesseraworks/tessera/gamestate"
	"github.com/tesseraworks/tessera/snapshot"
	"github.com/tesseraworks/tessera/types"
)

type Position struct {
	X, Y float64
}

func (Position) Name() string { return "position" }

type Inventory struct {
	Items []string
}

func (Inventory) Name() string { return "inventory" }

type fixture struct {
	state   *gamestate.State
	gateway *snapshot.Gateway
	pos     types.ComponentMetadata
	inv     types.ComponentMetadata
}

func newFixture(t *testing.T, opts ...snapshot.Option) *fixture {
	t.Helper()
	pos, err := component.NewMetadata[Position]()
	assert.NilError(t, err)
	inv, err := component.NewMetadata[Inventory]()
	assert.NilError(t, err)
	assert.NilError(t, pos.SetID(1))
	assert.NilError(t, inv.SetID(2))

	state := gamestate.New(zerolog.Nop())
	assert.NilError(t, state.RegisterComponents([]types.ComponentMetadata{pos, inv}))

	gateway := snapshot.NewGateway(zerolog.Nop(), opts...)
	assert.NilError(t, gateway.RegisterType(pos))
	assert.NilError(t, gateway.RegisterType(inv))

	return &fixture{state: state, gateway: gateway, pos: pos, inv: inv}
}

func (f *fixture) populate(t *testing.T) {
	t.Helper()
	hero, err := f.state.CreateEntity()
	assert.NilError(t, err)
	assert.NilError(t, f.state.SetComponentForEntity(f.pos, hero, Position{X: 3, Y: 4}))
	assert.NilError(t, f.state.SetComponentForEntity(f.inv, hero, Inventory{Items: []string{"sword", "torch"}}))
	assert.NilError(t, f.state.AddTag(hero, "player"))

	rock, err := f.state.CreateEntity()
	assert.NilError(t, err)
	assert.NilError(t, f.state.SetComponentForEntity(f.pos, rock, Position{X: -1, Y: 0}))
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	src := newFixture(t)
	src.populate(t)

	rec, err := src.gateway.Take(src.state)
	assert.NilError(t, err)
	assert.Equal(t, snapshot.FormatVersion, rec.FormatVersion)
	assert.Assert(t, rec.ID != "")
	assert.Equal(t, 2, len(rec.Entities))

	dst := newFixture(t)
	report, err := dst.gateway.Restore(dst.state, rec)
	assert.NilError(t, err)
	assert.Equal(t, 2, report.Entities)
	assert.Equal(t, 3, report.Components)
	assert.Equal(t, 0, report.SkippedComponents)

	// The restored world holds the same (type, value) pairs per source
	// entity, in the same walk order.
	var restored []types.EntityID
	dst.state.EachEntity(func(id types.EntityID) bool {
		restored = append(restored, id)
		return true
	})
	assert.Equal(t, 2, len(restored))

	heroPos, err := dst.state.GetComponentForEntity(dst.pos, restored[0])
	assert.NilError(t, err)
	assert.Equal(t, Position{X: 3, Y: 4}, heroPos.(Position))

	heroInv, err := dst.state.GetComponentForEntity(dst.inv, restored[0])
	assert.NilError(t, err)
	assert.DeepEqual(t, []string{"sword", "torch"}, heroInv.(Inventory).Items)
	assert.DeepEqual(t, []string{"player"}, dst.state.TagsForEntity(restored[0]))

	rockPos, err := dst.state.GetComponentForEntity(dst.pos, restored[1])
	assert.NilError(t, err)
	assert.Equal(t, Position{X: -1, Y: 0}, rockPos.(Position))
	assert.Assert(t, !dst.state.HasComponentForEntity(dst.inv, restored[1]))
}

func TestUnregisteredTypeIsSkippedOnSnapshot(t *testing.T) {
	src := newFixture(t)
	src.populate(t)

	// With inventory unregistered from the gateway, snapshots simply omit
	// it; nothing aborts.
	assert.Assert(t, src.gateway.UnregisterType("inventory"))
	assert.Assert(t, !src.gateway.UnregisterType("inventory"))

	rec, err := src.gateway.Take(src.state)
	assert.NilError(t, err)

	dst := newFixture(t)
	report, err := dst.gateway.Restore(dst.state, rec)
	assert.NilError(t, err)
	assert.Equal(t, 0, report.SkippedComponents)

	var restored []types.EntityID
	dst.state.EachEntity(func(id types.EntityID) bool {
		restored = append(restored, id)
		return true
	})
	assert.Assert(t, dst.state.HasComponentForEntity(dst.pos, restored[0]))
	assert.Assert(t, !dst.state.HasComponentForEntity(dst.inv, restored[0]))
}

func TestUnknownTypeIsSkippedOnRestore(t *testing.T) {
	src := newFixture(t)
	src.populate(t)

	rec, err := src.gateway.Take(src.state)
	assert.NilError(t, err)

	// The restoring side no longer knows about inventory. Non-strict mode
	// reports the skip and carries on.
	dst := newFixture(t)
	dst.gateway.UnregisterType("inventory")

	report, err := dst.gateway.Restore(dst.state, rec)
	assert.NilError(t, err)
	assert.Equal(t, 2, report.Entities)
	assert.Equal(t, 1, report.SkippedComponents)
}

func TestStrictModeAbortsOnSkippedComponent(t *testing.T) {
	src := newFixture(t)
	src.populate(t)

	rec, err := src.gateway.Take(src.state)
	assert.NilError(t, err)

	dst := newFixture(t, snapshot.WithStrict())
	dst.gateway.UnregisterType("inventory")

	_, err = dst.gateway.Restore(dst.state, rec)
	assert.ErrorContains(t, err, "inventory")
}

func TestMalformedComponentIsSkippedPerEntity(t *testing.T) {
	src := newFixture(t)
	src.populate(t)

	rec, err := src.gateway.Take(src.state)
	assert.NilError(t, err)

	// Corrupt the hero's position payload only.
	rec.Entities[0].Components["position"] = []byte(`{"X": "not-a-number"}`)

	dst := newFixture(t)
	report, err := dst.gateway.Restore(dst.state, rec)
	assert.NilError(t, err)
	assert.Equal(t, 2, report.Entities)
	assert.Equal(t, 1, report.SkippedComponents)

	// The rock's position survived untouched.
	var restored []types.EntityID
	dst.state.EachEntity(func(id types.EntityID) bool {
		restored = append(restored, id)
		return true
	})
	assert.Assert(t, !dst.state.HasComponentForEntity(dst.pos, restored[0]))
	assert.Assert(t, dst.state.HasComponentForEntity(dst.pos, restored[1]))
}

func TestFormatVersionMismatchFailsOutright(t *testing.T) {
	src := newFixture(t)
	rec, err := src.gateway.Take(src.state)
	assert.NilError(t, err)

	rec.FormatVersion = snapshot.FormatVersion + 1

	dst := newFixture(t)
	_, err = dst.gateway.Restore(dst.state, rec)
	assert.ErrorIs(t, err, snapshot.ErrVersionMismatch)
}

func TestSchemaDriftIsTreatedAsComponentFailure(t *testing.T) {
	src := newFixture(t)
	src.populate(t)

	rec, err := src.gateway.Take(src.state)
	assert.NilError(t, err)
	rec.Schemas["position"] = "deadbeef"

	dst := newFixture(t)
	report, err := dst.gateway.Restore(dst.state, rec)
	assert.NilError(t, err)
	assert.Equal(t, 2, report.SkippedComponents)
}

func TestDoubleRegistrationIsRejected(t *testing.T) {
	f := newFixture(t)
	assert.ErrorIs(t, f.gateway.RegisterType(f.pos), snapshot.ErrTypeAlreadyRegistered)
}

func TestDiffBetweenSnapshots(t *testing.T) {
	f := newFixture(t)
	f.populate(t)

	before, err := f.gateway.Take(f.state)
	assert.NilError(t, err)

	var first types.EntityID
	f.state.EachEntity(func(id types.EntityID) bool {
		first = id
		return false
	})
	assert.NilError(t, f.state.SetComponentForEntity(f.pos, first, Position{X: 99, Y: 4}))

	after, err := f.gateway.Take(f.state)
	assert.NilError(t, err)
	after.ID = before.ID
	after.CreatedAt = before.CreatedAt

	patch, err := snapshot.Diff(before, after)
	assert.NilError(t, err)
	assert.Assert(t, len(patch) > 0)
}
