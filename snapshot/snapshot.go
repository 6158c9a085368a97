// Package snapshot is the serialization gateway: it walks live world state
// into a versioned record and rebuilds world state from one. Systems and
// event subscriptions are never part of a record; application startup code
// re-registers them after a restore.
package snapshot

import (
	"sort"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"

	"github.com/tesseraworks/tessera/gamestate"
	"github.com/tesseraworks/tessera/types"
)

// FormatVersion is the record layout version. Restore refuses records written
// with a different version outright; per-component drift is handled through
// schema digests instead.
const FormatVersion = 1

var (
	ErrTypeAlreadyRegistered = eris.New("component type already registered with gateway")
	ErrVersionMismatch       = eris.New("snapshot format version mismatch")
)

// Record is the structured representation of a world: entities in creation
// order, each keyed by registered component type name.
type Record struct {
	FormatVersion int       `json:"format_version"`
	ID            string    `json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	// Schemas maps component type names to their schema digest at snapshot
	// time, letting a restore detect that a component's layout has drifted.
	Schemas  map[string]string `json:"schemas"`
	Entities []EntityRecord    `json:"entities"`
}

// EntityRecord holds one entity's persisted components and tags. The id is
// informational only: restore mints fresh identifiers.
type EntityRecord struct {
	ID         string                     `json:"id"`
	Components map[string]json.RawMessage `json:"components"`
	Tags       []string                   `json:"tags,omitempty"`
}

// Report summarizes a restore. SkippedComponents counts per-entity component
// failures (unknown type, schema drift, decode error) tolerated in non-strict
// mode.
type Report struct {
	Entities          int
	Components        int
	SkippedComponents int
}

// Gateway converts between live state and Records. Only component types
// registered with the gateway are persisted; anything else is skipped.
type Gateway struct {
	logger   zerolog.Logger
	registry map[string]types.ComponentMetadata
	strict   bool
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithStrict makes any per-component restore failure abort the whole restore
// instead of skipping the component.
func WithStrict() Option {
	return func(g *Gateway) {
		g.strict = true
	}
}

func NewGateway(logger zerolog.Logger, opts ...Option) *Gateway {
	g := &Gateway{
		logger:   logger,
		registry: make(map[string]types.ComponentMetadata),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// RegisterType makes the component type eligible for snapshot and restore.
// Registering the same name twice is an invalid-argument error.
func (g *Gateway) RegisterType(comp types.ComponentMetadata) error {
	if _, ok := g.registry[comp.Name()]; ok {
		return eris.Wrapf(ErrTypeAlreadyRegistered, "component %q", comp.Name())
	}
	g.registry[comp.Name()] = comp
	return nil
}

// UnregisterType removes the component type from the gateway. Instances of an
// unregistered type are silently left out of subsequent snapshots.
func (g *Gateway) UnregisterType(name string) bool {
	if _, ok := g.registry[name]; !ok {
		return false
	}
	delete(g.registry, name)
	return true
}

// Take walks every live entity and produces a Record covering all registered
// component types present on it, plus its tags.
func (g *Gateway) Take(state *gamestate.State) (*Record, error) {
	rec := &Record{
		FormatVersion: FormatVersion,
		ID:            uuid.NewString(),
		CreatedAt:     time.Now().UTC(),
		Schemas:       make(map[string]string, len(g.registry)),
		Entities:      make([]EntityRecord, 0, state.EntityCount()),
	}
	for name, comp := range g.registry {
		rec.Schemas[name] = comp.SchemaDigest()
	}

	var walkErr error
	state.EachEntity(func(id types.EntityID) bool {
		comps, err := state.GetComponentTypesForEntity(id)
		if err != nil {
			walkErr = err
			return false
		}
		entityRec := EntityRecord{
			ID:         id.String(),
			Components: make(map[string]json.RawMessage, len(comps)),
			Tags:       state.TagsForEntity(id),
		}
		for _, comp := range comps {
			if _, registered := g.registry[comp.Name()]; !registered {
				// Documented limitation: unregistered types are not persisted.
				continue
			}
			value, err := state.GetComponentForEntity(comp, id)
			if err != nil {
				walkErr = err
				return false
			}
			bz, err := comp.Encode(value)
			if err != nil {
				walkErr = eris.Wrapf(err, "failed to encode component %q on entity %s", comp.Name(), id)
				return false
			}
			entityRec.Components[comp.Name()] = bz
		}
		rec.Entities = append(rec.Entities, entityRec)
		return true
	})
	if walkErr != nil {
		return nil, walkErr
	}
	return rec, nil
}

// Restore recreates the record's entities in the given state with fresh
// identifiers and re-attaches their components and tags. In non-strict mode a
// component that fails to decode (or whose schema has drifted, or whose type
// is no longer registered) is logged and skipped; strict mode fails the whole
// restore instead.
func (g *Gateway) Restore(state *gamestate.State, rec *Record) (*Report, error) {
	if rec.FormatVersion != FormatVersion {
		return nil, eris.Wrapf(ErrVersionMismatch, "record version %d, supported version %d",
			rec.FormatVersion, FormatVersion)
	}

	report := &Report{}
	for _, entityRec := range rec.Entities {
		id, err := state.CreateEntity()
		if err != nil {
			return report, err
		}
		report.Entities++

		for _, name := range sortedComponentNames(entityRec.Components) {
			comp, skipErr := g.decodeTarget(rec, name)
			var value any
			if skipErr == nil {
				value, skipErr = comp.Decode(entityRec.Components[name])
			}
			if skipErr != nil {
				if g.strict {
					return report, eris.Wrapf(skipErr,
						"failed to restore component %q on entity %s", name, entityRec.ID)
				}
				report.SkippedComponents++
				g.logger.Warn().
					Str("component_name", name).
					Str("source_entity_id", entityRec.ID).
					Err(skipErr).
					Msg("skipping component during restore")
				continue
			}
			if err := state.SetComponentForEntity(comp, id, value); err != nil {
				return report, err
			}
			report.Components++
		}

		for _, tag := range entityRec.Tags {
			if err := state.AddTag(id, tag); err != nil {
				return report, err
			}
		}
	}
	return report, nil
}

// decodeTarget resolves the registered metadata for a persisted component and
// checks its schema digest against the one stored in the record.
func (g *Gateway) decodeTarget(rec *Record, name string) (types.ComponentMetadata, error) {
	comp, ok := g.registry[name]
	if !ok {
		return nil, eris.Errorf("component %q is not registered with the gateway", name)
	}
	if digest, ok := rec.Schemas[name]; ok && digest != comp.SchemaDigest() {
		return nil, eris.Errorf("schema digest mismatch for component %q", name)
	}
	return comp, nil
}

func sortedComponentNames(components map[string]json.RawMessage) []string {
	names := make([]string, 0, len(components))
	for name := range components {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
