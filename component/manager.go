package component

import (
	"github.com/rotisserie/eris"

	"github.com/tesseraworks/tessera/types"
)

var ErrComponentAlreadyRegistered = eris.New("component already registered")

// Manager owns the component-type registry of a single world. It assigns
// ComponentIDs in registration order and resolves names back to metadata for
// queries, CQL and snapshot restore.
type Manager struct {
	registeredComponents []types.ComponentMetadata
	nameToComponent      map[string]types.ComponentMetadata
	nextComponentID      types.ComponentID
}

func NewManager() *Manager {
	return &Manager{
		registeredComponents: make([]types.ComponentMetadata, 0),
		nameToComponent:      make(map[string]types.ComponentMetadata),
		nextComponentID:      1,
	}
}

// Register adds a component type to the registry. Registering two distinct
// types under the same name is an invalid-argument error.
func (m *Manager) Register(compMetadata types.ComponentMetadata) error {
	name := compMetadata.Name()
	if _, ok := m.nameToComponent[name]; ok {
		return eris.Wrapf(ErrComponentAlreadyRegistered, "component %q", name)
	}
	if err := compMetadata.SetID(m.nextComponentID); err != nil {
		return err
	}
	m.nextComponentID++
	m.registeredComponents = append(m.registeredComponents, compMetadata)
	m.nameToComponent[name] = compMetadata
	return nil
}

// GetComponentByName resolves a registered component type by its name.
func (m *Manager) GetComponentByName(name string) (types.ComponentMetadata, error) {
	compMetadata, ok := m.nameToComponent[name]
	if !ok {
		return nil, eris.Errorf("component %q is not registered", name)
	}
	return compMetadata, nil
}

// GetComponents returns all registered component types in registration order.
func (m *Manager) GetComponents() []types.ComponentMetadata {
	return m.registeredComponents
}
