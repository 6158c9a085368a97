// Package system schedules per-tick logic. Systems run serially within one
// tick in ascending (priority, registration order); there is no implicit
// parallelism over shared world state.
package system

import (
	"path/filepath"
	"reflect"
	"runtime"
	"sort"
	"time"

	"github.com/rotisserie/eris"

	"github.com/tesseraworks/tessera/statsd"
	"github.com/tesseraworks/tessera/types/engine"
)

// System is a unit of per-tick logic. A returned error aborts the tick.
type System func(ctx engine.Context) error

const defaultPriority = 0

type entry struct {
	name     string
	fn       System
	priority int
	enabled  bool
	seq      int
}

// Option configures a system at registration time.
type Option func(*entry)

// WithPriority sets the system's priority. Lower priorities run first; ties
// run in registration order.
func WithPriority(priority int) Option {
	return func(e *entry) {
		e.priority = priority
	}
}

// Manager owns system registration and the per-tick run order.
type Manager struct {
	// entries is kept in registration order; maps in Go are unordered and
	// registration order breaks priority ties.
	entries []*entry
	byName  map[string]*entry

	initSystems   []*entry
	isInitSysRun  bool
	currentSystem string
}

func NewManager() *Manager {
	return &Manager{
		entries: make([]*entry, 0),
		byName:  make(map[string]*entry),
	}
}

// Register adds a single system. The system's name is derived from its
// function name; registering two systems with the same name is an error.
func (m *Manager) Register(sys System, opts ...Option) error {
	name := systemName(sys)
	if _, ok := m.byName[name]; ok {
		return eris.Errorf("system %q is already registered", name)
	}
	e := &entry{
		name:     name,
		fn:       sys,
		priority: defaultPriority,
		enabled:  true,
		seq:      len(m.entries),
	}
	for _, opt := range opts {
		opt(e)
	}
	m.entries = append(m.entries, e)
	m.byName[name] = e
	return nil
}

// RegisterSystems registers multiple systems at default priority. Either all
// of them are registered or none of them are.
func (m *Manager) RegisterSystems(systems ...System) error {
	names := make([]string, 0, len(systems))
	for _, sys := range systems {
		name := systemName(sys)
		if _, ok := m.byName[name]; ok {
			return eris.Errorf("system %q is already registered", name)
		}
		for _, seen := range names {
			if seen == name {
				return eris.Errorf("duplicate system %q in slice", name)
			}
		}
		names = append(names, name)
	}
	for i := range systems {
		if err := m.Register(systems[i]); err != nil {
			return err
		}
	}
	return nil
}

// RegisterInitSystems adds systems that run exactly once, before the regular
// systems of the first tick.
func (m *Manager) RegisterInitSystems(systems ...System) {
	for _, sys := range systems {
		m.initSystems = append(m.initSystems, &entry{
			name:    systemName(sys),
			fn:      sys,
			enabled: true,
		})
	}
}

// SetPriority changes a system's priority. The change takes effect on the
// next RunSystems call; an in-progress pass keeps the order it started with.
func (m *Manager) SetPriority(name string, priority int) error {
	e, ok := m.byName[name]
	if !ok {
		return eris.Errorf("system %q is not registered", name)
	}
	e.priority = priority
	return nil
}

// SetEnabled enables or disables a system. Disabled systems are skipped but
// keep their position for when they are re-enabled.
func (m *Manager) SetEnabled(name string, enabled bool) error {
	e, ok := m.byName[name]
	if !ok {
		return eris.Errorf("system %q is not registered", name)
	}
	e.enabled = enabled
	return nil
}

func (m *Manager) IsEnabled(name string) (bool, error) {
	e, ok := m.byName[name]
	if !ok {
		return false, eris.Errorf("system %q is not registered", name)
	}
	return e.enabled, nil
}

// GetSystemNames returns registered system names in registration order.
func (m *Manager) GetSystemNames() []string {
	names := make([]string, 0, len(m.entries))
	for _, e := range m.entries {
		names = append(names, e.name)
	}
	return names
}

// GetCurrentSystem returns the name of the system currently running, or ""
// between ticks.
func (m *Manager) GetCurrentSystem() string {
	return m.currentSystem
}

// RunSystems executes one pass over the registered systems. The run order is
// snapshotted before the first system executes, so priority changes made by a
// system apply starting the next pass.
func (m *Manager) RunSystems(ctx engine.Context) error {
	allSystemsStart := time.Now()

	if !m.isInitSysRun {
		m.isInitSysRun = true
		if err := m.runPass(ctx, m.initSystems); err != nil {
			return err
		}
	}

	ordered := make([]*entry, len(m.entries))
	copy(ordered, m.entries)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].priority != ordered[j].priority {
			return ordered[i].priority < ordered[j].priority
		}
		return ordered[i].seq < ordered[j].seq
	})

	if err := m.runPass(ctx, ordered); err != nil {
		return err
	}

	statsd.EmitTickStat(allSystemsStart, "all_systems")
	return nil
}

func (m *Manager) runPass(ctx engine.Context, systems []*entry) error {
	baseLogger := *ctx.Logger()
	defer func() {
		m.currentSystem = ""
		ctx.SetLogger(baseLogger)
	}()

	for _, e := range systems {
		if !e.enabled {
			continue
		}
		m.currentSystem = e.name

		// Inject the system name into the logger for everything the system
		// logs during its update.
		ctx.SetLogger(baseLogger.With().Str("system", e.name).Logger())

		systemStart := time.Now()
		if err := e.fn(ctx); err != nil {
			return eris.Wrapf(err, "system %s generated an error", e.name)
		}
		statsd.EmitTickStat(systemStart, e.name)
	}
	return nil
}

func systemName(sys System) string {
	return filepath.Base(runtime.FuncForPC(reflect.ValueOf(sys).Pointer()).Name())
}
