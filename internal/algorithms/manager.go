package algorithms

import (
	"fmt"
	"slices"
	"sync"

	"filterlab/internal/filters"
	"filterlab/internal/kernel"
	"filterlab/internal/models"
)

type Manager struct {
	descriptors map[string]Descriptor
	parameters  map[string]Parameters
	se          *kernel.StructuringElement
	mu          sync.RWMutex
}

// NewManager registers every operator. A nil structuring element selects kernel.Cross.
func NewManager(se *kernel.StructuringElement) *Manager {
	if se == nil {
		se = kernel.Cross()
	}
	manager := &Manager{
		descriptors: make(map[string]Descriptor),
		parameters:  make(map[string]Parameters),
		se:          se,
	}

	for _, d := range builtins() {
		manager.register(d)
	}

	return manager
}

func (m *Manager) register(d Descriptor) {
	m.descriptors[d.Name] = d
	m.parameters[d.Name] = Parameters{}.Merge(d.Defaults)
}

// Names returns the registered operator names in sorted order.
func (m *Manager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.descriptors))
	for name := range m.descriptors {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (m *Manager) Describe(name string) (Descriptor, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	d, exists := m.descriptors[name]
	if !exists {
		return Descriptor{}, fmt.Errorf("unknown operator: %s", name)
	}
	return d, nil
}

// GetParameters returns a copy of the operator's current parameters.
func (m *Manager) GetParameters(name string) Parameters {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if params, exists := m.parameters[name]; exists {
		return Parameters{}.Merge(params)
	}
	return Parameters{}
}

// SetParameter replaces one stored parameter. It is validated on the next Build.
func (m *Manager) SetParameter(name, key string, value interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if params, exists := m.parameters[name]; exists {
		params[key] = value
		return nil
	}
	return fmt.Errorf("unknown operator: %s", name)
}

// ApplyOverrides merges a block of per-operator parameters, typically from the config file.
func (m *Manager) ApplyOverrides(overrides map[string]Parameters) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for name, params := range overrides {
		current, exists := m.parameters[name]
		if !exists {
			return fmt.Errorf("unknown operator: %s", name)
		}
		m.parameters[name] = current.Merge(params)
	}
	return nil
}

func (m *Manager) StructuringElement() *kernel.StructuringElement {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.se
}

func (m *Manager) SetStructuringElement(se *kernel.StructuringElement) error {
	if se == nil {
		return models.NewValidationError("structuring_element", nil, "structuring element is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.se = se
	return nil
}

// Build constructs the named operator from its stored parameters with overrides on top.
func (m *Manager) Build(name string, overrides Parameters) (filters.Operator, error) {
	m.mu.RLock()
	d, exists := m.descriptors[name]
	params := m.parameters[name].Merge(overrides)
	se := m.se
	m.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("unknown operator: %s", name)
	}

	op, err := d.Build(params, se)
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", name, err)
	}
	return op, nil
}
