package algorithms

import (
	"fmt"
	"sort"
	"sync"

	"lbphist/internal/algorithms/lbphist"
	"lbphist/internal/logger"
)

type Manager struct {
	extractors       map[string]Extractor
	currentExtractor string
	parameters       map[string]map[string]interface{}
	mu               sync.RWMutex
}

func NewManager(log logger.Logger) *Manager {
	manager := &Manager{
		extractors:       make(map[string]Extractor),
		currentExtractor: lbphist.Name,
		parameters:       make(map[string]map[string]interface{}),
	}

	manager.registerExtractors(log)
	manager.initializeDefaultParameters()

	return manager
}

func (m *Manager) registerExtractors(log logger.Logger) {
	lbpExtractor := lbphist.NewProcessor(log)

	m.extractors[lbpExtractor.GetName()] = lbpExtractor
}

func (m *Manager) initializeDefaultParameters() {
	for name, extractor := range m.extractors {
		m.parameters[name] = extractor.GetDefaultParameters()
	}
}

func (m *Manager) SetCurrentExtractor(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.extractors[name]; !exists {
		return fmt.Errorf("unknown extractor: %s", name)
	}

	m.currentExtractor = name
	return nil
}

func (m *Manager) GetCurrentExtractor() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.currentExtractor
}

func (m *Manager) GetParameters(name string) map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if params, exists := m.parameters[name]; exists {
		result := make(map[string]interface{}, len(params))
		for k, v := range params {
			result[k] = v
		}
		return result
	}

	return make(map[string]interface{})
}

// SetParameter validates the updated parameter set before storing it, so a
// bad value is rejected here rather than on the next extraction.
func (m *Manager) SetParameter(name, key string, value interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	extractor, exists := m.extractors[name]
	if !exists {
		return fmt.Errorf("unknown extractor: %s", name)
	}

	updated := make(map[string]interface{}, len(m.parameters[name])+1)
	for k, v := range m.parameters[name] {
		updated[k] = v
	}
	updated[key] = value

	if err := extractor.ValidateParameters(updated); err != nil {
		return fmt.Errorf("parameter %s rejected: %w", key, err)
	}

	m.parameters[name] = updated
	return nil
}

// SetParameters replaces the whole parameter set of an extractor.
func (m *Manager) SetParameters(name string, params map[string]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	extractor, exists := m.extractors[name]
	if !exists {
		return fmt.Errorf("unknown extractor: %s", name)
	}

	if err := extractor.ValidateParameters(params); err != nil {
		return fmt.Errorf("parameters rejected: %w", err)
	}

	stored := make(map[string]interface{}, len(params))
	for k, v := range params {
		stored[k] = v
	}
	m.parameters[name] = stored
	return nil
}

func (m *Manager) GetExtractor(name string) (Extractor, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if extractor, exists := m.extractors[name]; exists {
		return extractor, nil
	}

	return nil, fmt.Errorf("unknown extractor: %s", name)
}

func (m *Manager) GetAvailableExtractors() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.extractors))
	for name := range m.extractors {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}
