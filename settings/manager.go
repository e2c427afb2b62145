package settings

import (
	"slices"
	"sync"

	"github.com/max42watt/pv-calculator/econ"
)

// Manager guards the office-wide default settings. The watcher replaces
// them on file change while request handlers read snapshots concurrently.
type Manager struct {
	mu      sync.RWMutex
	current econ.ExpertSettings
}

func NewManager(initial econ.ExpertSettings) *Manager {
	m := &Manager{}
	m.Set(initial)
	return m
}

// Current returns a snapshot that stays stable even if the defaults are
// swapped mid-request. The schedule slice is cloned for that reason.
func (m *Manager) Current() econ.ExpertSettings {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s := m.current
	s.Co2Tax = slices.Clone(s.Co2Tax)
	return s
}

func (m *Manager) Set(s econ.ExpertSettings) {
	s.Co2Tax = slices.Clone(s.Co2Tax)
	m.mu.Lock()
	m.current = s
	m.mu.Unlock()
}
