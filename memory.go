package tabular

import (
	"sync"
)

// Releasable represents any resource backed by Arrow buffers.
//
// Tables and Series implement it. Always call Release() when done, usually
// with defer:
//
//	t, err := tabular.LoadFile(path)
//	if err != nil {
//		return err
//	}
//	defer t.Release()
type Releasable interface {
	Release()
}

// MemoryManager releases many intermediate tables at once. It is useful when
// a chain of Filter and Select calls would otherwise need a defer per step.
//
// The MemoryManager is safe for concurrent use from multiple goroutines.
//
// Example:
//
//	err := tabular.WithMemoryManager(func(m *tabular.MemoryManager) error {
//		black := m.Table(t.Filter(tabular.Eq("Primary Fur Color", "Black")))
//		fmt.Println(black.Len())
//		return nil
//	})
type MemoryManager struct {
	resources []Releasable
	mu        sync.Mutex
}

// NewMemoryManager creates an empty memory manager.
func NewMemoryManager() *MemoryManager {
	return &MemoryManager{}
}

// Track adds a resource to be released by ReleaseAll.
func (m *MemoryManager) Track(resource Releasable) {
	if resource != nil {
		m.mu.Lock()
		m.resources = append(m.resources, resource)
		m.mu.Unlock()
	}
}

// Table tracks t and returns it, so a call can be wrapped inline.
func (m *MemoryManager) Table(t *Table) *Table {
	if t != nil {
		m.Track(t)
	}
	return t
}

// Count returns the number of tracked resources.
func (m *MemoryManager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.resources)
}

// ReleaseAll releases tracked resources in reverse order of tracking and
// clears the list.
func (m *MemoryManager) ReleaseAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := len(m.resources) - 1; i >= 0; i-- {
		m.resources[i].Release()
	}
	m.resources = m.resources[:0]
}

// WithTable loads a table, runs fn with it and releases it afterwards.
func WithTable(load func() (*Table, error), fn func(*Table) error) error {
	t, err := load()
	if err != nil {
		return err
	}
	defer t.Release()
	return fn(t)
}

// WithMemoryManager runs fn with a fresh manager and releases everything it
// tracked when fn returns.
func WithMemoryManager(fn func(*MemoryManager) error) error {
	manager := NewMemoryManager()
	defer manager.ReleaseAll()
	return fn(manager)
}
