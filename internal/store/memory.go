package store

import "sync"

// Memory is an in-memory store for testing.
type Memory struct {
	mu    sync.RWMutex
	dumps map[string]map[string]string
	order map[string][]string
}

// NewMemory creates a new in-memory store.
func NewMemory() *Memory {
	return &Memory{
		dumps: make(map[string]map[string]string),
		order: make(map[string][]string),
	}
}

// Put stores a stage dump.
func (m *Memory) Put(doc, stage, content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.dumps[doc] == nil {
		m.dumps[doc] = make(map[string]string)
	}
	if _, ok := m.dumps[doc][stage]; !ok {
		m.order[doc] = append(m.order[doc], stage)
	}
	m.dumps[doc][stage] = content
	return nil
}

// Get retrieves a stage dump.
func (m *Memory) Get(doc, stage string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.dumps[doc][stage], nil
}

// Stages returns the stages recorded for a document.
func (m *Memory) Stages(doc string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.order[doc]...), nil
}

// Close is a no-op for the memory store.
func (m *Memory) Close() error {
	return nil
}
