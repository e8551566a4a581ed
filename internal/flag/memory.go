package flag

import (
	"context"
	"sync"
)

// Memory keeps flags in process. Used in tests and when no backend is configured.
type Memory struct {
	mu    sync.RWMutex
	flags map[string]map[string]string
}

func NewMemory() *Memory {
	return &Memory{flags: make(map[string]map[string]string)}
}

func (m *Memory) Get(_ context.Context, learnerID, key string) (string, bool, error) {
	if err := CheckKey(learnerID, key); err != nil {
		return "", false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.flags[learnerID][key]
	return v, ok, nil
}

func (m *Memory) Set(_ context.Context, learnerID, key, value string) error {
	if err := CheckKey(learnerID, key); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.flags[learnerID] == nil {
		m.flags[learnerID] = make(map[string]string)
	}
	m.flags[learnerID][key] = value
	return nil
}

func (m *Memory) Delete(_ context.Context, learnerID, key string) error {
	if err := CheckKey(learnerID, key); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.flags[learnerID], key)
	return nil
}
