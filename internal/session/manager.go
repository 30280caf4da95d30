package session

import (
	"sync"

	"github.com/google/uuid"
)

// Manager holds the session identifier for one interaction context. The
// identifier groups turns in the store; it carries no other meaning and is
// never persisted on its own.
type Manager struct {
	mu      sync.Mutex
	current string
}

func NewManager() *Manager {
	return &Manager{}
}

// Current returns the active session id, minting one on first use.
func (m *Manager) Current() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == "" {
		m.current = uuid.NewString()
	}
	return m.current
}

// Reset discards the active session id and mints a replacement. Turns
// recorded under the old id stay in the store and remain readable by direct
// lookup.
func (m *Manager) Reset() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = uuid.NewString()
	return m.current
}
