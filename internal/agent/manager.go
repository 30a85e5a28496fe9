package agent

import "sync"

// Manager hands out one Processor per session and keeps them alive for the
// lifetime of the process. Sessions are created lazily on first use.
type Manager struct {
	mu       sync.Mutex
	opts     Options
	sessions map[string]*Processor
}

func NewManager(opts Options) *Manager {
	return &Manager{
		opts:     opts,
		sessions: make(map[string]*Processor),
	}
}

// Session returns the processor for the given session ID, creating it if
// this is the first time the session is seen.
func (m *Manager) Session(id string) *Processor {
	m.mu.Lock()
	defer m.mu.Unlock()

	if p, ok := m.sessions[id]; ok {
		return p
	}
	p := NewProcessor(id, m.opts)
	m.sessions[id] = p
	return p
}
