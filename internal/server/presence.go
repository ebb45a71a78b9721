package server

import (
	"sync"
)

// PresenceRegistry maps a user id to the set of live connections currently
// attributed to that identity. A user with multiple tabs or devices has one
// entry per connection. An absent entry and an empty set are equivalent:
// both mean offline.
type PresenceRegistry struct {
	mu    sync.RWMutex
	conns map[int]map[*Client]struct{}
}

func NewPresenceRegistry() *PresenceRegistry {
	return &PresenceRegistry{
		conns: make(map[int]map[*Client]struct{}),
	}
}

// Register adds the connection to the user's set. Registering the same
// handle twice is a no-op. It reports whether this was the user's first
// live connection.
func (p *PresenceRegistry) Register(userId int, c *Client) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	clients, ok := p.conns[userId]
	if !ok {
		clients = make(map[*Client]struct{})
		p.conns[userId] = clients
	}
	clients[c] = struct{}{}

	return !ok
}

// Unregister removes the connection from the user's set and reports whether
// the user went offline as a result. Unregistering an unknown handle is a
// no-op.
func (p *PresenceRegistry) Unregister(userId int, c *Client) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	clients, ok := p.conns[userId]
	if !ok {
		return false
	}

	if _, ok := clients[c]; !ok {
		return false
	}

	delete(clients, c)
	if len(clients) == 0 {
		delete(p.conns, userId)
		return true
	}

	return false
}

// ConnectionsFor returns a snapshot of the user's live connections, safe to
// iterate while registrations continue on other goroutines. Offline users
// yield an empty slice.
func (p *PresenceRegistry) ConnectionsFor(userId int) []*Client {
	p.mu.RLock()
	defer p.mu.RUnlock()

	clients := make([]*Client, 0, len(p.conns[userId]))
	for c := range p.conns[userId] {
		clients = append(clients, c)
	}

	return clients
}

func (p *PresenceRegistry) IsOnline(userId int) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return len(p.conns[userId]) > 0
}

func (p *PresenceRegistry) OnlineUsers() int {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return len(p.conns)
}
