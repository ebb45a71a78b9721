package server

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPresenceRegistry_RegisterUnregister(t *testing.T) {
	p := NewPresenceRegistry()
	c1 := &Client{sessionId: "c1"}
	c2 := &Client{sessionId: "c2"}

	assert.False(t, p.IsOnline(1), "expected user to be offline before registration")
	assert.Empty(t, p.ConnectionsFor(1), "expected no connections before registration")

	first := p.Register(1, c1)
	assert.True(t, first, "expected first registration to report user coming online")
	assert.True(t, p.IsOnline(1), "expected user to be online after registration")

	second := p.Register(1, c2)
	assert.False(t, second, "expected second connection not to report user coming online")
	assert.Len(t, p.ConnectionsFor(1), 2, "expected two connections for user")

	// repeat registration of the same handle is a no-op
	assert.False(t, p.Register(1, c1), "expected repeat registration to be a no-op")
	assert.Len(t, p.ConnectionsFor(1), 2, "expected repeat registration not to add a connection")

	offline := p.Unregister(1, c1)
	assert.False(t, offline, "expected user to remain online with one connection left")
	assert.True(t, p.IsOnline(1), "expected user online with remaining connection")

	offline = p.Unregister(1, c2)
	assert.True(t, offline, "expected user to go offline after last connection removed")
	assert.False(t, p.IsOnline(1), "expected user offline after all connections removed")
	assert.Empty(t, p.ConnectionsFor(1), "expected empty connection set after unregistering")
}

func TestPresenceRegistry_UnregisterUnknownHandle(t *testing.T) {
	p := NewPresenceRegistry()
	c1 := &Client{sessionId: "c1"}
	c2 := &Client{sessionId: "c2"}

	assert.False(t, p.Unregister(1, c1), "expected unregister of unknown user to be a no-op")

	p.Register(1, c1)
	assert.False(t, p.Unregister(1, c2), "expected unregister of unknown handle to be a no-op")
	assert.True(t, p.IsOnline(1), "expected registered connection to be unaffected")
}

func TestPresenceRegistry_OnlineUsers(t *testing.T) {
	p := NewPresenceRegistry()
	c1 := &Client{sessionId: "c1"}
	c2 := &Client{sessionId: "c2"}

	assert.Equal(t, 0, p.OnlineUsers(), "expected no online users initially")

	p.Register(1, c1)
	p.Register(2, c2)
	assert.Equal(t, 2, p.OnlineUsers(), "expected two online users")

	p.Unregister(1, c1)
	assert.Equal(t, 1, p.OnlineUsers(), "expected one online user after unregister")
}

func TestPresenceRegistry_SnapshotIsolation(t *testing.T) {
	p := NewPresenceRegistry()
	c1 := &Client{sessionId: "c1"}
	c2 := &Client{sessionId: "c2"}

	p.Register(1, c1)
	snapshot := p.ConnectionsFor(1)
	p.Register(1, c2)

	assert.Len(t, snapshot, 1, "expected snapshot to be unaffected by later registration")
}

func TestPresenceRegistry_Concurrent(t *testing.T) {
	p := NewPresenceRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(userId int) {
			defer wg.Done()
			c := &Client{}
			for j := 0; j < 100; j++ {
				p.Register(userId, c)
				p.ConnectionsFor(userId)
				p.IsOnline(userId)
				p.Unregister(userId, c)
			}
		}(i % 4)
	}
	wg.Wait()

	assert.Equal(t, 0, p.OnlineUsers(), "expected all users offline after churn")
}
