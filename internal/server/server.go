package server

import (
	"context"
	"log"
	"sync"

	"github.com/pnowak/go-dmchat/internal/database"
	"github.com/pnowak/go-dmchat/internal/stats"
)

// ChatServer owns the live-connection state: the client set, the presence
// registry, and the router that resolves fan-out targets through it.
type ChatServer struct {
	log         *log.Logger
	db          database.ChatRepository
	stats       stats.StatsProvider
	presence    *PresenceRegistry
	router      *MessageRouter
	clients     map[*Client]struct{}
	clientsLock sync.Mutex
	wg          sync.WaitGroup
}

func NewChatServer(logger *log.Logger, db database.ChatRepository, su stats.StatsProvider, allowSelfMessages bool) (*ChatServer, error) {
	presence := NewPresenceRegistry()

	cs := &ChatServer{
		log:      logger,
		db:       db,
		stats:    su,
		presence: presence,
		router:   NewMessageRouter(logger, db, presence, su, allowSelfMessages),
		clients:  make(map[*Client]struct{}),
	}

	for _, metric := range []string{
		"NumActiveClients",
		"NumOnlineUsers",
		"NumMessagesSent",
		"NumMessagesDelivered",
		"NumTypingEvents",
	} {
		su.RegisterMetric(metric)
	}

	return cs, nil
}

// RegisterClient adds a newly authenticated connection to the client set and
// the presence registry.
func (cs *ChatServer) RegisterClient(c *Client) {
	cs.clientsLock.Lock()
	defer cs.clientsLock.Unlock()

	if _, ok := cs.clients[c]; ok {
		return
	}

	cs.log.Printf("adding connection %q from %q", c.sessionId, c.user.Username)
	cs.clients[c] = struct{}{}
	cs.wg.Add(1)
	cs.stats.Incr("NumActiveClients")

	if cs.presence.Register(c.user.Id, c) {
		cs.stats.Incr("NumOnlineUsers")
	}
}

// DeregisterClient removes a closed connection. Safe to call more than once
// per client.
func (cs *ChatServer) DeregisterClient(c *Client) {
	cs.clientsLock.Lock()
	defer cs.clientsLock.Unlock()

	if _, ok := cs.clients[c]; !ok {
		return
	}

	cs.log.Printf("removing connection %q from %q", c.sessionId, c.user.Username)
	delete(cs.clients, c)
	cs.stats.Decr("NumActiveClients")

	if cs.presence.Unregister(c.user.Id, c) {
		cs.stats.Decr("NumOnlineUsers")
	}

	cs.wg.Done()
}

// Shutdown stops every client and waits for their connections to drain, or
// returns the context's error if they don't in time.
func (cs *ChatServer) Shutdown(ctx context.Context) error {
	cs.clientsLock.Lock()
	for c := range cs.clients {
		c.stopClient()
	}
	cs.clientsLock.Unlock()

	done := make(chan struct{})
	go func() {
		cs.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
