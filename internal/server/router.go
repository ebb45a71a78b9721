package server

import (
	"log"
	"strings"

	"github.com/pnowak/go-dmchat/internal/database"
	"github.com/pnowak/go-dmchat/internal/stats"
	"github.com/pnowak/go-dmchat/internal/types"
)

// MessageRouter accepts send intents, persists them, and fans the resulting
// event out to every live connection of both parties. Persistence always
// completes before any delivery is attempted: a message that was not stored
// is never seen on the wire.
type MessageRouter struct {
	log       *log.Logger
	db        database.ChatRepository
	presence  *PresenceRegistry
	stats     stats.StatsProvider
	allowSelf bool
}

func NewMessageRouter(logger *log.Logger, db database.ChatRepository, presence *PresenceRegistry, su stats.StatsProvider, allowSelf bool) *MessageRouter {
	return &MessageRouter{
		log:       logger,
		db:        db,
		presence:  presence,
		stats:     su,
		allowSelf: allowSelf,
	}
}

// Send validates, persists, and delivers a direct message. Delivery is
// best-effort per connection; once the message is stored, Send succeeds
// regardless of how many connections actually received it. Offline parties
// pick the message up later via the history query.
func (r *MessageRouter) Send(senderId, receiverId int, content string) (types.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return types.Message{}, ErrEmptyContent
	}

	if senderId == receiverId && !r.allowSelf {
		return types.Message{}, ErrSelfMessage
	}

	dbMsg, err := r.db.CreateMessage(senderId, receiverId, content)
	if err != nil {
		return types.Message{}, &PersistenceError{Err: err}
	}
	r.stats.Incr("NumMessagesSent")

	msg := types.Message{
		Id:         dbMsg.Id,
		SenderId:   dbMsg.SenderId,
		ReceiverId: dbMsg.ReceiverId,
		Content:    dbMsg.Content,
		Timestamp:  dbMsg.CreatedAt,
	}

	r.deliver(&ServerMessage{
		BaseMessage: BaseMessage{
			Id:        msg.Id,
			Timestamp: msg.Timestamp,
		},
		Message: &msg,
	}, r.recipients(senderId, receiverId))

	return msg, nil
}

// recipients resolves the union of both parties' live connections. The
// sender's other open tabs receive the echo too.
func (r *MessageRouter) recipients(senderId, receiverId int) []*Client {
	clients := r.presence.ConnectionsFor(senderId)
	if receiverId != senderId {
		clients = append(clients, r.presence.ConnectionsFor(receiverId)...)
	}

	return clients
}

func (r *MessageRouter) deliver(msg *ServerMessage, clients []*Client) {
	for _, c := range clients {
		if !c.queueMessage(msg) {
			// already durable, so a dead connection is its own problem
			r.log.Printf("dropping message %d for session %q: send queue full", msg.Id, c.sessionId)
			continue
		}

		r.stats.Incr("NumMessagesDelivered")
	}
}

// NotifyTyping relays a typing signal to the target user's connections only.
// Signals are never persisted, queued, or retried; an offline target simply
// hears nothing. Stale or out-of-order signals are tolerated, clients
// debounce with their own timer.
func (r *MessageRouter) NotifyTyping(fromId, toId int, typing bool) {
	r.stats.Incr("NumTypingEvents")

	note := &ServerMessage{
		BaseMessage: BaseMessage{
			Timestamp: Now(),
		},
		Notification: &Notification{
			Typing: &TypingNotification{
				UserId: fromId,
				Typing: typing,
			},
		},
	}

	for _, c := range r.presence.ConnectionsFor(toId) {
		c.queueMessage(note)
	}
}
