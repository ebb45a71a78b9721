package server

import (
	"errors"
	"net/http"
	"testing"

	"github.com/pnowak/go-dmchat/internal/database"
	"github.com/pnowak/go-dmchat/internal/stats"
	"github.com/pnowak/go-dmchat/internal/testutil"
	"github.com/pnowak/go-dmchat/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_queueMessage(t *testing.T) {
	t.Run("successful queue", func(t *testing.T) {
		c := &Client{
			send: make(chan *ServerMessage, 1),
			log:  testutil.TestLogger(t),
		}

		res := c.queueMessage(&ServerMessage{})
		assert.True(t, res, "expected queueMessage to return true when channel is not full")

		select {
		case msg := <-c.send:
			assert.NotNil(t, msg, "expected a message to be sent to the client")
		default:
			t.Error("expected a message to be sent to the client, but none was sent")
		}
	})
	t.Run("channel full", func(t *testing.T) {
		c := &Client{
			send: make(chan *ServerMessage, 1),
			log:  testutil.TestLogger(t),
		}

		c.send <- &ServerMessage{} // Pre-fill the send channel to simulate a full channel
		res := c.queueMessage(&ServerMessage{})
		assert.False(t, res, "expected queueMessage to return false when channel is full")
	})
}

func Test_handleClientMessage(t *testing.T) {
	newConnectedClient := func(t *testing.T, cs *ChatServer, user types.User, sessionId string) *Client {
		c := NewClient(user, sessionId, nil, cs, cs.log)
		cs.RegisterClient(c)
		return c
	}

	t.Run("publish delivers and acks", func(t *testing.T) {
		stored := database.Message{Id: 9, SenderId: 1, ReceiverId: 2, Content: "hello", CreatedAt: Now()}

		db := &database.MockChatRepository{}
		defer db.AssertExpectations(t)
		db.On("CreateMessage", 1, 2, "hello").Return(stored, nil).Once()

		su := &stats.MockStatsUpdater{}
		su.On("Incr", "NumActiveClients").Times(2)
		su.On("Incr", "NumOnlineUsers").Times(2)
		su.On("Incr", "NumMessagesSent").Once()
		su.On("Incr", "NumMessagesDelivered").Times(2)
		defer su.AssertExpectations(t)

		cs := newTestChatServer(t, db, su)
		sender := newConnectedClient(t, cs, types.User{Id: 1, Username: "alice"}, "c1")
		receiver := newConnectedClient(t, cs, types.User{Id: 2, Username: "bob"}, "c2")

		sender.handleClientMessage(&ClientMessage{
			BaseMessage: BaseMessage{Id: 42},
			Publish:     &Publish{ReceiverId: 2, Content: "hello"},
			client:      sender,
		})

		// sender gets the echo first, then the ack
		echo := recvMessage(t, sender)
		require.NotNil(t, echo.Message, "expected the echo on the sender's own connection")
		assert.Equal(t, stored.Id, echo.Message.Id)

		ack := recvMessage(t, sender)
		require.NotNil(t, ack.Response, "expected an ack response")
		assert.Equal(t, http.StatusAccepted, ack.Response.ResponseCode, "expected accepted response code")
		assert.Equal(t, 42, ack.Id, "expected ack correlated with the client message id")

		got := recvMessage(t, receiver)
		require.NotNil(t, got.Message, "expected delivery to the receiver")
		assert.Equal(t, stored.Content, got.Message.Content)
	})

	t.Run("publish with empty content rejected", func(t *testing.T) {
		db := &database.MockChatRepository{}
		defer db.AssertExpectations(t)

		su := &stats.MockStatsUpdater{}
		su.On("Incr", "NumActiveClients").Once()
		su.On("Incr", "NumOnlineUsers").Once()
		defer su.AssertExpectations(t)

		cs := newTestChatServer(t, db, su)
		sender := newConnectedClient(t, cs, types.User{Id: 1, Username: "alice"}, "c1")

		sender.handleClientMessage(&ClientMessage{
			BaseMessage: BaseMessage{Id: 1},
			Publish:     &Publish{ReceiverId: 2, Content: "   "},
			client:      sender,
		})

		resp := recvMessage(t, sender)
		require.NotNil(t, resp.Response, "expected an error response")
		assert.Equal(t, http.StatusBadRequest, resp.Response.ResponseCode, "expected bad request response code")
		db.AssertNotCalled(t, "CreateMessage")
		assert.Len(t, sender.send, 0, "expected no further messages")
	})

	t.Run("publish with storage down reports internal error", func(t *testing.T) {
		db := &database.MockChatRepository{}
		defer db.AssertExpectations(t)
		db.On("CreateMessage", 1, 2, "hello").Return(database.Message{}, errors.New("storage down")).Once()

		su := &stats.MockStatsUpdater{}
		su.On("Incr", "NumActiveClients").Once()
		su.On("Incr", "NumOnlineUsers").Once()
		defer su.AssertExpectations(t)

		cs := newTestChatServer(t, db, su)
		sender := newConnectedClient(t, cs, types.User{Id: 1, Username: "alice"}, "c1")

		sender.handleClientMessage(&ClientMessage{
			BaseMessage: BaseMessage{Id: 1},
			Publish:     &Publish{ReceiverId: 2, Content: "hello"},
			client:      sender,
		})

		resp := recvMessage(t, sender)
		require.NotNil(t, resp.Response, "expected an error response")
		assert.Equal(t, http.StatusInternalServerError, resp.Response.ResponseCode, "expected internal server error response code")
		assert.Len(t, sender.send, 0, "expected no delivery on persistence failure")
	})

	t.Run("typing relayed without ack", func(t *testing.T) {
		db := &database.MockChatRepository{}
		defer db.AssertExpectations(t)

		su := &stats.MockStatsUpdater{}
		su.On("Incr", "NumActiveClients").Times(2)
		su.On("Incr", "NumOnlineUsers").Times(2)
		su.On("Incr", "NumTypingEvents").Once()
		defer su.AssertExpectations(t)

		cs := newTestChatServer(t, db, su)
		sender := newConnectedClient(t, cs, types.User{Id: 1, Username: "alice"}, "c1")
		target := newConnectedClient(t, cs, types.User{Id: 2, Username: "bob"}, "c2")

		sender.handleClientMessage(&ClientMessage{
			Typing: &Typing{ReceiverId: 2, Typing: true},
			client: sender,
		})

		got := recvMessage(t, target)
		require.NotNil(t, got.Notification, "expected a notification")
		require.NotNil(t, got.Notification.Typing, "expected a typing notification")
		assert.Equal(t, 1, got.Notification.Typing.UserId)
		assert.Len(t, sender.send, 0, "expected no ack for typing signals")
	})

	t.Run("unknown message kind rejected", func(t *testing.T) {
		db := &database.MockChatRepository{}
		defer db.AssertExpectations(t)

		su := &stats.MockStatsUpdater{}
		su.On("Incr", "NumActiveClients").Once()
		su.On("Incr", "NumOnlineUsers").Once()
		defer su.AssertExpectations(t)

		cs := newTestChatServer(t, db, su)
		sender := newConnectedClient(t, cs, types.User{Id: 1, Username: "alice"}, "c1")

		sender.handleClientMessage(&ClientMessage{BaseMessage: BaseMessage{Id: 3}, client: sender})

		resp := recvMessage(t, sender)
		require.NotNil(t, resp.Response, "expected an error response")
		assert.Equal(t, http.StatusBadRequest, resp.Response.ResponseCode, "expected bad request response code")
	})
}
