/*
Package hub contains the realtime presence and notification core.

This file defines the Client struct, representing an active WebSocket connection.
It manages the connection lifecycle, the message communication loops (ReadPump
and WritePump), and implements the Session interface consumed by the Hub.
*/
package hub

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"skillswap/internal/pkg/logx"
)

const (
	// timeout duration for writing to the WebSocket connection.
	writeWait = 10 * time.Second

	// maximum time allowed for the server to wait for a Pong message from the client.
	pongWait = 60 * time.Second

	// frequency at which the server sends a Ping message.
	pingPeriod = (pongWait * 9) / 10

	// maximum allowed size (in bytes) of a message sent by the client.
	maxMessageSize = 8192

	// MaxContentBytes is the maximum allowed size (in bytes) for chat message text.
	MaxContentBytes = 5000

	// WsCloseCodeSessionReplaced is a custom WebSocket Close Code (4000-4999 range)
	// used to signal the client that the session was replaced by a new connection.
	WsCloseCodeSessionReplaced = 4001
)

// Client is an active WebSocket connection for one user. It implements Session.
type Client struct {
	hub *Hub

	// underlying WebSocket connection object.
	conn *websocket.Conn

	userID string
	name   string

	// a buffered channel used to queue messages waiting to be sent to the client.
	send chan []byte

	// done is closed exactly once when the session terminates; WritePump exits on it
	// and Deliver refuses new events after it.
	done     chan struct{}
	doneOnce sync.Once

	// structured logger with client context.
	logger zerolog.Logger
}

// NewClient constructs a Client for an upgraded connection.
func NewClient(h *Hub, conn *websocket.Conn, userID, name string) *Client {
	clientLogger := logx.Logger().With().
		Str("client_id", userID).
		Logger()

	return &Client{
		hub:    h,
		conn:   conn,
		userID: userID,
		name:   name,
		send:   make(chan []byte, 256),
		done:   make(chan struct{}),
		logger: clientLogger,
	}
}

// UserID implements Session.
func (c *Client) UserID() string {
	return c.userID
}

// Deliver implements Session. It marshals the event envelope and queues it
// without blocking; a full queue or a closed session drops the event.
func (c *Client) Deliver(event string, payload any) error {
	select {
	case <-c.done:
		return fmt.Errorf("session closed")
	default:
	}

	frame := struct {
		Event   string `json:"event"`
		Payload any    `json:"payload,omitempty"`
	}{Event: event, Payload: payload}

	messageBytes, err := json.Marshal(frame)
	if err != nil {
		c.logger.Error().Err(err).Str("event", event).Msg("Error marshaling event for client")
		return err
	}

	select {
	case c.send <- messageBytes:
		return nil
	default:
		c.logger.Warn().Int("queue_len", len(c.send)).Msg("Client send channel full, dropping event")
		return fmt.Errorf("client send queue full")
	}
}

// Kick implements Session. It sends a custom WebSocket Close Frame (Code 4001)
// indicating the session was replaced, then terminates the session.
func (c *Client) Kick(reason string) {
	c.logger.Warn().
		Int("close_code", WsCloseCodeSessionReplaced).
		Str("reason", reason).
		Msg("Sending WS Kick message and closing connection.")

	closeMessage := websocket.FormatCloseMessage(WsCloseCodeSessionReplaced, reason)

	// Kick runs on the replacing connection's goroutine while WritePump may be
	// mid-write; WriteControl is the only write method safe to call concurrently.
	if err := c.conn.WriteControl(websocket.CloseMessage, closeMessage, time.Now().Add(writeWait)); err != nil {
		c.logger.Warn().Err(err).Msg("Failed to send WS 4001 Close Message.")
	}

	c.terminate()
}

// terminate marks the session closed. Safe to call multiple times.
func (c *Client) terminate() {
	c.doneOnce.Do(func() {
		close(c.done)
	})
}

// ReadPump handles reading messages from the WebSocket connection.
// It handles heartbeats (Pong), event parsing, and performs cleanup upon connection closure.
func (c *Client) ReadPump() {
	defer c.cleanupOnDisconnect()

	c.conn.SetReadLimit(maxMessageSize)

	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set read deadline")
		return
	}

	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, messageBytes, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Info().Err(err).Msg("Error reading message (Client close/going away)")
			}
			break
		}

		c.processInboundEvent(messageBytes)
	}
}

// cleanupOnDisconnect handles the necessary cleanup steps when the client's ReadPump terminates.
func (c *Client) cleanupOnDisconnect() {
	c.logger.Info().Msg("Client connection cleanup starting.")

	c.terminate()
	c.hub.Disconnect(c)

	if err := c.conn.Close(); err != nil {
		c.logger.Debug().Err(err).Msg("Client connection close error")
	}
}

// processInboundEvent handles raw byte frames received from the client.
func (c *Client) processInboundEvent(messageBytes []byte) {
	var frame Envelope

	if err := json.Unmarshal(messageBytes, &frame); err != nil {
		c.logger.Warn().Err(err).
			Bytes("message_bytes", messageBytes).
			Msg("Client sent invalid JSON")
		return
	}

	switch frame.Event {
	case EventJoinRoom:
		c.handleJoinRoom(frame.Payload)

	case EventSendMessage:
		c.handleSendMessage(frame.Payload)

	default:
		c.logger.Warn().Str("event", frame.Event).Msg("Client sent unsupported event type")
	}
}

// handleJoinRoom subscribes the client to a conversation room.
func (c *Client) handleJoinRoom(payloadBytes json.RawMessage) {
	var roomID string
	if err := json.Unmarshal(payloadBytes, &roomID); err != nil || roomID == "" {
		c.logger.Warn().Err(err).Msg("Client sent invalid join_room payload")
		return
	}

	c.hub.JoinRoom(roomID, c)
}

// handleSendMessage rebroadcasts a chat message to the room. The sender field
// is server-authoritative; whatever the client put there is overwritten.
func (c *Client) handleSendMessage(payloadBytes json.RawMessage) {
	var msg ChatMessage
	if err := json.Unmarshal(payloadBytes, &msg); err != nil {
		c.logger.Warn().Err(err).Msg("Client sent invalid send_message payload")
		return
	}

	if msg.Room == "" || msg.Text == "" {
		c.logger.Warn().Msg("Client sent send_message with missing room or text")
		return
	}

	if len(msg.Text) > MaxContentBytes {
		c.logger.Warn().Int("text_bytes", len(msg.Text)).Msg("Client sent oversized chat message")
		return
	}

	msg.Sender = c.userID

	c.hub.BroadcastChat(msg)
}

// WritePump handles writing messages from the Client.send channel to the WebSocket connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()

		// ensure the connection is closed on exit
		if err := c.conn.Close(); err != nil {
			c.logger.Debug().Err(err).Msg("Client connection close error in WritePump")
		}
	}()

	for {
		select {
		case message := <-c.send:
			if !c.writeQueuedMessage(message) {
				return
			}

		case <-ticker.C:
			if !c.writePingMessage() {
				return
			}

		case <-c.done:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err == nil {
				if err := c.conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
					c.logger.Debug().Err(err).Msg("Error writing close message")
				}
			}
			return
		}
	}
}

// writeQueuedMessage handles messages pulled from the send channel, writing them to the WebSocket.
// Returns true if the WritePump loop should continue, false if it should terminate.
func (c *Client) writeQueuedMessage(message []byte) bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline")
		return false
	}

	if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
		c.logger.Error().Err(err).Msg("Error writing message")
		return false
	}

	return true
}

// writePingMessage sends a periodic WebSocket Ping message to maintain the connection heartbeat.
// Returns false if the WritePump loop should terminate due to write failure.
func (c *Client) writePingMessage() bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline on ping")
		return false
	}

	if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
		c.logger.Error().Err(err).Msg("Error writing ping")
		return false
	}

	return true
}
