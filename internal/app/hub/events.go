/*
Package hub contains the realtime presence and notification core.

This file defines the event names and payload shapes exchanged over the
WebSocket channel, plus the room-id convention for two-party conversations.
*/
package hub

import (
	"encoding/json"
	"time"
)

// Client-to-server events.
const (
	EventJoinRoom    = "join_room"
	EventSendMessage = "send_message"
)

// Server-to-client events.
const (
	EventReceiveMessage     = "receive_message"
	EventConnectionRequest  = "connectionRequest"
	EventConnectionAccepted = "connectionAccepted"
	EventConnectionDeclined = "connectionDeclined"
	EventConnectionRemoved  = "connectionRemoved"
)

// Envelope is the wire frame for every channel message, inbound and outbound.
type Envelope struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// ChatMessage is the payload of send_message / receive_message. The server
// stamps Timestamp (unix milliseconds) at dispatch; client-supplied values are
// overwritten.
type ChatMessage struct {
	Text      string `json:"text"`
	Sender    string `json:"sender"`
	Receiver  string `json:"receiver"`
	Room      string `json:"room"`
	Timestamp int64  `json:"timestamp,omitempty"`
}

// UserRef is the compact user reference embedded in connection events.
type UserRef struct {
	ID           string `json:"_id"`
	Name         string `json:"name"`
	ProfileImage string `json:"profileImage"`
}

// ConnectionRequestEvent is pushed to the recipient of a new connection request.
type ConnectionRequestEvent struct {
	ID        string    `json:"_id"`
	User      UserRef   `json:"user"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// ConnectionAcceptedEvent is pushed to the original requester on acceptance.
type ConnectionAcceptedEvent struct {
	ID   string  `json:"_id"`
	User UserRef `json:"user"`
}

// ConnectionDeclinedEvent is pushed to the original requester on decline.
type ConnectionDeclinedEvent struct {
	ID     string `json:"_id"`
	UserID string `json:"userId"`
}

// ConnectionRemovedEvent is pushed to the other party when a connection is removed.
type ConnectionRemovedEvent struct {
	ConnectionID string `json:"connectionId"`
	UserID       string `json:"userId"`
}

// PairRoomID derives the conversation room id for two users. The smaller id
// comes first so both parties compute the same room regardless of direction.
func PairRoomID(a, b string) string {
	if a < b {
		return a + ":" + b
	}
	return b + ":" + a
}
