/*
Package hub contains the realtime presence and notification core.

This file defines the Hub struct, which owns the online-user registry and room
membership, serializes chat dispatch through a single run loop (preserving
per-room delivery order), and exposes the best-effort notification entry point
used by the REST handlers.
*/
package hub

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"skillswap/internal/pkg/logx"
)

const eventChannelBuffer = 1024

type joinRequest struct {
	roomID  string
	session Session
}

type roomEvent struct {
	roomID  string
	event   string
	payload any
}

// Hub brokers realtime events between connected sessions.
//
// Room membership is touched only by the run goroutine, so chat messages for a
// given room are delivered in the order the hub received them. The registry is
// read directly by Notify call sites; each access is a single atomic map
// operation behind its own lock.
type Hub struct {
	registry Registry

	// rooms maps a room id to its current member sessions. Owned exclusively
	// by the run loop.
	rooms map[string]map[Session]struct{}

	joins  chan joinRequest
	detach chan Session
	events chan roomEvent
	stop   chan struct{}

	wg     sync.WaitGroup
	logger zerolog.Logger
}

// NewHub constructs a Hub around the given registry and starts its run loop.
func NewHub(registry Registry) *Hub {
	h := &Hub{
		registry: registry,
		rooms:    make(map[string]map[Session]struct{}),
		joins:    make(chan joinRequest),
		detach:   make(chan Session),
		events:   make(chan roomEvent, eventChannelBuffer),
		stop:     make(chan struct{}),
		logger:   logx.Logger().With().Str("component", "Hub").Logger(),
	}

	h.wg.Add(1)
	go h.run()

	return h
}

// run is the single dispatch loop. It owns the rooms map and serializes all
// membership changes and chat deliveries.
func (h *Hub) run() {
	defer h.wg.Done()

	h.logger.Info().Msg("Hub dispatch loop started.")

	for {
		select {
		case j := <-h.joins:
			members, ok := h.rooms[j.roomID]
			if !ok {
				members = make(map[Session]struct{})
				h.rooms[j.roomID] = members
			}
			members[j.session] = struct{}{}

			h.logger.Debug().
				Str("room_id", j.roomID).
				Str("user_id", j.session.UserID()).
				Int("members", len(members)).
				Msg("Session joined room.")

		case s := <-h.detach:
			for roomID, members := range h.rooms {
				if _, ok := members[s]; !ok {
					continue
				}
				delete(members, s)
				if len(members) == 0 {
					delete(h.rooms, roomID)
				}
			}

		case ev := <-h.events:
			for member := range h.rooms[ev.roomID] {
				if err := member.Deliver(ev.event, ev.payload); err != nil {
					h.logger.Warn().
						Err(err).
						Str("room_id", ev.roomID).
						Str("user_id", member.UserID()).
						Msg("Dropped room event for slow or closed session.")
				}
			}

		case <-h.stop:
			h.logger.Info().Msg("Hub dispatch loop stopped.")
			return
		}
	}
}

// Connect registers the session as the user's active handle.
func (h *Hub) Connect(s Session) {
	h.registry.Register(s)
}

// Disconnect removes the session from the registry and from every room it joined.
func (h *Hub) Disconnect(s Session) {
	h.registry.Unregister(s)

	select {
	case h.detach <- s:
	case <-h.stop:
	}
}

// JoinRoom subscribes the session to a room. Membership is additive; it is
// implicitly re-established on reconnect, so no explicit leave event exists.
func (h *Hub) JoinRoom(roomID string, s Session) {
	select {
	case h.joins <- joinRequest{roomID: roomID, session: s}:
	case <-h.stop:
	}
}

// BroadcastChat stamps the message with a server-side receive timestamp and
// queues it for delivery to every current member of its room. At-most-once:
// members that cannot keep up are dropped, never retried.
func (h *Hub) BroadcastChat(msg ChatMessage) {
	msg.Timestamp = time.Now().UnixMilli()

	select {
	case h.events <- roomEvent{roomID: msg.Room, event: EventReceiveMessage, payload: msg}:
	default:
		h.logger.Warn().Str("room_id", msg.Room).Msg("Event channel full, dropping chat broadcast.")
	}
}

// Notify pushes a single event to one user's active session, if any.
//
// This is strictly best-effort: an offline recipient and a failed delivery are
// treated identically (log and continue), and neither outcome reaches the
// caller. Durability lives in the Connection/Message records, not here.
func (h *Hub) Notify(userID string, event string, payload any) {
	s, ok := h.registry.Lookup(userID)
	if !ok {
		h.logger.Debug().
			Str("user_id", userID).
			Str("event", event).
			Msg("Recipient offline, notification dropped.")
		return
	}

	if err := s.Deliver(event, payload); err != nil {
		h.logger.Warn().
			Err(err).
			Str("user_id", userID).
			Str("event", event).
			Msg("Failed to deliver notification.")
	}
}

// Shutdown stops the dispatch loop and waits for it to exit.
func (h *Hub) Shutdown() {
	h.logger.Info().Msg("Shutting down Hub dispatch loop...")

	close(h.stop)
	h.wg.Wait()

	h.logger.Info().Msg("Hub shutdown complete.")
}
