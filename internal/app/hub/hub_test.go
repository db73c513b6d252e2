package hub

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHub(t *testing.T) *Hub {
	t.Helper()

	h := NewHub(NewMemoryRegistry())
	t.Cleanup(h.Shutdown)
	return h
}

func TestHubBroadcastReachesRoomMembers(t *testing.T) {
	h := newTestHub(t)
	a := newFakeSession("user-a")
	b := newFakeSession("user-b")
	outsider := newFakeSession("user-c")

	room := PairRoomID("user-a", "user-b")
	h.JoinRoom(room, a)
	h.JoinRoom(room, b)
	h.JoinRoom(PairRoomID("user-c", "user-d"), outsider)

	h.BroadcastChat(ChatMessage{Text: "hello", Sender: "user-a", Receiver: "user-b", Room: room})

	require.Eventually(t, func() bool {
		return len(a.events()) == 1 && len(b.events()) == 1
	}, time.Second, 5*time.Millisecond)

	got := b.events()[0]
	assert.Equal(t, EventReceiveMessage, got.event)

	msg, ok := got.payload.(ChatMessage)
	require.True(t, ok)
	assert.Equal(t, "hello", msg.Text)
	assert.NotZero(t, msg.Timestamp, "broadcast must stamp a server-side timestamp")

	assert.Empty(t, outsider.events())
}

func TestHubBroadcastPreservesPerRoomOrder(t *testing.T) {
	h := newTestHub(t)
	s := newFakeSession("user-a")

	room := PairRoomID("user-a", "user-b")
	h.JoinRoom(room, s)

	const n = 50
	for i := 0; i < n; i++ {
		h.BroadcastChat(ChatMessage{Text: fmt.Sprintf("msg-%d", i), Sender: "user-b", Room: room})
	}

	require.Eventually(t, func() bool {
		return len(s.events()) == n
	}, time.Second, 5*time.Millisecond)

	for i, ev := range s.events() {
		msg := ev.payload.(ChatMessage)
		assert.Equal(t, fmt.Sprintf("msg-%d", i), msg.Text)
	}
}

func TestHubNotifyDeliversToOnlineUser(t *testing.T) {
	h := newTestHub(t)
	s := newFakeSession("user-a")

	h.Connect(s)
	h.Notify("user-a", EventConnectionRequest, ConnectionRequestEvent{ID: "conn-1"})

	events := s.events()
	require.Len(t, events, 1)
	assert.Equal(t, EventConnectionRequest, events[0].event)
}

func TestHubNotifyOfflineUserIsSilentlyDropped(t *testing.T) {
	h := newTestHub(t)
	online := newFakeSession("user-a")
	h.Connect(online)

	// Must not panic, error, or leak anything to other sessions.
	h.Notify("user-offline", EventConnectionAccepted, ConnectionAcceptedEvent{ID: "conn-1"})

	assert.Empty(t, online.events())
}

func TestHubNotifyToleratesDeliveryFailure(t *testing.T) {
	h := newTestHub(t)
	s := newFakeSession("user-a")
	s.failDeliver = true

	h.Connect(s)
	h.Notify("user-a", EventConnectionRequest, ConnectionRequestEvent{ID: "conn-1"})

	// Failure is absorbed; the session stays registered for future attempts.
	_, ok := h.registry.Lookup("user-a")
	assert.True(t, ok)
}

func TestHubDisconnectRemovesFromRoomsAndRegistry(t *testing.T) {
	h := newTestHub(t)
	a := newFakeSession("user-a")
	b := newFakeSession("user-b")

	room := PairRoomID("user-a", "user-b")
	h.Connect(a)
	h.Connect(b)
	h.JoinRoom(room, a)
	h.JoinRoom(room, b)

	h.Disconnect(a)

	_, ok := h.registry.Lookup("user-a")
	assert.False(t, ok)

	h.BroadcastChat(ChatMessage{Text: "after", Sender: "user-b", Room: room})

	require.Eventually(t, func() bool {
		return len(b.events()) == 1
	}, time.Second, 5*time.Millisecond)
	assert.Empty(t, a.events())
}

func TestPairRoomIDIsOrderIndependent(t *testing.T) {
	assert.Equal(t, PairRoomID("alice", "bob"), PairRoomID("bob", "alice"))
	assert.Equal(t, "alice:bob", PairRoomID("bob", "alice"))
}
