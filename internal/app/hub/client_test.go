package hub

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skillswap/internal/pkg/errs"
)

// dialWsPair upgrades one WebSocket connection through a test server and
// returns the server side wrapped in a Client plus the raw peer side.
func dialWsPair(t *testing.T, h *Hub, userID string) (*Client, *websocket.Conn) {
	t.Helper()

	upgrader := websocket.Upgrader{}
	conns := make(chan *websocket.Conn, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Error(err)
			return
		}
		conns <- conn
	}))
	t.Cleanup(server.Close)

	peer, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { peer.Close() })

	return NewClient(h, <-conns, userID, "User "+userID), peer
}

// readUntilClose drains peer frames until an error and returns it.
func readUntilClose(t *testing.T, peer *websocket.Conn) error {
	t.Helper()

	require.NoError(t, peer.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		if _, _, err := peer.ReadMessage(); err != nil {
			return err
		}
	}
}

func TestKickSendsReplacedCloseCode(t *testing.T) {
	h := newTestHub(t)
	client, peer := dialWsPair(t, h, "user-1")

	go client.WritePump()

	client.Kick("replaced")

	err := readUntilClose(t, peer)
	assert.True(t, websocket.IsCloseError(err, WsCloseCodeSessionReplaced), "got %v", err)
}

func TestSessionReplacementKickWithBusyWriter(t *testing.T) {
	h := newTestHub(t)
	first, peer := dialWsPair(t, h, "user-1")

	go first.WritePump()
	h.Connect(first)

	// Keep the write pump mid-write so the kick from the replacing
	// connection's goroutine overlaps it.
	stopSpam := make(chan struct{})
	spamDone := make(chan struct{})
	go func() {
		defer close(spamDone)
		for {
			select {
			case <-stopSpam:
				return
			default:
				first.Deliver(EventReceiveMessage, ChatMessage{Text: "busy", Room: "r"})
			}
		}
	}()

	h.Connect(newFakeSession("user-1"))

	close(stopSpam)
	<-spamDone

	err := readUntilClose(t, peer)
	require.Error(t, err)

	closeErr, ok := err.(*websocket.CloseError)
	require.True(t, ok, "got %v", err)
	assert.Equal(t, WsCloseCodeSessionReplaced, closeErr.Code)
	assert.Equal(t, errs.NewError(errs.ErrSessionKicked).Message, closeErr.Text)
}

func TestDeliverAfterKickIsRejected(t *testing.T) {
	h := newTestHub(t)
	client, peer := dialWsPair(t, h, "user-1")

	go client.WritePump()
	client.Kick("replaced")
	readUntilClose(t, peer)

	assert.Error(t, client.Deliver(EventReceiveMessage, ChatMessage{Text: "late", Room: "r"}))
}
