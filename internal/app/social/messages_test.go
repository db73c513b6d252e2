package social

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skillswap/internal/app/hub"
	"skillswap/internal/app/store"
	"skillswap/internal/pkg/errs"
)

// fakeMessageStore is an in-memory MessageStore for service tests.
type fakeMessageStore struct {
	mu          sync.Mutex
	messages    []store.Message
	nextID      int
	markReadErr error
}

func (f *fakeMessageStore) CreateMessage(_ context.Context, senderID, receiverID, text string) (*store.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	msg := store.Message{
		ID:         fmt.Sprintf("msg-%d", f.nextID),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Text:       text,
		Status:     store.MessageUnread,
		CreatedAt:  time.Now(),
	}
	f.messages = append(f.messages, msg)
	return &msg, nil
}

func (f *fakeMessageStore) ListConversation(_ context.Context, a, b string) ([]store.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []store.Message
	for _, m := range f.messages {
		if (m.SenderID == a && m.ReceiverID == b) || (m.SenderID == b && m.ReceiverID == a) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMessageStore) MarkConversationRead(_ context.Context, readerID, peerID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.markReadErr != nil {
		return f.markReadErr
	}
	for i := range f.messages {
		if f.messages[i].ReceiverID == readerID && f.messages[i].SenderID == peerID {
			f.messages[i].Status = store.MessageRead
		}
	}
	return nil
}

// fakeBroadcaster records chat broadcasts.
type fakeBroadcaster struct {
	mu   sync.Mutex
	sent []hub.ChatMessage
}

func (f *fakeBroadcaster) BroadcastChat(msg hub.ChatMessage) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.sent = append(f.sent, msg)
}

func (f *fakeBroadcaster) all() []hub.ChatMessage {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]hub.ChatMessage, len(f.sent))
	copy(out, f.sent)
	return out
}

func TestSendPersistsThenBroadcasts(t *testing.T) {
	msgs := &fakeMessageStore{}
	chats := &fakeBroadcaster{}
	svc := NewMessageService(msgs, newFakeUsers("alice", "bob"), chats)

	msg, customErr := svc.Send(context.Background(), "alice", "bob", "  hello there  ")
	require.Nil(t, customErr)

	assert.Equal(t, "hello there", msg.Text)
	assert.Equal(t, store.MessageUnread, msg.Status)

	sent := chats.all()
	require.Len(t, sent, 1)
	assert.Equal(t, "hello there", sent[0].Text)
	assert.Equal(t, "alice", sent[0].Sender)
	assert.Equal(t, "bob", sent[0].Receiver)
	assert.Equal(t, hub.PairRoomID("alice", "bob"), sent[0].Room)
}

func TestSendEmptyContentRejected(t *testing.T) {
	chats := &fakeBroadcaster{}
	svc := NewMessageService(&fakeMessageStore{}, newFakeUsers("alice", "bob"), chats)

	_, customErr := svc.Send(context.Background(), "alice", "bob", "   ")
	require.NotNil(t, customErr)
	assert.Equal(t, errs.ErrMessageContentEmpty, customErr.Code)
	assert.Empty(t, chats.all())
}

func TestSendOversizedContentRejected(t *testing.T) {
	svc := NewMessageService(&fakeMessageStore{}, newFakeUsers("alice", "bob"), &fakeBroadcaster{})

	_, customErr := svc.Send(context.Background(), "alice", "bob", strings.Repeat("x", hub.MaxContentBytes+1))
	require.NotNil(t, customErr)
	assert.Equal(t, errs.ErrMessageContentTooLong, customErr.Code)
}

func TestSendUnknownReceiverRejected(t *testing.T) {
	msgs := &fakeMessageStore{}
	svc := NewMessageService(msgs, newFakeUsers("alice"), &fakeBroadcaster{})

	_, customErr := svc.Send(context.Background(), "alice", "ghost", "hi")
	require.NotNil(t, customErr)
	assert.Equal(t, errs.ErrUserNotFound, customErr.Code)
	assert.Empty(t, msgs.messages)
}

func TestHistoryMarksConversationRead(t *testing.T) {
	msgs := &fakeMessageStore{}
	svc := NewMessageService(msgs, newFakeUsers("alice", "bob"), &fakeBroadcaster{})

	_, customErr := svc.Send(context.Background(), "bob", "alice", "one")
	require.Nil(t, customErr)
	_, customErr = svc.Send(context.Background(), "bob", "alice", "two")
	require.Nil(t, customErr)

	history, customErr := svc.History(context.Background(), "alice", "bob")
	require.Nil(t, customErr)
	require.Len(t, history, 2)

	for _, m := range msgs.messages {
		assert.Equal(t, store.MessageRead, m.Status)
	}
}

func TestHistorySurvivesReadReceiptFailure(t *testing.T) {
	msgs := &fakeMessageStore{markReadErr: errors.New("deadlock detected")}
	svc := NewMessageService(msgs, newFakeUsers("alice", "bob"), &fakeBroadcaster{})

	_, customErr := svc.Send(context.Background(), "bob", "alice", "one")
	require.Nil(t, customErr)

	history, customErr := svc.History(context.Background(), "alice", "bob")
	require.Nil(t, customErr)
	assert.Len(t, history, 1)
}
