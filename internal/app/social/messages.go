package social

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"skillswap/internal/app/hub"
	"skillswap/internal/app/store"
	"skillswap/internal/pkg/errs"
	"skillswap/internal/pkg/logx"
)

// ChatBroadcaster pushes a chat message into its conversation room.
// The hub implements it; delivery is best-effort and the broadcaster stamps
// the server-side timestamp itself.
type ChatBroadcaster interface {
	BroadcastChat(msg hub.ChatMessage)
}

// MessageStore is the persistence surface the message service needs.
type MessageStore interface {
	CreateMessage(ctx context.Context, senderID, receiverID, text string) (*store.Message, error)
	ListConversation(ctx context.Context, a, b string) ([]store.Message, error)
	MarkConversationRead(ctx context.Context, readerID, peerID string) error
}

// MessageService owns durable chat messages. The REST write is the source of
// truth; the realtime rebroadcast merely complements it.
type MessageService struct {
	msgs   MessageStore
	users  UserReader
	chats  ChatBroadcaster
	logger zerolog.Logger
}

// NewMessageService constructs a MessageService.
func NewMessageService(msgs MessageStore, users UserReader, chats ChatBroadcaster) *MessageService {
	return &MessageService{
		msgs:   msgs,
		users:  users,
		chats:  chats,
		logger: logx.Logger().With().Str("component", "MessageService").Logger(),
	}
}

// Send persists a new unread message and then pushes it into the pair's room.
func (s *MessageService) Send(ctx context.Context, senderID, receiverID, text string) (*store.Message, *errs.CustomError) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errs.NewError(errs.ErrMessageContentEmpty)
	}
	if len(text) > hub.MaxContentBytes {
		return nil, errs.NewError(errs.ErrMessageContentTooLong)
	}

	if _, err := s.users.GetUser(ctx, receiverID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errs.NewError(errs.ErrUserNotFound)
		}
		s.logger.Error().Err(err).Str("receiver_id", receiverID).Msg("Failed to look up receiver.")
		return nil, errs.NewError(errs.ErrUnknown)
	}

	msg, err := s.msgs.CreateMessage(ctx, senderID, receiverID, text)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to persist message.")
		return nil, errs.NewError(errs.ErrUnknown)
	}

	// Durable write done; the room push is best-effort on top of it.
	s.chats.BroadcastChat(hub.ChatMessage{
		Text:     msg.Text,
		Sender:   msg.SenderID,
		Receiver: msg.ReceiverID,
		Room:     hub.PairRoomID(msg.SenderID, msg.ReceiverID),
	})

	return msg, nil
}

// History returns the conversation between the caller and peer in
// chronological order, marking messages addressed to the caller as read.
func (s *MessageService) History(ctx context.Context, callerID, peerID string) ([]store.Message, *errs.CustomError) {
	messages, err := s.msgs.ListConversation(ctx, callerID, peerID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", callerID).Str("peer_id", peerID).Msg("Failed to list conversation.")
		return nil, errs.NewError(errs.ErrUnknown)
	}

	// Read receipts are nice-to-have; a failure must not hide the history.
	if err := s.msgs.MarkConversationRead(ctx, callerID, peerID); err != nil {
		s.logger.Warn().Err(err).Str("user_id", callerID).Msg("Failed to mark conversation read.")
	}

	return messages, nil
}
