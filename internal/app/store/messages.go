package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// CreateMessage inserts a new unread message.
func (s *Store) CreateMessage(ctx context.Context, senderID, receiverID, text string) (*Message, error) {
	var m Message
	err := s.pool.QueryRow(ctx, `
		INSERT INTO messages (id, sender_id, receiver_id, text)
		VALUES ($1, $2, $3, $4)
		RETURNING id, sender_id, receiver_id, text, status, created_at`,
		uuid.NewString(), senderID, receiverID, text).
		Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.Text, &m.Status, &m.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}

	return &m, nil
}

// ListConversation returns the full message history between two users in
// chronological order.
func (s *Store) ListConversation(ctx context.Context, a, b string) ([]Message, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, sender_id, receiver_id, text, status, created_at
		FROM messages
		WHERE (sender_id = $1 AND receiver_id = $2)
		   OR (sender_id = $2 AND receiver_id = $1)
		ORDER BY created_at`, a, b)
	if err != nil {
		return nil, fmt.Errorf("list conversation: %w", err)
	}
	defer rows.Close()

	var out []Message
	for rows.Next() {
		var m Message
		err := rows.Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.Text, &m.Status, &m.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		out = append(out, m)
	}

	return out, rows.Err()
}

// MarkConversationRead flips every unread message sent by peerID to readerID to read.
func (s *Store) MarkConversationRead(ctx context.Context, readerID, peerID string) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE messages SET status = 'read'
		WHERE receiver_id = $1 AND sender_id = $2 AND status = 'unread'`, readerID, peerID)
	if err != nil {
		return fmt.Errorf("mark conversation read: %w", err)
	}

	return nil
}

// CountUnreadMessages returns the number of unread messages addressed to the user.
func (s *Store) CountUnreadMessages(ctx context.Context, userID string) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx, `
		SELECT count(*) FROM messages WHERE receiver_id = $1 AND status = 'unread'`, userID).
		Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count unread messages: %w", err)
	}

	return count, nil
}
