package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"skillswap/internal/app/db"
)

const connectionColumns = "id, requester_id, recipient_id, status, message, created_at, updated_at"

func scanConnection(row interface{ Scan(...any) error }) (*Connection, error) {
	var c Connection
	err := row.Scan(&c.ID, &c.RequesterID, &c.RecipientID, &c.Status, &c.Message, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan connection: %w", err)
	}
	return &c, nil
}

// GetConnection fetches a connection by id.
func (s *Store) GetConnection(ctx context.Context, id string) (*Connection, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+connectionColumns+` FROM connections WHERE id = $1`, id)
	return scanConnection(row)
}

// GetConnectionByPair fetches the connection between two users regardless of
// which of them sent the request. The unique constraint guarantees at most one
// row per unordered pair.
func (s *Store) GetConnectionByPair(ctx context.Context, a, b string) (*Connection, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+connectionColumns+` FROM connections
		WHERE (requester_id = $1 AND recipient_id = $2)
		   OR (requester_id = $2 AND recipient_id = $1)`, a, b)
	return scanConnection(row)
}

// CreateConnection inserts a new pending connection request.
func (s *Store) CreateConnection(ctx context.Context, requesterID, recipientID, message string) (*Connection, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO connections (id, requester_id, recipient_id, status, message)
		VALUES ($1, $2, $3, 'pending', $4)
		RETURNING `+connectionColumns, uuid.NewString(), requesterID, recipientID, message)
	return scanConnection(row)
}

// ReopenConnection rewrites a previously declined connection back to pending,
// pointing it at the new requester direction. A single UPDATE, so no
// cross-record coordination is needed. The status guard means a concurrent
// state change makes this a no-op surfaced as ErrNotFound.
func (s *Store) ReopenConnection(ctx context.Context, id, requesterID, recipientID, message string) (*Connection, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE connections
		SET requester_id = $2, recipient_id = $3, status = 'pending', message = $4,
		    created_at = now(), updated_at = now()
		WHERE id = $1 AND status = 'declined'
		RETURNING `+connectionColumns, id, requesterID, recipientID, message)
	return scanConnection(row)
}

// UpdateConnectionStatus transitions a pending connection to accepted or declined.
// Only pending rows are touched, so a repeated or late response is rejected.
func (s *Store) UpdateConnectionStatus(ctx context.Context, id string, status ConnectionStatus) (*Connection, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE connections
		SET status = $2, updated_at = now()
		WHERE id = $1 AND status = 'pending'
		RETURNING `+connectionColumns, id, status)
	return scanConnection(row)
}

// DeleteConnection removes the connection record entirely.
func (s *Store) DeleteConnection(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM connections WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete connection: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// ListConnectionsForUser returns the user's accepted connections (either
// direction) and their incoming pending requests, each joined with the display
// fields of the opposite party. This is the poll path by which offline users
// discover lifecycle changes they missed.
func (s *Store) ListConnectionsForUser(ctx context.Context, userID string) ([]ConnectionWithPeer, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT c.id, c.requester_id, c.recipient_id, c.status, c.message, c.created_at, c.updated_at,
		       u.id, u.name, u.avatar_url
		FROM connections c
		JOIN users u ON u.id = CASE WHEN c.requester_id = $1 THEN c.recipient_id ELSE c.requester_id END
		WHERE (c.status = 'accepted' AND (c.requester_id = $1 OR c.recipient_id = $1))
		   OR (c.status = 'pending' AND c.recipient_id = $1)
		ORDER BY c.updated_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list connections: %w", err)
	}
	defer rows.Close()

	var out []ConnectionWithPeer
	for rows.Next() {
		var cp ConnectionWithPeer
		err := rows.Scan(
			&cp.ID, &cp.RequesterID, &cp.RecipientID, &cp.Status, &cp.Message, &cp.CreatedAt, &cp.UpdatedAt,
			&cp.PeerID, &cp.PeerName, &cp.PeerAvatarURL,
		)
		if err != nil {
			return nil, fmt.Errorf("scan connection with peer: %w", err)
		}
		out = append(out, cp)
	}

	return out, rows.Err()
}

// CountAcceptedConnections returns the number of accepted connections the user participates in.
func (s *Store) CountAcceptedConnections(ctx context.Context, userID string) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx, `
		SELECT count(*) FROM connections
		WHERE status = 'accepted' AND (requester_id = $1 OR recipient_id = $1)`, userID).
		Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count accepted connections: %w", err)
	}

	return count, nil
}
