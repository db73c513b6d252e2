/*
Package store contains the persistence layer for SkillSwap.

It defines the persisted entities (users, skills, connections, messages) and
hand-written pgx queries over the PostgreSQL schema. Each exported method is a
single statement (or a single logical read), so callers get per-write atomicity
without cross-record transactions.
*/
package store

import (
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// SkillKind distinguishes skills a user can teach from skills they want to learn.
type SkillKind string

const (
	SkillKindTeach SkillKind = "teach"
	SkillKindLearn SkillKind = "learn"
)

// ConnectionStatus is the lifecycle state of a connection request.
type ConnectionStatus string

const (
	ConnectionPending  ConnectionStatus = "pending"
	ConnectionAccepted ConnectionStatus = "accepted"
	ConnectionDeclined ConnectionStatus = "declined"
)

// MessageStatus is the delivery state of a persisted chat message.
type MessageStatus string

const (
	MessageUnread MessageStatus = "unread"
	MessageRead   MessageStatus = "read"
)

// User is a member of the platform. Skills live in their own table; see UserWithSkills.
type User struct {
	ID           string
	Name         string
	AvatarURL    string
	Location     string
	LastActiveAt time.Time
	CreatedAt    time.Time
}

// UserWithSkills is a user joined with the names of their skills of one kind.
// Skill names are what matching operates on; two users "share" a skill when the
// names are equal, not when the skill rows are.
type UserWithSkills struct {
	User
	SkillNames []string
}

// Connection is a request from one user to another, unique per ordered pair.
// A declined record is reusable: a later request between the same two users
// overwrites it back to pending instead of inserting a second row.
type Connection struct {
	ID          string
	RequesterID string
	RecipientID string
	Status      ConnectionStatus
	Message     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// OtherParty returns the user on the opposite side of the connection from userID.
func (c *Connection) OtherParty(userID string) string {
	if c.RequesterID == userID {
		return c.RecipientID
	}
	return c.RequesterID
}

// ConnectionWithPeer is a connection joined with the display fields of the
// party opposite the listing user, for the REST connection-list endpoint.
type ConnectionWithPeer struct {
	Connection
	PeerID        string
	PeerName      string
	PeerAvatarURL string
}

// Message is a persisted chat message. Immutable once created except for the
// unread-to-read status transition.
type Message struct {
	ID         string
	SenderID   string
	ReceiverID string
	Text       string
	Status     MessageStatus
	CreatedAt  time.Time
}

// Store wraps the pgx connection pool and exposes the query methods.
type Store struct {
	pool *pgxpool.Pool
}

// New constructs a Store on top of an initialized connection pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}
