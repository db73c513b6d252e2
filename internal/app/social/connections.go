/*
Package social implements the connection-request and messaging services.

Every operation follows the same shape: perform the durable write first, then
independently attempt a realtime notification, logging any failure without
affecting the result of the write.
*/
package social

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"skillswap/internal/app/db"
	"skillswap/internal/app/hub"
	"skillswap/internal/app/store"
	"skillswap/internal/pkg/errs"
	"skillswap/internal/pkg/logx"
)

// Notifier pushes a best-effort event to one user's realtime session.
// The hub implements it; offline recipients and transport failures are
// swallowed inside, never surfaced here.
type Notifier interface {
	Notify(userID string, event string, payload any)
}

// ConnectionStore is the persistence surface the connection service needs.
type ConnectionStore interface {
	GetConnection(ctx context.Context, id string) (*store.Connection, error)
	GetConnectionByPair(ctx context.Context, a, b string) (*store.Connection, error)
	CreateConnection(ctx context.Context, requesterID, recipientID, message string) (*store.Connection, error)
	ReopenConnection(ctx context.Context, id, requesterID, recipientID, message string) (*store.Connection, error)
	UpdateConnectionStatus(ctx context.Context, id string, status store.ConnectionStatus) (*store.Connection, error)
	DeleteConnection(ctx context.Context, id string) error
	ListConnectionsForUser(ctx context.Context, userID string) ([]store.ConnectionWithPeer, error)
}

// UserReader resolves user display fields for event payloads and existence checks.
type UserReader interface {
	GetUser(ctx context.Context, userID string) (*store.User, error)
}

// ConnectionService owns the connection-request lifecycle.
type ConnectionService struct {
	conns    ConnectionStore
	users    UserReader
	notifier Notifier
	logger   zerolog.Logger
}

// NewConnectionService constructs a ConnectionService.
func NewConnectionService(conns ConnectionStore, users UserReader, notifier Notifier) *ConnectionService {
	return &ConnectionService{
		conns:    conns,
		users:    users,
		notifier: notifier,
		logger:   logx.Logger().With().Str("component", "ConnectionService").Logger(),
	}
}

// SendRequest creates (or revives) a pending connection request from requester
// to recipient, then pushes a connectionRequest event to the recipient.
//
// At most one connection record exists per user pair. A previously declined
// record is reused: its status is overwritten back to pending rather than a
// second row inserted. Pending and accepted records reject the new request
// without mutation.
func (s *ConnectionService) SendRequest(ctx context.Context, requesterID, recipientID, message string) (*store.Connection, *errs.CustomError) {
	if requesterID == recipientID {
		return nil, errs.NewError(errs.ErrSelfConnection)
	}

	if _, err := s.users.GetUser(ctx, recipientID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errs.NewError(errs.ErrUserNotFound)
		}
		s.logger.Error().Err(err).Str("recipient_id", recipientID).Msg("Failed to look up recipient.")
		return nil, errs.NewError(errs.ErrUnknown)
	}

	conn, customErr := s.createOrReopen(ctx, requesterID, recipientID, message)
	if customErr != nil {
		return nil, customErr
	}

	// Durable write done; the push below is best-effort and independently failable.
	if requester, err := s.users.GetUser(ctx, requesterID); err != nil {
		s.logger.Warn().Err(err).Str("requester_id", requesterID).Msg("Skipping connectionRequest push, requester lookup failed.")
	} else {
		s.notifier.Notify(recipientID, hub.EventConnectionRequest, hub.ConnectionRequestEvent{
			ID:        conn.ID,
			User:      userRef(requester),
			Message:   conn.Message,
			CreatedAt: conn.CreatedAt,
		})
	}

	return conn, nil
}

// createOrReopen performs the durable write for SendRequest.
func (s *ConnectionService) createOrReopen(ctx context.Context, requesterID, recipientID, message string) (*store.Connection, *errs.CustomError) {
	existing, err := s.conns.GetConnectionByPair(ctx, requesterID, recipientID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		s.logger.Error().Err(err).Msg("Failed to look up existing connection.")
		return nil, errs.NewError(errs.ErrUnknown)
	}

	if existing != nil {
		if existing.Status != store.ConnectionDeclined {
			return nil, errs.NewError(errs.ErrConnectionExists)
		}

		conn, err := s.conns.ReopenConnection(ctx, existing.ID, requesterID, recipientID, message)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				// The record changed state between the read and the update.
				return nil, errs.NewError(errs.ErrConnectionExists)
			}
			s.logger.Error().Err(err).Str("connection_id", existing.ID).Msg("Failed to reopen declined connection.")
			return nil, errs.NewError(errs.ErrUnknown)
		}
		return conn, nil
	}

	conn, err := s.conns.CreateConnection(ctx, requesterID, recipientID, message)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, errs.NewError(errs.ErrConnectionExists)
		}
		s.logger.Error().Err(err).Msg("Failed to create connection.")
		return nil, errs.NewError(errs.ErrUnknown)
	}

	return conn, nil
}

// Respond accepts or declines a pending request. Only the recipient may respond.
// The original requester is notified best-effort afterwards.
func (s *ConnectionService) Respond(ctx context.Context, connectionID, actorID string, accept bool) (*store.Connection, *errs.CustomError) {
	conn, err := s.conns.GetConnection(ctx, connectionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errs.NewError(errs.ErrConnectionNotFound)
		}
		s.logger.Error().Err(err).Str("connection_id", connectionID).Msg("Failed to load connection.")
		return nil, errs.NewError(errs.ErrUnknown)
	}

	if conn.RecipientID != actorID || conn.Status != store.ConnectionPending {
		return nil, errs.NewError(errs.ErrConnectionForbidden)
	}

	status := store.ConnectionDeclined
	if accept {
		status = store.ConnectionAccepted
	}

	updated, err := s.conns.UpdateConnectionStatus(ctx, connectionID, status)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// No longer pending; someone raced us.
			return nil, errs.NewError(errs.ErrConnectionForbidden)
		}
		s.logger.Error().Err(err).Str("connection_id", connectionID).Msg("Failed to update connection status.")
		return nil, errs.NewError(errs.ErrUnknown)
	}

	if accept {
		if recipient, lookupErr := s.users.GetUser(ctx, actorID); lookupErr != nil {
			s.logger.Warn().Err(lookupErr).Str("user_id", actorID).Msg("Skipping connectionAccepted push, recipient lookup failed.")
		} else {
			s.notifier.Notify(updated.RequesterID, hub.EventConnectionAccepted, hub.ConnectionAcceptedEvent{
				ID:   updated.ID,
				User: userRef(recipient),
			})
		}
	} else {
		s.notifier.Notify(updated.RequesterID, hub.EventConnectionDeclined, hub.ConnectionDeclinedEvent{
			ID:     updated.ID,
			UserID: actorID,
		})
	}

	return updated, nil
}

// Remove deletes the connection record entirely. Either party may remove it;
// the other party is notified best-effort afterwards.
func (s *ConnectionService) Remove(ctx context.Context, connectionID, actorID string) *errs.CustomError {
	conn, err := s.conns.GetConnection(ctx, connectionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return errs.NewError(errs.ErrConnectionNotFound)
		}
		s.logger.Error().Err(err).Str("connection_id", connectionID).Msg("Failed to load connection.")
		return errs.NewError(errs.ErrUnknown)
	}

	if conn.RequesterID != actorID && conn.RecipientID != actorID {
		return errs.NewError(errs.ErrConnectionForbidden)
	}

	if err := s.conns.DeleteConnection(ctx, connectionID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return errs.NewError(errs.ErrConnectionNotFound)
		}
		s.logger.Error().Err(err).Str("connection_id", connectionID).Msg("Failed to delete connection.")
		return errs.NewError(errs.ErrUnknown)
	}

	s.notifier.Notify(conn.OtherParty(actorID), hub.EventConnectionRemoved, hub.ConnectionRemovedEvent{
		ConnectionID: connectionID,
		UserID:       actorID,
	})

	return nil
}

// List returns the user's accepted connections and incoming pending requests.
// This is the poll path by which offline users catch up on missed pushes.
func (s *ConnectionService) List(ctx context.Context, userID string) ([]store.ConnectionWithPeer, *errs.CustomError) {
	out, err := s.conns.ListConnectionsForUser(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to list connections.")
		return nil, errs.NewError(errs.ErrUnknown)
	}

	return out, nil
}

func userRef(u *store.User) hub.UserRef {
	return hub.UserRef{
		ID:           u.ID,
		Name:         u.Name,
		ProfileImage: u.AvatarURL,
	}
}
