/*
Package handler provides HTTP handler functions for the connection-request lifecycle.
*/
package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"skillswap/internal/app/store"
	"skillswap/internal/pkg/auth/jwt"
	"skillswap/internal/pkg/errs"
	"skillswap/internal/pkg/req"
	"skillswap/internal/pkg/resp"
)

// SendConnectionInput is the request body for creating a connection request.
type SendConnectionInput struct {
	RecipientID string `json:"recipientId" validate:"required,uuid4"`
	Message     string `json:"message" validate:"max=500"`
}

// RespondConnectionInput is the request body for answering a pending request.
type RespondConnectionInput struct {
	Action string `json:"action" validate:"required,oneof=accept decline"`
}

// connectionView is the REST representation of a connection with peer details.
type connectionView struct {
	ID        string    `json:"_id"`
	Status    string    `json:"status"`
	Message   string    `json:"message,omitempty"`
	Incoming  bool      `json:"incoming"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	User      struct {
		ID           string `json:"_id"`
		Name         string `json:"name"`
		ProfileImage string `json:"profileImage"`
	} `json:"user"`
}

// HandleSendConnectionRequest creates or revives a pending connection request.
func HandleSendConnectionRequest(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetPayloadFromContext(r)

		var input SendConnectionInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		conn, customErr := deps.Connections.SendRequest(r.Context(), identity.ID, input.RecipientID, input.Message)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"connectionId": conn.ID,
			"status":       conn.Status,
		})
	}
}

// HandleRespondConnection accepts or declines a pending connection request.
func HandleRespondConnection(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetPayloadFromContext(r)

		connectionID := chi.URLParam(r, "id")
		if connectionID == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		var input RespondConnectionInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		conn, customErr := deps.Connections.Respond(r.Context(), connectionID, identity.ID, input.Action == "accept")
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"connectionId": conn.ID,
			"status":       conn.Status,
		})
	}
}

// HandleRemoveConnection deletes a connection from either side.
func HandleRemoveConnection(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetPayloadFromContext(r)

		connectionID := chi.URLParam(r, "id")
		if connectionID == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		if customErr := deps.Connections.Remove(r.Context(), connectionID, identity.ID); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		resp.RespondSuccess(w, r, nil)
	}
}

// HandleListConnections returns the caller's accepted connections and incoming
// pending requests.
func HandleListConnections(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetPayloadFromContext(r)

		connections, customErr := deps.Connections.List(r.Context(), identity.ID)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		views := make([]connectionView, 0, len(connections))
		for _, c := range connections {
			views = append(views, connectionToView(c, identity.ID))
		}

		resp.RespondSuccess(w, r, map[string]any{"connections": views})
	}
}

func connectionToView(c store.ConnectionWithPeer, viewerID string) connectionView {
	var v connectionView
	v.ID = c.ID
	v.Status = string(c.Status)
	v.Message = c.Message
	v.Incoming = c.RecipientID == viewerID
	v.CreatedAt = c.CreatedAt
	v.UpdatedAt = c.UpdatedAt
	v.User.ID = c.PeerID
	v.User.Name = c.PeerName
	v.User.ProfileImage = c.PeerAvatarURL
	return v
}
