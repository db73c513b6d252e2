/*
Package handler provides HTTP handler functions for durable chat messages.

Message durability lives here; the realtime channel only complements these
writes with best-effort delivery.
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

// SendMessageInput is the request body for sending a chat message.
type SendMessageInput struct {
	ReceiverID string `json:"receiverId" validate:"required,uuid4"`
	Text       string `json:"text" validate:"required"`
}

// messageView is the REST representation of a persisted message.
type messageView struct {
	ID        string    `json:"_id"`
	Sender    string    `json:"sender"`
	Receiver  string    `json:"receiver"`
	Text      string    `json:"text"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// HandleSendMessage persists a message and pushes it into the conversation room.
func HandleSendMessage(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetPayloadFromContext(r)

		var input SendMessageInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		msg, customErr := deps.Messages.Send(r.Context(), identity.ID, input.ReceiverID, input.Text)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		resp.RespondSuccess(w, r, messageToView(*msg))
	}
}

// HandleGetConversation returns the full history with one peer and marks
// messages addressed to the caller as read.
func HandleGetConversation(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetPayloadFromContext(r)

		peerID := chi.URLParam(r, "userId")
		if peerID == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		messages, customErr := deps.Messages.History(r.Context(), identity.ID, peerID)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		views := make([]messageView, 0, len(messages))
		for _, m := range messages {
			views = append(views, messageToView(m))
		}

		resp.RespondSuccess(w, r, map[string]any{"messages": views})
	}
}

func messageToView(m store.Message) messageView {
	return messageView{
		ID:        m.ID,
		Sender:    m.SenderID,
		Receiver:  m.ReceiverID,
		Text:      m.Text,
		Status:    string(m.Status),
		CreatedAt: m.CreatedAt,
	}
}
