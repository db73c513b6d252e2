/*
Package handler provides the HTTP handler function for WebSocket connection upgrading and initialization.

This file contains the HandleWebSocket function, which is responsible for rate limiting,
authenticating the connecting user, upgrading the HTTP connection to WebSocket, and
initiating the client lifecycle in the presence hub.
*/
package handler

import (
	"net/http"

	"github.com/gorilla/websocket"

	"skillswap/internal/app/hub"
	"skillswap/internal/pkg/auth/jwt"
	"skillswap/internal/pkg/errs"
	"skillswap/internal/pkg/limiter"
	"skillswap/internal/pkg/logx"
	"skillswap/internal/pkg/resp"
)

// HandleWebSocket creates an HTTP HandlerFunc to process WebSocket connection requests.
// Browsers cannot set an Authorization header on a WebSocket upgrade, so the JWT is
// carried in the `token` query parameter instead.
func HandleWebSocket(upgrader websocket.Upgrader, rateLimiter *limiter.IPRateLimiter, deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := limiter.ClientIP(r)

		if !rateLimiter.GetLimiter(ip).Allow() {
			logx.Warn("WebSocket connection rejected: Rate limit exceeded.", "ip", ip)
			resp.RespondError(w, r, errs.NewError(errs.ErrRateLimitExceeded))
			return
		}

		tokenString := r.URL.Query().Get("token")
		if tokenString == "" {
			logx.Warn("WebSocket request rejected: Missing token query parameter")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		payload, err := jwt.ParseToken(tokenString, deps.Config.JWTSecret)
		if err != nil {
			logx.Warn("WebSocket request rejected: Invalid token", "error", err)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		logx.Info("Attempting to upgrade connection", "user_id", payload.ID)

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logx.Error(err, "Failed to upgrade connection to WebSocket")
			return
		}

		client := hub.NewClient(deps.Hub, conn, payload.ID, payload.Name)

		go client.WritePump()

		deps.Hub.Connect(client)

		logx.Info("WebSocket connection established and session registered", "user_id", payload.ID)

		client.ReadPump()
	}
}
