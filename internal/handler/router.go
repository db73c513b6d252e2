/*
Package handler provides the HTTP handlers and routing setup for the SkillSwap server.

This file defines the main Router, applying necessary middleware like logging, CORS,
and IP-based rate limiting before delegating requests to specific handlers (API and WebSocket).
*/
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"skillswap/internal/pkg/auth/jwt"
	"skillswap/internal/pkg/limiter"
	"skillswap/internal/pkg/logx"
	"skillswap/internal/pkg/resp"
)

const (
	// MatchRate limits how often one IP can recompute matches; the computation
	// scans the full directory and calls the generation service.
	MatchRate  = 0.2
	MatchBurst = 3

	WsConnectRate  = 0.5
	WsConnectBurst = 5
)

// Router sets up the main HTTP routing table (chi.Router) for the application.
// It initializes IP-based rate limiters, configures CORS, and applies global and per-route middleware.
func Router(deps *AppDeps) http.Handler {
	matchLimiter := limiter.NewIPRateLimiter(rate.Limit(MatchRate), MatchBurst)
	wsLimiter := limiter.NewIPRateLimiter(rate.Limit(WsConnectRate), WsConnectBurst)

	r := chi.NewRouter()

	allowedOrigins := make(map[string]struct{})
	for _, origin := range deps.Config.AllowedOrigins {
		allowedOrigins[origin] = struct{}{}
	}

	var wsUpgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			if deps.Config.Environment == "development" {
				return true
			}

			origin := r.Header.Get("Origin")
			if _, ok := allowedOrigins[origin]; ok {
				return true
			}

			logx.Warn("WebSocket connection rejected: Origin not allowed.", "origin", origin)
			return false
		},
	}

	corsAllowedOrigins := []string{}
	if deps.Config.Environment == "development" {
		corsAllowedOrigins = []string{"*"}
	} else if len(deps.Config.AllowedOrigins) > 0 {
		corsAllowedOrigins = deps.Config.AllowedOrigins
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   corsAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{},
		AllowCredentials: true,
		MaxAge:           300,
	})
	r.Use(c.Handler)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logx.RequestLogger())
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		data := map[string]string{
			"status":  "ok",
			"service": "SkillSwap Server",
		}
		resp.RespondSuccess(w, r, data)
	})

	r.Route("/api", func(api chi.Router) {
		api.Use(jwt.IdentityExtractorMiddleware(deps.Config.JWTSecret))
		api.Use(jwt.RequireAuth)

		rateLimitedMatches := matchLimiter.Middleware(HandleGetMatches(deps))
		api.Get("/match", rateLimitedMatches.ServeHTTP)

		api.Route("/users", func(users chi.Router) {
			users.Get("/", HandleListUsers(deps))
			users.Get("/stats", HandleGetUserStats(deps))
			users.Put("/activity", HandleTouchActivity(deps))
		})

		api.Route("/connections", func(conns chi.Router) {
			conns.Get("/", HandleListConnections(deps))
			conns.Post("/", HandleSendConnectionRequest(deps))
			conns.Put("/{id}", HandleRespondConnection(deps))
			conns.Delete("/{id}", HandleRemoveConnection(deps))
		})

		api.Route("/messages", func(msgs chi.Router) {
			msgs.Post("/", HandleSendMessage(deps))
			msgs.Get("/{userId}", HandleGetConversation(deps))
		})
	})

	r.Get("/ws", HandleWebSocket(wsUpgrader, wsLimiter, deps))

	return r
}
