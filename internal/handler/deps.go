package handler

import (
	"skillswap/internal/app/hub"
	"skillswap/internal/app/match"
	"skillswap/internal/app/social"
	"skillswap/internal/app/store"
	"skillswap/internal/configs"
)

// AppDeps bundles the shared dependencies injected into every handler.
type AppDeps struct {
	Config      *configs.AppConfig
	Store       *store.Store
	Engine      *match.Engine
	Hub         *hub.Hub
	Connections *social.ConnectionService
	Messages    *social.MessageService
}
