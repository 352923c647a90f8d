package handler

import (
	"faithlink/backend/internal/chathub"
	"faithlink/backend/internal/config"
	"faithlink/backend/internal/storage"
)

// Handler wires the HTTP surface to the hub and the store.
type Handler struct {
	Hub   *chathub.ManagerService
	Store storage.Storage
	Cfg   *config.Config
}

func NewHandler(hub *chathub.ManagerService, store storage.Storage, cfg *config.Config) *Handler {
	return &Handler{Hub: hub, Store: store, Cfg: cfg}
}
