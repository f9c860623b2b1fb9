// Package handler exposes the portal's HTTP surface: auth, chat, the
// complaints listing and the WebSocket upgrade for the embedded widget.
package handler

import (
	"go.uber.org/zap"

	"civicgo/backend/internal/chathub"
	"civicgo/backend/internal/dialogue"
	"civicgo/backend/internal/storage"
	"civicgo/backend/internal/store"
)

// Handler bundles the dependencies shared by all endpoints.
type Handler struct {
	Hub     *chathub.ManagerService
	Engine  *dialogue.Engine
	Store   *store.ReportStore
	Storage storage.Storage
	Metrics *Metrics
	Log     *zap.Logger

	jwtSecret []byte
}

// NewHandler constructs the handler set.
func NewHandler(hub *chathub.ManagerService, engine *dialogue.Engine, st *store.ReportStore, storageSvc storage.Storage, metrics *Metrics, log *zap.Logger, jwtSecret string) *Handler {
	return &Handler{
		Hub:       hub,
		Engine:    engine,
		Store:     st,
		Storage:   storageSvc,
		Metrics:   metrics,
		Log:       log,
		jwtSecret: []byte(jwtSecret),
	}
}
