package gameapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"linkbridge/internal/application"
	"linkbridge/internal/client"
	"linkbridge/internal/repository"
)

// NewRouter builds the game service HTTP API. /api/sync-permissions is called
// by the identity service; the /api/players and /api/link routes are called by
// the game engine hook that owns chat command parsing.
func NewRouter(sync application.PermissionSyncService, identity *client.IdentityClient, roster *repository.Roster, perms *repository.PermissionStore, logger application.Logger) http.Handler {
	h := &Handler{
		sync:     sync,
		identity: identity,
		roster:   roster,
		perms:    perms,
		logger:   logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.health)
	r.Post("/api/sync-permissions", h.syncPermissions)

	r.Post("/api/players/join", h.playerJoin)
	r.Post("/api/players/leave", h.playerLeave)
	r.Get("/api/players/{steamID}/groups", h.playerGroups)

	r.Post("/api/link", h.link)
	r.Get("/api/link-status/{steamID}", h.linkStatus)
	r.Post("/api/rolesync", h.roleSync)

	return r
}
