package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"linkbridge/internal/application"
)

// NewRouter builds the identity service HTTP API consumed by the game service.
func NewRouter(links application.LinkService, logger application.Logger) http.Handler {
	h := &Handler{links: links, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.health)
	r.Post("/api/link", h.link)
	r.Get("/api/check/{steamID}", h.check)
	r.Get("/api/account/{discordID}", h.account)
	r.Post("/api/request-sync", h.requestSync)

	return r
}
