package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/DoyleJ11/bingo-live-backend/internal/session"
	"github.com/DoyleJ11/bingo-live-backend/internal/ws"
)

func SetupRoutes(s *session.Session, adminPass string, log *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// Public routes
	r.Get("/healthz", Healthz)
	r.Post("/admin-login", AdminLogin(adminPass))
	r.Get("/api/patterns", Patterns)
	r.Get("/api/state", State(s))
	r.Get("/api/admin/proximity-report", ProximityReport(s, adminPass))
	r.Get("/ws", ws.Handler(s, adminPass, log))
	return r
}
