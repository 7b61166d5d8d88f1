package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"portfolio-backend/internal/handlers"
	"portfolio-backend/internal/middleware"
	"portfolio-backend/internal/websocket"
)

func New(
	assistantHandler *handlers.AssistantHandler,
	contentHandler *handlers.ContentHandler,
	assistantLimiter *middleware.RateLimiter,
	wsHub *websocket.Hub,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// ──── Assistant Routes ────
		r.Route("/assistant", func(r chi.Router) {
			r.With(assistantLimiter.Middleware).Post("/", assistantHandler.Ask)

			// Rate limited per frame inside the hub
			r.Get("/ws", wsHub.HandleWebSocket)
		})

		// ──── Content Routes (public) ────
		r.Get("/profile", contentHandler.GetProfile)
		r.Get("/projects", contentHandler.ListProjects)
	})

	return r
}
