package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func NewRouter(apiHandler *APIHandler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)       // Basic request logging
	r.Use(middleware.Recoverer)    // Recover from panics
	r.Use(middleware.StripSlashes) // Ensure consistent path handling

	// The page is served separately during development.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000", "http://localhost:5173"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// All API routes live under /api
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"status":"ok"}`))
		})

		// Session routes
		r.Get("/session", apiHandler.GetSessionHandler)
		r.Post("/session/reset", apiHandler.ResetSessionHandler)

		// Conversation routes on the current session
		r.Post("/messages", apiHandler.PostMessageHandler)
		r.Get("/history", apiHandler.GetHistoryHandler)
		r.Get("/stream", apiHandler.StreamMessageHandler)

		// Direct lookup by session id
		r.Get("/sessions/{sessionID}/history", apiHandler.GetSessionHistoryHandler)
		r.Get("/sessions/{sessionID}/export", apiHandler.ExportSessionHandler)
	})

	return r
}
