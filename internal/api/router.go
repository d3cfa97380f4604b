package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/graphrapids/graphsettings/internal/provider"
)

// Server holds shared state for all console API handlers.
type Server struct {
	Provider *provider.Provider
	Events   *EventHub
}

// NewRouter builds the chi router with all console API routes.
func NewRouter(s *Server) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Static routes must precede the {resource} wildcards.
		r.Post("/icon-sets/resolve", s.ResolveIconSets)
		r.Get("/graph-types/{id}/runtime", s.GetRuntime)

		// Generic record CRUD
		r.Get("/{resource}", s.ListRecords)
		r.Post("/{resource}", s.CreateRecord)
		r.Get("/{resource}/{id}", s.GetRecord)
		r.Put("/{resource}/{id}", s.UpdateRecord)
		r.Delete("/{resource}/{id}", s.DeleteRecord)

		// Resource-specific operations
		r.Get("/{resource}/{id}/bundle", s.GetBundle)
		r.Post("/{resource}/{id}/publish", s.PublishRecord)
		r.Get("/{resource}/{id}/entries", s.GetEntries)
		r.Put("/{resource}/{id}/entries/{key}", s.PutEntry)
		r.Delete("/{resource}/{id}/entries/{key}", s.DeleteEntry)
	})

	// WebSocket change feed (outside /api to avoid JSON content-type assumptions)
	r.Get("/ws/changes", s.StreamChanges)

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
