package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/datahub/internal/dashboard"
	"github.com/starford/datahub/internal/documents"
	"github.com/starford/datahub/internal/records"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
// Uploaded files are served separately at the root /files/{key} route so the
// stored public URLs resolve; see FileHandler.
func NewRouter(rec *records.Service, dash *dashboard.Service, docs *documents.DB,
	authEnabled bool, token, sessionEmail string, sseHandler http.Handler) chi.Router {

	h := NewHandler(rec, dash, docs, sessionEmail)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Records CRUD.
	r.Get("/records", h.ListRecords)
	r.Post("/records", h.CreateRecord)
	r.Get("/records/{id}", h.GetRecord)
	r.Put("/records/{id}", h.UpdateRecord)
	r.Delete("/records/{id}", h.DeleteRecord)

	// Document catalog (read-only).
	r.Get("/documents", h.ListDocuments)
	r.Get("/documents/{id}", h.GetDocument)

	// Dashboard.
	r.Get("/dashboard", h.Dashboard)

	// Session identity.
	r.Get("/session", h.Session)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
