package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/marmos91/cabinet/pkg/metrics"
)

// router assembles the route tree.
//
// Everything passes through recovery, metrics and the rate limiter.
// Catalog routes additionally require a resolved identity, with two
// exceptions: the content download route is gated by the entry's public
// flag instead of a credential, and the operational routes (/status,
// /stats, /metrics) are open.
func (s *Server) router() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(s.observeRequests)
	r.Use(s.limiter.Middleware)

	r.Route("/files", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(s.authenticate)
			r.Post("/", s.handleUpload)
			r.Get("/", s.handleList)
			r.Get("/{id}", s.handleShow)
			r.Put("/{id}/publish", s.handlePublish)
			r.Put("/{id}/unpublish", s.handleUnpublish)
		})
		r.Get("/{id}/data", s.handleDownload)
	})

	r.Get("/status", s.handleStatus)
	r.Get("/stats", s.handleStats)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	return r
}
