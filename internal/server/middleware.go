package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/marmos91/cabinet/internal/logger"
	"github.com/marmos91/cabinet/pkg/identity"
)

// tokenHeader carries the session token on every authenticated request.
const tokenHeader = "X-Token"

type contextKey int

const identityKey contextKey = iota

// authenticate resolves the X-Token header to an identity and stores it
// in the request context. Requests the gate rejects get 401 without
// reaching the handler.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ident, err := s.deps.Gate.Resolve(r.Context(), r.Header.Get(tokenHeader))
		if err != nil {
			writeError(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), identityKey, ident)))
	})
}

// identityFrom returns the identity stored by authenticate. It panics if
// a route was wired without the middleware; that is a routing bug, not a
// runtime condition.
func identityFrom(r *http.Request) *identity.Identity {
	return r.Context().Value(identityKey).(*identity.Identity)
}

// observeRequests records per-request metrics and a debug log line. The
// route label is the chi pattern, not the raw path, so cardinality stays
// bounded.
func (s *Server) observeRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		elapsed := time.Since(start)
		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}
		s.deps.HTTPMetrics.Observe(r.Method, route, ww.Status(), elapsed)
		logger.Debug("http: %s %s -> %d in %s", r.Method, r.URL.Path, ww.Status(), elapsed)
	})
}
