package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/marmos91/cabinet/internal/logger"
	"github.com/marmos91/cabinet/pkg/files"
)

// uploadBody is the create-request wire shape.
type uploadBody struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Data     string `json:"data"`
	ParentID string `json:"parentId"`
	IsPublic bool   `json:"isPublic"`
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	var body uploadBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Invalid JSON body"})
		return
	}

	view, err := s.deps.Files.Upload(r.Context(), identityFrom(r), files.UploadRequest{
		Name:     body.Name,
		Kind:     body.Type,
		Data:     body.Data,
		ParentID: body.ParentID,
		IsPublic: body.IsPublic,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

func (s *Server) handleShow(w http.ResponseWriter, r *http.Request) {
	view, err := s.deps.Files.Show(r.Context(), identityFrom(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	// A missing or malformed page defaults to the first one
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 0 {
		page = 0
	}

	views, err := s.deps.Files.List(r.Context(), identityFrom(r), r.URL.Query().Get("parentId"), page)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handlePublish(w http.ResponseWriter, r *http.Request) {
	view, err := s.deps.Files.Publish(r.Context(), identityFrom(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleUnpublish(w http.ResponseWriter, r *http.Request) {
	view, err := s.deps.Files.Unpublish(r.Context(), identityFrom(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// handleDownload streams a public entry's bytes. It is the only catalog
// route outside the authentication group: visibility is decided by the
// entry's public flag alone.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	data, contentType, err := s.deps.Files.Download(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		// The status line is already out; nothing to do but log
		logger.Error("http: failed to write download body for %s: %v", r.URL.Path, err)
	}
}

// handleStatus reports backend reachability. The response is 200 even
// when a backend is down: the body carries the health, not the status
// code.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	redisUp := s.deps.Tokens.Ping(r.Context()) == nil
	_, dbErr := s.deps.Catalog.Count(r.Context())

	writeJSON(w, http.StatusOK, map[string]bool{
		"redis": redisUp,
		"db":    dbErr == nil,
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	users, err := s.deps.Users.Count(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	entries, err := s.deps.Catalog.Count(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{
		"users": users,
		"files": entries,
	})
}
