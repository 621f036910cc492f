package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/marmos91/cabinet/internal/logger"
	"github.com/marmos91/cabinet/pkg/catalog"
	"github.com/marmos91/cabinet/pkg/content"
	"github.com/marmos91/cabinet/pkg/files"
	"github.com/marmos91/cabinet/pkg/identity"
)

// errorBody is the uniform shape of every error response.
type errorBody struct {
	Error string `json:"error"`
}

// writeJSON encodes v with the given status. Encoding failures at this
// point can only be logged; the status line is already gone.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("http: failed to encode response: %v", err)
	}
}

// writeError maps a domain error to its wire status and body.
//
// Mapping:
//   - validation and invalid-parent errors: 400, with the domain message
//   - unauthenticated: 401 "Unauthorized"
//   - missing or hidden entries and missing content: 404 "Not found"
//   - anything else is an internal fault: 500, message withheld
func writeError(w http.ResponseWriter, err error) {
	var validationErr *files.ValidationError
	var storeErr *catalog.StoreError

	switch {
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: validationErr.Message})
	case catalog.IsInvalidParent(err) && errors.As(err, &storeErr):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: storeErr.Message})
	case catalog.IsInvalidArgument(err) && errors.As(err, &storeErr):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: storeErr.Message})
	case errors.Is(err, identity.ErrUnauthenticated):
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "Unauthorized"})
	case catalog.IsNotFound(err) || content.IsNotFound(err):
		writeJSON(w, http.StatusNotFound, errorBody{Error: "Not found"})
	default:
		logger.Error("http: request failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "Internal server error"})
	}
}
