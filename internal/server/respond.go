package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/sebbyk/airwaves/internal/models"
	"github.com/sebbyk/airwaves/internal/store"
)

// apiError is the standard error envelope for all error responses.
type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("writeJSON")
	}
}

func writeErr(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, apiError{Error: http.StatusText(status), Message: message})
}

// writeStoreErr maps store and validation sentinels onto the response
// taxonomy. Unexpected errors become a generic 500 with no internal detail.
func (s *Server) writeStoreErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeErr(w, http.StatusNotFound, "Resource not found")
	case errors.Is(err, store.ErrConflict):
		writeErr(w, http.StatusConflict, "Resource is still referenced and cannot be deleted")
	case errors.Is(err, models.ErrAmbiguousOwner):
		writeErr(w, http.StatusBadRequest, err.Error())
	default:
		s.log.Error().Err(err).Msg("internal error")
		writeErr(w, http.StatusInternalServerError, "An unexpected error occurred")
	}
}

// parseID extracts a path parameter by name and parses it as int64.
func parseID(r *http.Request, param string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(param), 10, 64)
	return id, err == nil && id > 0
}

// parseQueryID parses a query-string value as a positive int64.
func parseQueryID(v string) (int64, bool) {
	id, err := strconv.ParseInt(v, 10, 64)
	return id, err == nil && id > 0
}

// decodeJSON decodes the request body into v, reporting malformed payloads.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeErr(w, http.StatusBadRequest, "Invalid JSON body")
		return false
	}
	return true
}
