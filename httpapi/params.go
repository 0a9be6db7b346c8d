package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// pathID extracts a path parameter and validates it as a UUID. A malformed id
// reads as not found rather than surfacing as a database encode error; the
// false return means the response has already been written.
func pathID(w http.ResponseWriter, r *http.Request, key string) (string, bool) {
	raw := chi.URLParam(r, key)
	if _, err := uuid.Parse(raw); err != nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
		return "", false
	}
	return raw, true
}
