package httpapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"petsitter/appuser"
	"petsitter/auth"
	"petsitter/authz"
	"petsitter/availability"
	"petsitter/inquiry"
	"petsitter/messaging"
	"petsitter/pet"
	"petsitter/review"
	"petsitter/sitter"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// writeError maps domain sentinel errors onto the HTTP taxonomy. Anything
// unmapped is an internal failure: logged with its cause, reported without it.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrInvalidToken):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error()})
	case errors.Is(err, authz.ErrForbidden):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: err.Error()})
	case errors.Is(err, appuser.ErrNotFound),
		errors.Is(err, sitter.ErrNotFound),
		errors.Is(err, pet.ErrNotFound),
		errors.Is(err, availability.ErrNotFound),
		errors.Is(err, inquiry.ErrNotFound),
		errors.Is(err, review.ErrRecipientNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, appuser.ErrDuplicateEmail),
		errors.Is(err, availability.ErrDuplicateDate),
		errors.Is(err, inquiry.ErrAlreadyFinalized):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, auth.ErrWeakPassword),
		errors.Is(err, appuser.ErrInvalidInput),
		errors.Is(err, pet.ErrInvalidInput),
		errors.Is(err, inquiry.ErrInvalidInput),
		errors.Is(err, inquiry.ErrInvalidStatus),
		errors.Is(err, inquiry.ErrPetNotOwned),
		errors.Is(err, sitter.ErrPrefectureRequired),
		errors.Is(err, review.ErrInvalidScore),
		errors.Is(err, review.ErrInvalidRole),
		errors.Is(err, review.ErrSelfReview),
		errors.Is(err, messaging.ErrEmptyContent):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	default:
		log.Printf("httpapi: internal error: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.New("invalid json body")
	}
	return nil
}
