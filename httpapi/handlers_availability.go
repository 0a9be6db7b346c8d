package httpapi

import (
	"net/http"
	"time"

	"petsitter/availability"
)

type availabilityResponse struct {
	ID        string    `json:"id"`
	AppuserID string    `json:"appuser_id"`
	Date      string    `json:"date"`
	CreatedAt time.Time `json:"created_at"`
}

func toAvailabilityResponse(a availability.Availability) availabilityResponse {
	return availabilityResponse{
		ID:        a.ID,
		AppuserID: a.AppuserID,
		Date:      a.Date.Format("2006-01-02"),
		CreatedAt: a.CreatedAt,
	}
}

type addAvailabilityRequest struct {
	Date string `json:"date"` // YYYY-MM-DD
}

func addAvailabilityHandler(svc *availability.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := Identity(r.Context())
		appuserID, ok := pathID(w, r, "appuserID")
		if !ok {
			return
		}

		var req addAvailabilityRequest
		if err := decodeJSON(r, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		date, err := parseDate(req.Date)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}

		a, err := svc.Add(r.Context(), identity.AppuserID, appuserID, date)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toAvailabilityResponse(a))
	}
}

func listAvailabilityHandler(svc *availability.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		appuserID, ok := pathID(w, r, "appuserID")
		if !ok {
			return
		}

		dates, err := svc.List(r.Context(), appuserID)
		if err != nil {
			writeError(w, err)
			return
		}

		out := make([]availabilityResponse, 0, len(dates))
		for _, a := range dates {
			out = append(out, toAvailabilityResponse(a))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func removeAvailabilityHandler(svc *availability.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := Identity(r.Context())
		id, ok := pathID(w, r, "availabilityID")
		if !ok {
			return
		}

		if err := svc.Remove(r.Context(), identity.AppuserID, id); err != nil {
			writeError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
