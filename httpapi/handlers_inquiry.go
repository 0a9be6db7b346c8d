package httpapi

import (
	"net/http"
	"time"

	"petsitter/inquiry"
)

type inquiryResponse struct {
	ID             string     `json:"id"`
	OwnerID        string     `json:"owner_id"`
	SitterID       string     `json:"sitter_id"`
	Status         string     `json:"status"`
	StartDate      string     `json:"start_date"`
	EndDate        string     `json:"end_date"`
	DesiredService string     `json:"desired_service"`
	AdditionalInfo *string    `json:"additional_info"`
	PetIDs         []string   `json:"pet_ids"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	FinalizedAt    *time.Time `json:"finalized_at"`
}

func toInquiryResponse(inq inquiry.Inquiry) inquiryResponse {
	petIDs := inq.PetIDs
	if petIDs == nil {
		petIDs = []string{}
	}
	return inquiryResponse{
		ID:             inq.ID,
		OwnerID:        inq.OwnerID,
		SitterID:       inq.SitterID,
		Status:         string(inq.Status),
		StartDate:      inq.StartDate.Format("2006-01-02"),
		EndDate:        inq.EndDate.Format("2006-01-02"),
		DesiredService: string(inq.DesiredService),
		AdditionalInfo: inq.AdditionalInfo,
		PetIDs:         petIDs,
		CreatedAt:      inq.CreatedAt,
		UpdatedAt:      inq.UpdatedAt,
		FinalizedAt:    inq.FinalizedAt,
	}
}

type createInquiryRequest struct {
	OwnerID        string   `json:"owner_id"`
	SitterID       string   `json:"sitter_id"`
	StartDate      string   `json:"start_date"`
	EndDate        string   `json:"end_date"`
	DesiredService string   `json:"desired_service"`
	AdditionalInfo *string  `json:"additional_info"`
	PetIDs         []string `json:"pet_ids"`
}

func createInquiryHandler(svc *inquiry.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := Identity(r.Context())

		var req createInquiryRequest
		if err := decodeJSON(r, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}

		params := inquiry.CreateParams{
			OwnerID:        req.OwnerID,
			SitterID:       req.SitterID,
			DesiredService: inquiry.ServiceKind(req.DesiredService),
			AdditionalInfo: req.AdditionalInfo,
			PetIDs:         req.PetIDs,
		}
		if req.StartDate != "" {
			start, err := parseDate(req.StartDate)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
				return
			}
			params.StartDate = start
		}
		if req.EndDate != "" {
			end, err := parseDate(req.EndDate)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
				return
			}
			params.EndDate = end
		}

		inq, err := svc.Create(r.Context(), identity.AppuserID, params)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toInquiryResponse(inq))
	}
}

func getInquiryHandler(svc *inquiry.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := Identity(r.Context())
		id, ok := pathID(w, r, "inquiryID")
		if !ok {
			return
		}

		inq, err := svc.Get(r.Context(), identity.AppuserID, id)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toInquiryResponse(inq))
	}
}

func listInquiriesHandler(svc *inquiry.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := Identity(r.Context())
		appuserID, ok := pathID(w, r, "appuserID")
		if !ok {
			return
		}

		inquiries, err := svc.ListForUser(r.Context(), identity.AppuserID, appuserID)
		if err != nil {
			writeError(w, err)
			return
		}

		out := make([]inquiryResponse, 0, len(inquiries))
		for _, inq := range inquiries {
			out = append(out, toInquiryResponse(inq))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

type updateInquiryStatusRequest struct {
	Status string `json:"status"`
}

func updateInquiryStatusHandler(svc *inquiry.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := Identity(r.Context())
		id, ok := pathID(w, r, "inquiryID")
		if !ok {
			return
		}

		var req updateInquiryStatusRequest
		if err := decodeJSON(r, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}

		inq, err := svc.UpdateStatus(r.Context(), identity.AppuserID, id, inquiry.Status(req.Status))
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toInquiryResponse(inq))
	}
}

type updateInquiryContentRequest struct {
	StartDate      *string  `json:"start_date"`
	EndDate        *string  `json:"end_date"`
	DesiredService *string  `json:"desired_service"`
	AdditionalInfo *string  `json:"additional_info"`
	PetIDs         []string `json:"pet_ids"`
}

func updateInquiryContentHandler(svc *inquiry.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := Identity(r.Context())
		id, ok := pathID(w, r, "inquiryID")
		if !ok {
			return
		}

		var req updateInquiryContentRequest
		if err := decodeJSON(r, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}

		params := inquiry.ContentUpdateParams{
			AdditionalInfo: req.AdditionalInfo,
			PetIDs:         req.PetIDs,
		}
		if req.StartDate != nil {
			start, err := parseDate(*req.StartDate)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
				return
			}
			params.StartDate = &start
		}
		if req.EndDate != nil {
			end, err := parseDate(*req.EndDate)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
				return
			}
			params.EndDate = &end
		}
		if req.DesiredService != nil {
			kind := inquiry.ServiceKind(*req.DesiredService)
			params.DesiredService = &kind
		}

		inq, err := svc.UpdateContent(r.Context(), identity.AppuserID, id, params)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toInquiryResponse(inq))
	}
}

type attachedPetsResponse struct {
	Pets       []petResponse `json:"pets"`
	MissingIDs []string      `json:"missing_ids"`
}

func attachedPetsHandler(svc *inquiry.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := Identity(r.Context())
		id, ok := pathID(w, r, "inquiryID")
		if !ok {
			return
		}

		res, err := svc.AttachedPets(r.Context(), identity.AppuserID, id)
		if err != nil {
			writeError(w, err)
			return
		}

		resp := attachedPetsResponse{
			Pets:       make([]petResponse, 0, len(res.Pets)),
			MissingIDs: res.MissingIDs,
		}
		for _, p := range res.Pets {
			resp.Pets = append(resp.Pets, toPetResponse(p))
		}

		writeJSON(w, http.StatusOK, resp)
	}
}
