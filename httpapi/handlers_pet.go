package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"petsitter/pet"
)

type petResponse struct {
	ID                string     `json:"id"`
	OwnerID           string     `json:"owner_id"`
	Name              string     `json:"name"`
	Species           string     `json:"species"`
	Subtype           *string    `json:"subtype"`
	Gender            *string    `json:"gender"`
	Weight            *float64   `json:"weight"`
	Birthday          *string    `json:"birthday"`
	KnownAllergies    *string    `json:"known_allergies"`
	Medications       *string    `json:"medications"`
	SpecialNeeds      *string    `json:"special_needs"`
	ProfileBio        *string    `json:"profile_bio"`
	ProfilePictureSrc *string    `json:"profile_picture_src"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

func toPetResponse(p pet.Pet) petResponse {
	resp := petResponse{
		ID:                p.ID,
		OwnerID:           p.OwnerID,
		Name:              p.Name,
		Species:           string(p.Species),
		Subtype:           p.Subtype,
		Weight:            p.Weight,
		KnownAllergies:    p.KnownAllergies,
		Medications:       p.Medications,
		SpecialNeeds:      p.SpecialNeeds,
		ProfileBio:        p.ProfileBio,
		ProfilePictureSrc: p.ProfilePictureSrc,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
	if p.Gender != nil {
		g := string(*p.Gender)
		resp.Gender = &g
	}
	if p.Birthday != nil {
		b := p.Birthday.Format("2006-01-02")
		resp.Birthday = &b
	}
	return resp
}

type petRequest struct {
	Name              *string  `json:"name"`
	Species           *string  `json:"species"`
	Subtype           *string  `json:"subtype"`
	Gender            *string  `json:"gender"`
	Weight            *float64 `json:"weight"`
	Birthday          *string  `json:"birthday"` // YYYY-MM-DD
	KnownAllergies    *string  `json:"known_allergies"`
	Medications       *string  `json:"medications"`
	SpecialNeeds      *string  `json:"special_needs"`
	ProfileBio        *string  `json:"profile_bio"`
	ProfilePictureSrc *string  `json:"profile_picture_src"`
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("date must be YYYY-MM-DD")
	}
	return t, nil
}

func createPetHandler(svc *pet.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := Identity(r.Context())
		ownerID, ok := pathID(w, r, "appuserID")
		if !ok {
			return
		}

		var req petRequest
		if err := decodeJSON(r, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}

		params := pet.CreateParams{
			Subtype:           req.Subtype,
			Weight:            req.Weight,
			KnownAllergies:    req.KnownAllergies,
			Medications:       req.Medications,
			SpecialNeeds:      req.SpecialNeeds,
			ProfileBio:        req.ProfileBio,
			ProfilePictureSrc: req.ProfilePictureSrc,
		}
		if req.Name != nil {
			params.Name = *req.Name
		}
		if req.Species != nil {
			params.Species = pet.Species(*req.Species)
		}
		if req.Gender != nil {
			g := pet.Gender(*req.Gender)
			params.Gender = &g
		}
		if req.Birthday != nil {
			b, err := parseDate(*req.Birthday)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
				return
			}
			params.Birthday = &b
		}

		p, err := svc.Create(r.Context(), identity.AppuserID, ownerID, params)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toPetResponse(p))
	}
}

func listPetsHandler(svc *pet.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := pathID(w, r, "appuserID")
		if !ok {
			return
		}

		pets, err := svc.ListByOwner(r.Context(), ownerID)
		if err != nil {
			writeError(w, err)
			return
		}

		out := make([]petResponse, 0, len(pets))
		for _, p := range pets {
			out = append(out, toPetResponse(p))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func getPetHandler(svc *pet.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, "petID")
		if !ok {
			return
		}

		p, err := svc.Get(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toPetResponse(p))
	}
}

func updatePetHandler(svc *pet.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := Identity(r.Context())
		id, ok := pathID(w, r, "petID")
		if !ok {
			return
		}

		var req petRequest
		if err := decodeJSON(r, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}

		params := pet.UpdateParams{
			Name:              req.Name,
			Subtype:           req.Subtype,
			Weight:            req.Weight,
			KnownAllergies:    req.KnownAllergies,
			Medications:       req.Medications,
			SpecialNeeds:      req.SpecialNeeds,
			ProfileBio:        req.ProfileBio,
			ProfilePictureSrc: req.ProfilePictureSrc,
		}
		if req.Species != nil {
			s := pet.Species(*req.Species)
			params.Species = &s
		}
		if req.Gender != nil {
			g := pet.Gender(*req.Gender)
			params.Gender = &g
		}
		if req.Birthday != nil {
			b, err := parseDate(*req.Birthday)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
				return
			}
			params.Birthday = &b
		}

		p, err := svc.Update(r.Context(), identity.AppuserID, id, params)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toPetResponse(p))
	}
}

func deletePetHandler(svc *pet.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := Identity(r.Context())
		id, ok := pathID(w, r, "petID")
		if !ok {
			return
		}

		if err := svc.Delete(r.Context(), identity.AppuserID, id); err != nil {
			writeError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
