package httpapi

import (
	"net/http"
	"time"

	"petsitter/sitter"
)

type sitterProfileResponse struct {
	AppuserID         string    `json:"appuser_id"`
	ProfileBio        *string   `json:"profile_bio"`
	BioPictureSrcList []string  `json:"bio_picture_src_list"`
	SitterHouseOK     bool      `json:"sitter_house_ok"`
	OwnerHouseOK      bool      `json:"owner_house_ok"`
	VisitOK           bool      `json:"visit_ok"`
	DogsOK            bool      `json:"dogs_ok"`
	CatsOK            bool      `json:"cats_ok"`
	FishOK            bool      `json:"fish_ok"`
	BirdsOK           bool      `json:"birds_ok"`
	RabbitsOK         bool      `json:"rabbits_ok"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func toSitterProfileResponse(p sitter.Profile) sitterProfileResponse {
	return sitterProfileResponse{
		AppuserID:         p.AppuserID,
		ProfileBio:        p.ProfileBio,
		BioPictureSrcList: p.BioPictureSrcList,
		SitterHouseOK:     p.SitterHouseOK,
		OwnerHouseOK:      p.OwnerHouseOK,
		VisitOK:           p.VisitOK,
		DogsOK:            p.DogsOK,
		CatsOK:            p.CatsOK,
		FishOK:            p.FishOK,
		BirdsOK:           p.BirdsOK,
		RabbitsOK:         p.RabbitsOK,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

type upsertSitterRequest struct {
	ProfileBio        *string  `json:"profile_bio"`
	BioPictureSrcList []string `json:"bio_picture_src_list"`
	SitterHouseOK     *bool    `json:"sitter_house_ok"`
	OwnerHouseOK      *bool    `json:"owner_house_ok"`
	VisitOK           *bool    `json:"visit_ok"`
	DogsOK            *bool    `json:"dogs_ok"`
	CatsOK            *bool    `json:"cats_ok"`
	FishOK            *bool    `json:"fish_ok"`
	BirdsOK           *bool    `json:"birds_ok"`
	RabbitsOK         *bool    `json:"rabbits_ok"`
}

func getSitterHandler(svc *sitter.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, "appuserID")
		if !ok {
			return
		}

		profile, err := svc.Get(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toSitterProfileResponse(profile))
	}
}

func upsertSitterHandler(svc *sitter.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := Identity(r.Context())
		id, ok := pathID(w, r, "appuserID")
		if !ok {
			return
		}

		var req upsertSitterRequest
		if err := decodeJSON(r, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}

		profile, err := svc.Upsert(r.Context(), identity.AppuserID, id, sitter.UpsertParams{
			ProfileBio:        req.ProfileBio,
			BioPictureSrcList: req.BioPictureSrcList,
			SitterHouseOK:     req.SitterHouseOK,
			OwnerHouseOK:      req.OwnerHouseOK,
			VisitOK:           req.VisitOK,
			DogsOK:            req.DogsOK,
			CatsOK:            req.CatsOK,
			FishOK:            req.FishOK,
			BirdsOK:           req.BirdsOK,
			RabbitsOK:         req.RabbitsOK,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toSitterProfileResponse(profile))
	}
}

type extendedResponse struct {
	Appuser appuserResponse        `json:"appuser"`
	Sitter  *sitterProfileResponse `json:"sitter"`
}

func getExtendedHandler(svc *sitter.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, "appuserID")
		if !ok {
			return
		}

		ext, err := svc.GetExtended(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}

		resp := extendedResponse{Appuser: toAppuserResponse(ext.Appuser)}
		if ext.Profile != nil {
			p := toSitterProfileResponse(*ext.Profile)
			resp.Sitter = &p
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

type listingResponse struct {
	Sitter  sitterProfileResponse `json:"sitter"`
	Appuser appuserResponse       `json:"appuser"`
}

func findSittersHandler(svc *sitter.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		filters := sitter.SearchFilters{
			Prefecture:    q.Get("prefecture"),
			CityWard:      q.Get("city_ward"),
			SitterHouseOK: q.Get("sitter_house_ok") == "true",
			OwnerHouseOK:  q.Get("owner_house_ok") == "true",
			VisitOK:       q.Get("visit_ok") == "true",
			DogsOK:        q.Get("dogs_ok") == "true",
			CatsOK:        q.Get("cats_ok") == "true",
			FishOK:        q.Get("fish_ok") == "true",
			BirdsOK:       q.Get("birds_ok") == "true",
			RabbitsOK:     q.Get("rabbits_ok") == "true",
		}

		listings, err := svc.FindSitters(r.Context(), filters)
		if err != nil {
			writeError(w, err)
			return
		}

		out := make([]listingResponse, 0, len(listings))
		for _, l := range listings {
			out = append(out, listingResponse{
				Sitter:  toSitterProfileResponse(l.Profile),
				Appuser: toAppuserResponse(l.Appuser),
			})
		}

		writeJSON(w, http.StatusOK, out)
	}
}
