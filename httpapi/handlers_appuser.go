package httpapi

import (
	"net/http"
	"time"

	"petsitter/appuser"
)

// appuserResponse is the wire shape of an appuser. The password hash never
// leaves the service layer.
type appuserResponse struct {
	ID                string     `json:"id"`
	Email             string     `json:"email"`
	Firstname         *string    `json:"firstname"`
	Lastname          *string    `json:"lastname"`
	ProfilePictureSrc *string    `json:"profile_picture_src"`
	Prefecture        *string    `json:"prefecture"`
	CityWard          *string    `json:"city_ward"`
	StreetAddress     *string    `json:"street_address"`
	PostalCode        *string    `json:"postal_code"`
	AccountLanguage   string     `json:"account_language"`
	EnglishOK         bool       `json:"english_ok"`
	JapaneseOK        bool       `json:"japanese_ok"`
	IsSitter          bool       `json:"is_sitter"`
	AverageUserRating *float64   `json:"average_user_rating"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
	LastLogin         *time.Time `json:"last_login"`
}

func toAppuserResponse(u appuser.Appuser) appuserResponse {
	return appuserResponse{
		ID:                u.ID,
		Email:             u.Email,
		Firstname:         u.Firstname,
		Lastname:          u.Lastname,
		ProfilePictureSrc: u.ProfilePictureSrc,
		Prefecture:        u.Prefecture,
		CityWard:          u.CityWard,
		StreetAddress:     u.StreetAddress,
		PostalCode:        u.PostalCode,
		AccountLanguage:   string(u.AccountLanguage),
		EnglishOK:         u.EnglishOK,
		JapaneseOK:        u.JapaneseOK,
		IsSitter:          u.IsSitter,
		AverageUserRating: u.AverageUserRating,
		CreatedAt:         u.CreatedAt,
		UpdatedAt:         u.UpdatedAt,
		LastLogin:         u.LastLogin,
	}
}

type updateAppuserRequest struct {
	Firstname         *string `json:"firstname"`
	Lastname          *string `json:"lastname"`
	Email             *string `json:"email"`
	ProfilePictureSrc *string `json:"profile_picture_src"`
	Prefecture        *string `json:"prefecture"`
	CityWard          *string `json:"city_ward"`
	StreetAddress     *string `json:"street_address"`
	PostalCode        *string `json:"postal_code"`
	AccountLanguage   *string `json:"account_language"`
	EnglishOK         *bool   `json:"english_ok"`
	JapaneseOK        *bool   `json:"japanese_ok"`
}

func getAppuserHandler(svc *appuser.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, "appuserID")
		if !ok {
			return
		}

		user, err := svc.Get(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAppuserResponse(user))
	}
}

func updateAppuserHandler(svc *appuser.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := Identity(r.Context())
		id, ok := pathID(w, r, "appuserID")
		if !ok {
			return
		}

		var req updateAppuserRequest
		if err := decodeJSON(r, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}

		params := appuser.UpdateParams{
			Firstname:         req.Firstname,
			Lastname:          req.Lastname,
			Email:             req.Email,
			ProfilePictureSrc: req.ProfilePictureSrc,
			Prefecture:        req.Prefecture,
			CityWard:          req.CityWard,
			StreetAddress:     req.StreetAddress,
			PostalCode:        req.PostalCode,
			EnglishOK:         req.EnglishOK,
			JapaneseOK:        req.JapaneseOK,
		}
		if req.AccountLanguage != nil {
			lang := appuser.Language(*req.AccountLanguage)
			params.AccountLanguage = &lang
		}

		user, err := svc.Update(r.Context(), identity.AppuserID, id, params)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toAppuserResponse(user))
	}
}
