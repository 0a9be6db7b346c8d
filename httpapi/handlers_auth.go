package httpapi

import (
	"net/http"

	"petsitter/auth"
)

func signUpHandler(svc *auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req auth.SignUpRequest
		if err := decodeJSON(r, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}

		user, err := svc.SignUp(r.Context(), req)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toAppuserResponse(user))
	}
}

type loginResponse struct {
	Token   string          `json:"token"`
	Appuser appuserResponse `json:"appuser"`
}

func logInHandler(svc *auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req auth.LogInRequest
		if err := decodeJSON(r, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}

		result, err := svc.LogIn(r.Context(), req)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, loginResponse{
			Token:   result.Token,
			Appuser: toAppuserResponse(result.Appuser),
		})
	}
}
