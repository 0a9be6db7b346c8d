package httpapi

import (
	"net/http"
	"time"

	"petsitter/review"
)

type reviewResponse struct {
	ID          string    `json:"id"`
	AuthorID    string    `json:"author_id"`
	RecipientID string    `json:"recipient_id"`
	Role        string    `json:"role"`
	Score       int       `json:"score"`
	Comment     *string   `json:"comment"`
	CreatedAt   time.Time `json:"created_at"`
}

func toReviewResponse(rev review.Review) reviewResponse {
	return reviewResponse{
		ID:          rev.ID,
		AuthorID:    rev.AuthorID,
		RecipientID: rev.RecipientID,
		Role:        string(rev.Role),
		Score:       rev.Score,
		Comment:     rev.Comment,
		CreatedAt:   rev.CreatedAt,
	}
}

type recordReviewRequest struct {
	Role    string  `json:"role"`
	Score   int     `json:"score"`
	Comment *string `json:"comment"`
}

type recordReviewResponse struct {
	Review        reviewResponse `json:"review"`
	AverageRating float64        `json:"average_user_rating"`
}

func recordReviewHandler(svc *review.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := Identity(r.Context())
		recipientID, ok := pathID(w, r, "appuserID")
		if !ok {
			return
		}

		var req recordReviewRequest
		if err := decodeJSON(r, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}

		result, err := svc.Record(r.Context(), identity.AppuserID, review.CreateParams{
			RecipientID: recipientID,
			Role:        review.Role(req.Role),
			Score:       req.Score,
			Comment:     req.Comment,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, recordReviewResponse{
			Review:        toReviewResponse(result.Review),
			AverageRating: result.AverageRating,
		})
	}
}

func listReviewsHandler(svc *review.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recipientID, ok := pathID(w, r, "appuserID")
		if !ok {
			return
		}

		reviews, err := svc.ListForRecipient(r.Context(), recipientID)
		if err != nil {
			writeError(w, err)
			return
		}

		out := make([]reviewResponse, 0, len(reviews))
		for _, rev := range reviews {
			out = append(out, toReviewResponse(rev))
		}

		writeJSON(w, http.StatusOK, out)
	}
}
