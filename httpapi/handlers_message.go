package httpapi

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"petsitter/messaging"
)

type messageResponse struct {
	ID          string    `json:"id"`
	InquiryID   string    `json:"inquiry_id"`
	AuthorID    string    `json:"author_id"`
	RecipientID string    `json:"recipient_id"`
	Content     string    `json:"content"`
	SentAt      time.Time `json:"sent_at"`
}

func toMessageResponse(m messaging.Message) messageResponse {
	return messageResponse{
		ID:          m.ID,
		InquiryID:   m.InquiryID,
		AuthorID:    m.AuthorID,
		RecipientID: m.RecipientID,
		Content:     m.Content,
		SentAt:      m.SentAt,
	}
}

type createMessageRequest struct {
	Content string `json:"content"`
}

func createMessageHandler(svc *messaging.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := Identity(r.Context())
		inquiryID, ok := pathID(w, r, "inquiryID")
		if !ok {
			return
		}

		var req createMessageRequest
		if err := decodeJSON(r, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}

		msg, err := svc.Create(r.Context(), identity.AppuserID, inquiryID, req.Content)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toMessageResponse(msg))
	}
}

func listMessagesHandler(svc *messaging.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := Identity(r.Context())
		inquiryID, ok := pathID(w, r, "inquiryID")
		if !ok {
			return
		}

		msgs, err := svc.List(r.Context(), identity.AppuserID, inquiryID)
		if err != nil {
			writeError(w, err)
			return
		}

		out := make([]messageResponse, 0, len(msgs))
		for _, m := range msgs {
			out = append(out, toMessageResponse(m))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

// messageChannelHandler upgrades the request to a WebSocket and joins the
// caller to the inquiry's live channel. Incoming frames are {"content": ...}
// payloads; each one is persisted and fanned out through the hub, so the
// sender receives their own message back as the delivery acknowledgement.
func messageChannelHandler(svc *messaging.Service, hub *messaging.Hub, allowedOrigin string) http.HandlerFunc {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if allowedOrigin == "" {
				return true
			}
			origin := r.Header.Get("Origin")
			return origin == "" || origin == allowedOrigin
		},
	}

	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := Identity(r.Context())
		inquiryID, ok := pathID(w, r, "inquiryID")
		if !ok {
			return
		}

		if err := svc.Authorize(r.Context(), identity.AppuserID, inquiryID); err != nil {
			writeError(w, err)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			// Upgrade already wrote the handshake failure response.
			log.Printf("httpapi: websocket upgrade for inquiry %s: %v", inquiryID, err)
			return
		}

		// All writes to the connection go through ch so broadcasts from the
		// hub and error reports from this loop cannot interleave.
		ch := messaging.NewSyncConn(conn)
		hub.Connect(inquiryID, ch)
		defer func() {
			hub.Disconnect(inquiryID, ch)
			_ = ch.Close()
		}()

		for {
			var frame createMessageRequest
			if err := conn.ReadJSON(&frame); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Printf("httpapi: websocket read for inquiry %s: %v", inquiryID, err)
				}
				return
			}

			if _, err := svc.Create(r.Context(), identity.AppuserID, inquiryID, frame.Content); err != nil {
				// Report the failure on the channel itself rather than
				// tearing the connection down.
				_ = ch.WriteJSON(errorResponse{Error: err.Error()})
			}
		}
	}
}
