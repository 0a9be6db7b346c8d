package messaging

import "time"

// Message is one entry of an inquiry's persistent message history.
type Message struct {
	ID          string
	InquiryID   string
	AuthorID    string
	RecipientID string
	Content     string
	SentAt      time.Time
}

// Event is the wire shape broadcast to live channels when a message is
// created. The realtime channel carries no history; clients fetch it
// separately on (re)connect.
type Event struct {
	InquiryID   string    `json:"inquiry_id"`
	MessageID   string    `json:"message_id"`
	AuthorID    string    `json:"author_id"`
	RecipientID string    `json:"recipient_id"`
	Content     string    `json:"content"`
	SentAt      time.Time `json:"sent_at"`
}
