package availability

import "time"

// Availability is a single date a sitter declares as available. At most one
// row exists per (appuser, date).
type Availability struct {
	ID        string
	AppuserID string
	Date      time.Time
	CreatedAt time.Time
}
