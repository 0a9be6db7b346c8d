package review

import "time"

// Role is the capacity in which the recipient is being reviewed.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleSitter Role = "sitter"
)

// Review is an append-only rating of one appuser by another.
type Review struct {
	ID          string
	AuthorID    string
	RecipientID string
	Role        Role
	Score       int
	Comment     *string
	CreatedAt   time.Time
}

// CreateParams carries the fields accepted when submitting a review.
type CreateParams struct {
	RecipientID string
	Role        Role
	Score       int
	Comment     *string
}

// IsValidRole reports whether r is a known role.
func IsValidRole(r Role) bool {
	switch r {
	case RoleOwner, RoleSitter:
		return true
	default:
		return false
	}
}
