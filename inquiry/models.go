package inquiry

import (
	"time"

	"petsitter/pet"
)

// Status is the lifecycle state of an inquiry. It leaves StatusRequested
// exactly once, to either terminal state, stamping FinalizedAt at that moment.
type Status string

const (
	StatusRequested Status = "requested"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
)

// ServiceKind is where the pet care takes place.
type ServiceKind string

const (
	ServiceOwnerHouse  ServiceKind = "owner_house"
	ServiceSitterHouse ServiceKind = "sitter_house"
	ServiceVisit       ServiceKind = "visit"
)

// Inquiry is a proposed pet-care engagement between an owner and a sitter.
type Inquiry struct {
	ID             string
	OwnerID        string
	SitterID       string
	Status         Status
	StartDate      time.Time
	EndDate        time.Time
	DesiredService ServiceKind
	AdditionalInfo *string
	PetIDs         []string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	FinalizedAt    *time.Time
}

// CreateParams carries the fields accepted when opening an inquiry.
type CreateParams struct {
	OwnerID        string
	SitterID       string
	StartDate      time.Time
	EndDate        time.Time
	DesiredService ServiceKind
	PetIDs         []string
	AdditionalInfo *string
}

// ContentUpdateParams is the patch structure for content edits on an inquiry
// that has not been finalized. A nil field leaves the stored value untouched;
// a non-nil PetIDs replaces the attached pet set.
type ContentUpdateParams struct {
	StartDate      *time.Time
	EndDate        *time.Time
	DesiredService *ServiceKind
	AdditionalInfo *string
	PetIDs         []string
}

// PetResolution is the partial-success result of resolving an inquiry's
// attached pet ids: pets that still exist alongside ids that no longer do.
type PetResolution struct {
	Pets       []pet.Pet
	MissingIDs []string
}

// IsValidService reports whether k is a known service kind.
func IsValidService(k ServiceKind) bool {
	switch k {
	case ServiceOwnerHouse, ServiceSitterHouse, ServiceVisit:
		return true
	default:
		return false
	}
}
