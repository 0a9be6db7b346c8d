package pet

import "time"

// Species enumerates the animals the marketplace accepts.
type Species string

const (
	SpeciesDog    Species = "dog"
	SpeciesCat    Species = "cat"
	SpeciesBird   Species = "bird"
	SpeciesFish   Species = "fish"
	SpeciesRabbit Species = "rabbit"
)

// Gender of a pet, when declared.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// Pet belongs to exactly one appuser, its owner.
type Pet struct {
	ID                string
	OwnerID           string
	Name              string
	Species           Species
	Subtype           *string
	Gender            *Gender
	Weight            *float64
	Birthday          *time.Time
	KnownAllergies    *string
	Medications       *string
	SpecialNeeds      *string
	ProfileBio        *string
	ProfilePictureSrc *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// CreateParams carries the fields accepted when registering a pet.
type CreateParams struct {
	Name              string
	Species           Species
	Subtype           *string
	Gender            *Gender
	Weight            *float64
	Birthday          *time.Time
	KnownAllergies    *string
	Medications       *string
	SpecialNeeds      *string
	ProfileBio        *string
	ProfilePictureSrc *string
}

// UpdateParams is the patch structure for partial pet updates. A nil field
// leaves the stored value untouched.
type UpdateParams struct {
	Name              *string
	Species           *Species
	Subtype           *string
	Gender            *Gender
	Weight            *float64
	Birthday          *time.Time
	KnownAllergies    *string
	Medications       *string
	SpecialNeeds      *string
	ProfileBio        *string
	ProfilePictureSrc *string
}

// IsValidSpecies reports whether s is a known species.
func IsValidSpecies(s Species) bool {
	switch s {
	case SpeciesDog, SpeciesCat, SpeciesBird, SpeciesFish, SpeciesRabbit:
		return true
	default:
		return false
	}
}

// IsValidGender reports whether g is a known gender.
func IsValidGender(g Gender) bool {
	switch g {
	case GenderMale, GenderFemale:
		return true
	default:
		return false
	}
}
