package sitter

import (
	"time"

	"petsitter/appuser"
)

// Profile is the 1:1 sitter extension of an appuser. Capability flags describe
// which animals the sitter accepts and where the service can take place.
type Profile struct {
	AppuserID         string
	ProfileBio        *string
	BioPictureSrcList []string
	SitterHouseOK     bool
	OwnerHouseOK      bool
	VisitOK           bool
	DogsOK            bool
	CatsOK            bool
	FishOK            bool
	BirdsOK           bool
	RabbitsOK         bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// UpsertParams is the patch structure for sitter profile upserts. A nil field
// leaves the stored value untouched; on first upsert unset flags default to
// false.
type UpsertParams struct {
	ProfileBio        *string
	BioPictureSrcList []string
	SitterHouseOK     *bool
	OwnerHouseOK      *bool
	VisitOK           *bool
	DogsOK            *bool
	CatsOK            *bool
	FishOK            *bool
	BirdsOK           *bool
	RabbitsOK         *bool
}

// SearchFilters narrows the sitter search. Prefecture is mandatory; only
// capability flags set to true join the conjunctive filter.
type SearchFilters struct {
	Prefecture    string
	CityWard      string
	SitterHouseOK bool
	OwnerHouseOK  bool
	VisitOK       bool
	DogsOK        bool
	CatsOK        bool
	FishOK        bool
	BirdsOK       bool
	RabbitsOK     bool
}

// Listing pairs a matching sitter profile with its appuser record.
type Listing struct {
	Profile Profile
	Appuser appuser.Appuser
}

// Extended joins an appuser with its sitter profile; Profile is nil when the
// user never became a sitter.
type Extended struct {
	Appuser appuser.Appuser
	Profile *Profile
}
