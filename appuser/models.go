package appuser

import "time"

// Language is the account language of an appuser.
type Language string

const (
	LanguageEnglish  Language = "english"
	LanguageJapanese Language = "japanese"
)

// Appuser is the domain representation of the root user record. It mirrors the
// appusers table and carries no JSON annotations so it can be reused by
// different presentation layers.
type Appuser struct {
	ID                string
	Email             string
	PasswordHash      string
	Firstname         *string
	Lastname          *string
	ProfilePictureSrc *string
	Prefecture        *string
	CityWard          *string
	StreetAddress     *string
	PostalCode        *string
	AccountLanguage   Language
	EnglishOK         bool
	JapaneseOK        bool
	IsSitter          bool
	AverageUserRating *float64
	CreatedAt         time.Time
	UpdatedAt         time.Time
	LastLogin         *time.Time
}

// UpdateParams is the patch structure for partial appuser updates. A nil field
// leaves the stored value untouched.
type UpdateParams struct {
	Firstname         *string
	Lastname          *string
	Email             *string
	ProfilePictureSrc *string
	Prefecture        *string
	CityWard          *string
	StreetAddress     *string
	PostalCode        *string
	AccountLanguage   *Language
	EnglishOK         *bool
	JapaneseOK        *bool
}

// IsValidLanguage reports whether l is a known account language.
func IsValidLanguage(l Language) bool {
	switch l {
	case LanguageEnglish, LanguageJapanese:
		return true
	default:
		return false
	}
}
