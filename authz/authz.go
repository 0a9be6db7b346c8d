// Package authz holds the authorization checks shared by the domain services.
// Record absence is always reported by callers as a not-found error before any
// of these checks run, so a failure here only ever means the caller is not the
// resource's owner or party.
package authz

import "errors"

// ErrForbidden signals the caller is not allowed to act on the resource.
var ErrForbidden = errors.New("authz: forbidden")

// RequireSelf permits the action only when the caller is the appuser that owns
// the resource.
func RequireSelf(callerID, ownerID string) error {
	if callerID == "" || callerID != ownerID {
		return ErrForbidden
	}
	return nil
}

// RequireParty permits the action only when the caller is one of the two
// parties of an inquiry.
func RequireParty(callerID, ownerID, sitterID string) error {
	if callerID == "" {
		return ErrForbidden
	}
	if callerID != ownerID && callerID != sitterID {
		return ErrForbidden
	}
	return nil
}
