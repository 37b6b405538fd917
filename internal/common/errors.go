// Package common defines shared constants and sentinel errors used across
// client layers of civicwatch. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Session errors.
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrPasswordMismatch = errors.New("passwords do not match")

	// Input errors.
	ErrMissingComplaintID = errors.New("missing complaint id")
	ErrInvalidComplaintID = errors.New("invalid complaint id")
)
