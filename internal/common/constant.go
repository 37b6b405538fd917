// Package common contains shared constants and sentinel errors used across
// civicwatch components.
package common

// AccessTokenKey is the storage key under which the bearer token is persisted.
const AccessTokenKey = "access_token"

// SavedAtKey records when the current token was stored.
const SavedAtKey = "access_token_saved_at"

// Role names as reported by the backend in the role_name profile field and
// the role token claim.
const (
	RoleUser    = "user"
	RoleCMAdmin = "cm_admin"
	RoleCAdmin  = "c_admin"
)

// Complaint statuses understood by the backend's status_filter parameter.
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusSolved     = "solved"
)

// FilterAll is the sentinel filter value meaning "do not filter".
const FilterAll = "all"

// IsAdminRole reports whether role is one of the administrative tiers.
func IsAdminRole(role string) bool {
	return role == RoleCMAdmin || role == RoleCAdmin
}
