package utils

import (
	"strings"
)

const (
	RoleAdmin = "admin"
	RoleOwner = "owner"
	RoleStaff = "staff"
)

var ValidUserRoles = map[string]bool{
	RoleAdmin: true,
	RoleOwner: true,
	RoleStaff: true,
}

// ValidateAndNormalizeRole validates and normalizes a role string.
// Returns the normalized role (lowercase) and a boolean indicating if it's valid.
func ValidateAndNormalizeRole(role string) (string, bool) {
	normalized := strings.ToLower(strings.TrimSpace(role))
	return normalized, ValidUserRoles[normalized]
}

// CanViewInsights reports whether a role may read a restaurant's analytics.
func CanViewInsights(role string) bool {
	normalized, ok := ValidateAndNormalizeRole(role)
	return ok && (normalized == RoleOwner || normalized == RoleAdmin)
}
