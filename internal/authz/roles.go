package authz

import "projecthub/internal/models"

// IsElevated reports whether the role may invite members and set elevated
// goal statuses.
func IsElevated(role models.Role) bool {
	return role == models.RoleAdmin || role == models.RoleEditor
}
