package core

import "stafflow.com/stafflow/model"

// Authorize checks the caller's role against the roles allowed for an
// operation. Services call it at the top of admin-only operations so the
// check stays orthogonal to the business logic below it.
func Authorize(callerRole model.Role, allowed ...model.Role) error {
	for _, r := range allowed {
		if callerRole == r {
			return nil
		}
	}
	return ErrForbidden
}

// IsAdmin reports whether the role may review leave and edit attendance.
func IsAdmin(role model.Role) bool {
	return role == model.RoleLabAdmin || role == model.RoleSuperAdmin
}
