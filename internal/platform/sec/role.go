// Copyright (c) 2026 Innkeep. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// # User Roles

// UserRole represents the authorization level granted to an account.
type UserRole string

const (
	// Unrestricted access to every guesthouse and to account administration
	RoleAdmin UserRole = "admin"

	// Operates the guesthouses assigned to them
	RoleManager UserRole = "manager"
)

// Roles lists every assignable role in ascending privilege.
var Roles = []UserRole{RoleManager, RoleAdmin}

// Valid reports whether r is one of the known roles.
func (r UserRole) Valid() bool {
	return r.level() > 0
}

// String implements [fmt.Stringer].
func (r UserRole) String() string { return string(r) }

// # Role Hierarchy

// AtLeast checks if the current role meets or exceeds the required target role.
func (r UserRole) AtLeast(target UserRole) bool {
	return r.level() >= target.level() && r.level() > 0
}

// level maps a role to a numeric hierarchy level for comparison logic.
func (r UserRole) level() int {
	switch r {
	case RoleAdmin:
		return 20
	case RoleManager:
		return 10
	default:
		return 0
	}
}
