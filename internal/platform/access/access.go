// Copyright (c) 2026 Innkeep. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package access is the single authorization gate of the platform.

Every service operation receives an explicit [Principal] and asks the gate
before touching storage. The gate is a pure predicate over (principal, action,
resource): it never performs I/O, so services load the resource's owning
guesthouse first and pass its manager into [Resource].

Rules:

  - Admins may perform every action.
  - Managers may list and view guesthouses and rooms, and act on rooms, photos
    and availability, only where the owning guesthouse names them as manager.
  - Guesthouse create/update/delete and account administration are admin only.
  - A nil principal is never allowed and maps to Unauthorized.
*/
package access

import (
	"github.com/taibuivan/innkeep/internal/platform/apperr"
	"github.com/taibuivan/innkeep/internal/platform/sec"
)

// Principal is the authenticated identity an operation runs on behalf of.
type Principal struct {
	ID    string
	Email string
	Role  sec.UserRole
}

// IsAdmin reports whether the principal holds the admin role.
func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == sec.RoleAdmin
}

// Action names an operation subject to authorization.
type Action string

const (
	ListGuesthouses  Action = "guesthouse:list"
	ViewGuesthouse   Action = "guesthouse:view"
	CreateGuesthouse Action = "guesthouse:create"
	UpdateGuesthouse Action = "guesthouse:update"
	DeleteGuesthouse Action = "guesthouse:delete"

	ListRooms  Action = "room:list"
	ViewRoom   Action = "room:view"
	CreateRoom Action = "room:create"
	UpdateRoom Action = "room:update"
	DeleteRoom Action = "room:delete"

	ReadAvailability   Action = "availability:read"
	UpdateAvailability Action = "availability:update"

	ListPhotos  Action = "photo:list"
	UploadPhoto Action = "photo:upload"
	EditPhoto   Action = "photo:edit"
	DeletePhoto Action = "photo:delete"

	ManageUsers   Action = "user:manage"
	ViewDashboard Action = "dashboard:view"
)

// Resource describes the target of an action for ownership checks.
//
// ManagerID is the manager of the guesthouse that owns the target (the
// guesthouse itself, or the guesthouse of a room or photo). A zero Resource
// means a collection-level action.
type Resource struct {
	ManagerID *string
}

// Owned builds a [Resource] for a target whose guesthouse is managed by managerID.
func Owned(managerID *string) Resource {
	return Resource{ManagerID: managerID}
}

// managedBy reports whether the principal manages the resource's guesthouse.
func (r Resource) managedBy(p *Principal) bool {
	return r.ManagerID != nil && *r.ManagerID == p.ID
}

// # Decisions

// Can reports whether principal may perform action on resource.
func Can(principal *Principal, action Action, resource Resource) bool {
	if principal == nil || !principal.Role.Valid() {
		return false
	}

	if principal.IsAdmin() {
		return true
	}

	switch action {
	// Collection reads are allowed and narrowed by [Scope].
	case ListGuesthouses, ListRooms, ViewDashboard:
		return true

	case CreateGuesthouse, UpdateGuesthouse, DeleteGuesthouse, ManageUsers:
		return false

	case ViewGuesthouse,
		ViewRoom, CreateRoom, UpdateRoom, DeleteRoom,
		ReadAvailability, UpdateAvailability,
		ListPhotos, UploadPhoto, EditPhoto, DeletePhoto:
		return resource.managedBy(principal)
	}

	return false
}

// Check is [Can] expressed as an error: Unauthorized for an anonymous caller,
// Forbidden for a denied one.
func Check(principal *Principal, action Action, resource Resource) error {
	if principal == nil {
		return apperr.Unauthorized("Authentication required")
	}

	if !Can(principal, action, resource) {
		return apperr.Forbidden("You do not have permission to perform this action")
	}

	return nil
}

// Authenticated fails with Unauthorized when no principal is present. Services
// call it before loading a resource so anonymous callers learn nothing about
// existence.
func Authenticated(principal *Principal) error {
	if principal == nil {
		return apperr.Unauthorized("Authentication required")
	}
	return nil
}

// Scope returns the manager filter list queries must apply for principal:
// nil for admins (no filter), the principal's own id for managers.
func Scope(principal *Principal) *string {
	if principal == nil || principal.IsAdmin() {
		return nil
	}
	id := principal.ID
	return &id
}

// ScopeKey renders [Scope] as a stable cache-key segment.
func ScopeKey(principal *Principal) string {
	if scope := Scope(principal); scope != nil {
		return "manager-" + *scope
	}
	return "all"
}
