package auth

import "github.com/worktrack/worktrack-api/internal/core/domain"

// Authorization policy: pure decision functions consulted at the start of
// every protected service operation, before any mutation or disclosure. A
// false result surfaces as domain.ErrAccessDenied at the call site, never as
// an empty result.

// CanReadUser allows admins and the account owner.
func CanReadUser(actx *Context, targetID string) bool {
	return isAdmin(actx) || isSelf(actx, targetID)
}

// CanUpdateUser allows admins and the account owner.
func CanUpdateUser(actx *Context, targetID string) bool {
	return isAdmin(actx) || isSelf(actx, targetID)
}

// CanDeleteUser allows admins and the account owner.
func CanDeleteUser(actx *Context, targetID string) bool {
	return isAdmin(actx) || isSelf(actx, targetID)
}

// CanListUsers allows admins only.
func CanListUsers(actx *Context) bool {
	return isAdmin(actx)
}

// CanSearchUsers allows admins only.
func CanSearchUsers(actx *Context) bool {
	return isAdmin(actx)
}

// CanCreateProject allows admins and managers.
func CanCreateProject(actx *Context) bool {
	return isAdmin(actx) || actx.HasRole(domain.RoleManager)
}

// CanDeleteProject allows admins and the project owner.
func CanDeleteProject(actx *Context, ownerID string) bool {
	return isAdmin(actx) || isSelf(actx, ownerID)
}

func isAdmin(actx *Context) bool {
	return actx.HasRole(domain.RoleAdmin)
}

func isSelf(actx *Context, targetID string) bool {
	id, err := actx.CurrentUserID()
	return err == nil && targetID != "" && id == targetID
}
