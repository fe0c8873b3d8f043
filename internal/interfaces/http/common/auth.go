package common

import "context"

type contextKey string

const authUserContextKey contextKey = "authUser"

// RoleSuperAdmin may perform destructive operations like forced deletes.
const RoleSuperAdmin = "super_admin"

// AuthenticatedUser represents the JWT-derived principal.
type AuthenticatedUser struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
	Role string `json:"role,omitempty"`
}

// IsSuperAdmin reports whether the principal holds the super admin role.
func (u AuthenticatedUser) IsSuperAdmin() bool {
	return u.Role == RoleSuperAdmin
}

// ContextWithUser stores the authenticated user into context.
func ContextWithUser(ctx context.Context, user AuthenticatedUser) context.Context {
	return context.WithValue(ctx, authUserContextKey, user)
}

// UserFromContext extracts the authenticated user from context.
func UserFromContext(ctx context.Context) (AuthenticatedUser, bool) {
	user, ok := ctx.Value(authUserContextKey).(AuthenticatedUser)
	return user, ok
}
