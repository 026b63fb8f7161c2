package constants

import "smart-delivery/models/user"

// Keys shared by the auth middleware and the controllers.
const (
	LocalsClaims = "user"
	AccessCookie = "access"
	BearerPrefix = "Bearer"
)

// Role groups for route guards.
var (
	AdminOnly  = []user.Role{user.RoleAdmin}
	DriverOnly = []user.Role{user.RoleDriver}
	AnyRole    = []user.Role{user.RoleAdmin, user.RoleDriver}
)
