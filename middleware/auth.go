package middleware

import (
	"slices"
	"strings"

	"smart-delivery/constants"
	"smart-delivery/models/user"
	"smart-delivery/services/auth"
	"smart-delivery/types"
	"smart-delivery/utils"

	"github.com/gofiber/fiber/v2"
)

// RequireRoles is a helper function that creates a middleware allowing only
// the given roles. Accounts that still use a provisional password are refused.
func RequireRoles(authService *auth.Service, roles ...user.Role) fiber.Handler {
	return IsAuthenticated(authService, roles, false)
}

// RequireAuthentication only requires a valid token. It also admits accounts
// that must change their password, so it guards the password change itself.
func RequireAuthentication(authService *auth.Service) fiber.Handler {
	return IsAuthenticated(authService, constants.AnyRole, true)
}

// IsAuthenticated is a middleware that checks for a valid JWT token in the
// Authorization header or the access cookie.
func IsAuthenticated(authService *auth.Service, roles []user.Role, allowPendingPassword bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := extractToken(c)
		if err != nil {
			return utils.RespondError(c, err)
		}

		claims, err := authService.ParseToken(token)
		if err != nil {
			return utils.RespondError(c, err)
		}
		if claims.Username == "" || claims.UserID == 0 {
			return utils.RespondError(c, &types.AppError{Kind: types.KindUnauthorized, Message: "Session expired. Login again."})
		}

		if !slices.Contains(roles, claims.Role) {
			return utils.RespondError(c, types.Forbidden("Insufficient permissions"))
		}
		if claims.MustChangePassword && !allowPendingPassword {
			return utils.RespondError(c, types.Forbidden("Password change required before continuing"))
		}

		c.Locals(constants.LocalsClaims, claims)
		return c.Next()
	}
}

func extractToken(c *fiber.Ctx) (string, error) {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		if token := c.Cookies(constants.AccessCookie); token != "" {
			return token, nil
		}
		return "", &types.AppError{Kind: types.KindUnauthorized, Message: "Authorization token missing"}
	}

	tokenParts := strings.Split(authHeader, " ")
	if len(tokenParts) != 2 || tokenParts[0] != constants.BearerPrefix || tokenParts[1] == "" {
		return "", &types.AppError{Kind: types.KindUnauthorized, Message: "Invalid authorization header format"}
	}
	return tokenParts[1], nil
}

// CurrentClaims returns the claims stored by IsAuthenticated.
func CurrentClaims(c *fiber.Ctx) (*auth.Claims, bool) {
	claims, ok := c.Locals(constants.LocalsClaims).(*auth.Claims)
	return claims, ok && claims != nil
}

// CurrentUserID returns the id of the authenticated user, or nil.
func CurrentUserID(c *fiber.Ctx) *uint {
	claims, ok := CurrentClaims(c)
	if !ok {
		return nil
	}
	id := claims.UserID
	return &id
}
