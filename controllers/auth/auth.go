package auth

import (
	"os"

	"smart-delivery/constants"
	"smart-delivery/logger"
	"smart-delivery/middleware"
	authService "smart-delivery/services/auth"
	"smart-delivery/types"
	authTypes "smart-delivery/types/auth"
	"smart-delivery/utils"

	"github.com/gofiber/fiber/v2"
)

type AuthController struct {
	auth *authService.Service
}

func NewAuthController(service *authService.Service) *AuthController {
	return &AuthController{auth: service}
}

// Helper function to set secure cookies based on environment
func (h *AuthController) setSecureCookie(c *fiber.Ctx, name, value string, maxAge int) {
	isProduction := os.Getenv("APP_ENV") == "production"

	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    value,
		HTTPOnly: true,
		Secure:   isProduction,
		SameSite: "Strict",
		MaxAge:   maxAge,
		Path:     "/",
	})
}

func (h *AuthController) respondWithToken(c *fiber.Ctx, message, token string, identity interface{}) error {
	h.setSecureCookie(c, constants.AccessCookie, token, int(h.auth.TokenTTL.Seconds()))
	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message: message,
		Status:  fiber.StatusOK,
		Token:   token,
		Data:    identity,
	})
}

// Login authenticates a user and issues an access token
func (h *AuthController) Login(c *fiber.Ctx) error {
	var req authTypes.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Error parsing request body", err)
		return utils.RespondError(c, types.Validation("Invalid request body"))
	}
	if err := req.Validate(); err != nil {
		return utils.RespondError(c, err)
	}

	token, u, err := h.auth.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return utils.RespondError(c, err)
	}

	message := "Login successful"
	if u.MustChangePassword {
		message = "Login successful, password change required"
	}
	return h.respondWithToken(c, message, token, u.Identity())
}

// ChangePassword replaces the caller's password and issues a fresh token
func (h *AuthController) ChangePassword(c *fiber.Ctx) error {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		return utils.RespondError(c, &types.AppError{Kind: types.KindUnauthorized, Message: "Invalid user claims"})
	}

	var req authTypes.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Error parsing request body", err)
		return utils.RespondError(c, types.Validation("Invalid request body"))
	}
	if err := req.Validate(); err != nil {
		return utils.RespondError(c, err)
	}

	u, err := h.auth.ChangePassword(c.UserContext(), claims.UserID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		return utils.RespondError(c, err)
	}
	token, err := h.auth.IssueToken(u)
	if err != nil {
		return utils.RespondError(c, err)
	}

	logger.Success("Password changed for " + u.Username)
	return h.respondWithToken(c, "Password changed successfully", token, u.Identity())
}

// Profile returns the authenticated account
func (h *AuthController) Profile(c *fiber.Ctx) error {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		return utils.RespondError(c, &types.AppError{Kind: types.KindUnauthorized, Message: "Invalid user claims"})
	}

	u, err := h.auth.Profile(c.UserContext(), claims.UserID)
	if err != nil {
		return utils.RespondError(c, err)
	}
	return utils.Respond(c, fiber.StatusOK, "Profile retrieved successfully", u)
}
