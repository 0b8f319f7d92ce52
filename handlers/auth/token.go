package auth

import (
	"time"

	"github.com/fedpoffa/cbt-api/model"
	authutil "github.com/fedpoffa/cbt-api/utils/auth"
	"github.com/fedpoffa/cbt-api/utils/middleware"
	"github.com/fedpoffa/cbt-api/utils/response"
	"github.com/gofiber/fiber/v2"
)

// RefreshRequest represents a token refresh request
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshResponse carries the new access token. Refresh tokens are not
// rotated; the presented one stays valid until it expires.
type RefreshResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// RefreshToken handles token refresh
func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	var req RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.RefreshToken == "" {
		return response.BadRequest(c, "Refresh token is required")
	}

	claims, err := h.jwtManager.VerifyToken(req.RefreshToken, authutil.TokenTypeRefresh)
	if err != nil {
		return response.Unauthorized(c, "Invalid or expired refresh token")
	}

	// Check the revocation set
	isRevoked, err := h.blacklistService.IsTokenRevoked(c.Context(), claims.ID)
	if err != nil {
		return response.InternalServerError(c, "Failed to check token status")
	}
	if isRevoked {
		return response.Unauthorized(c, "Token has been revoked")
	}

	// The principal must still exist and be active
	var user model.User
	if err := h.db.First(&user, claims.UserID).Error; err != nil {
		return response.Unauthorized(c, "User not found")
	}

	if !user.IsActive {
		return response.Unauthorized(c, "Account is deactivated")
	}

	if user.TokenVersion != claims.TokenVersion {
		return response.Unauthorized(c, "Token has been invalidated")
	}

	newAccessToken, _, err := h.jwtManager.GenerateAccessToken(&user)
	if err != nil {
		return response.InternalServerError(c, "Failed to generate access token")
	}

	res := RefreshResponse{
		AccessToken: newAccessToken,
		TokenType:   "bearer",
		ExpiresIn:   int(h.jwtManager.AccessTokenTTL().Seconds()),
	}

	return response.Success(c, res)
}

// Logout handles user logout by adding the presented token to the
// revocation set
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	jti, ok := middleware.GetTokenJTI(c)
	if !ok {
		return response.BadRequest(c, "No token ID found")
	}

	// Get token expiry so the blacklist entry can be pruned once the
	// token would have died anyway
	authHeader := c.Get("Authorization")
	tokenString := ""
	if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
		tokenString = authHeader[7:]
	}

	expiresAt := time.Now().Add(h.jwtManager.AccessTokenTTL())
	if tokenString != "" {
		if exp, err := h.jwtManager.GetTokenExpiry(tokenString); err == nil {
			expiresAt = exp
		}
	}

	if err := h.blacklistService.RevokeToken(c.Context(), jti, user.ID, expiresAt, "logout"); err != nil {
		return response.InternalServerError(c, "Failed to logout")
	}

	return response.Success(c, fiber.Map{
		"message": "Successfully logged out",
	})
}
