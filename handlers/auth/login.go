package auth

import (
	"log"
	"strings"
	"time"

	"github.com/fedpoffa/cbt-api/model"
	"github.com/fedpoffa/cbt-api/utils/auth"
	"github.com/fedpoffa/cbt-api/utils/response"
	"github.com/gofiber/fiber/v2"
)

// LoginRequest represents a user login request. The identifier is either
// the institutional email or the matric number.
type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

// LoginResponse represents a successful login response
type LoginResponse struct {
	User         UserResponse `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	TokenType    string       `json:"token_type"`
	ExpiresIn    int          `json:"expires_in"` // in seconds
}

const genericLoginError = "Invalid credentials"

// Login handles user login. Unknown identifier, deactivated account and
// wrong password all return the same generic message so accounts cannot
// be enumerated.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.Identifier == "" || req.Password == "" {
		return response.BadRequest(c, "Identifier and password are required")
	}

	ip := c.IP()

	// Resolve by email when the identifier looks like one, else by matric number
	var user model.User
	query := h.db
	if strings.Contains(req.Identifier, "@") {
		query = query.Where("email = ?", strings.ToLower(req.Identifier))
	} else {
		query = query.Where("matric_number = ?", strings.ToUpper(req.Identifier))
	}

	if err := query.First(&user).Error; err != nil {
		if h.bruteForceProtection != nil {
			h.bruteForceProtection.RecordFailedAttempt(c, ip)
		}
		return response.Unauthorized(c, genericLoginError)
	}

	if !user.IsActive {
		if h.bruteForceProtection != nil {
			h.bruteForceProtection.RecordFailedAttempt(c, ip)
		}
		return response.Unauthorized(c, genericLoginError)
	}

	if err := auth.VerifyPassword(user.PasswordHash, req.Password); err != nil {
		if h.bruteForceProtection != nil {
			h.bruteForceProtection.RecordFailedAttempt(c, ip)
		}
		return response.Unauthorized(c, genericLoginError)
	}

	if h.bruteForceProtection != nil {
		h.bruteForceProtection.RecordSuccessfulAttempt(c, ip)
	}

	now := time.Now()
	user.LastLoginAt = &now
	// Login still succeeds if the timestamp write fails
	if err := h.db.Model(&user).UpdateColumn("last_login_at", now).Error; err != nil {
		log.Printf("Failed to record last login for user %d: %v", user.ID, err)
	}

	accessToken, _, err := h.jwtManager.GenerateAccessToken(&user)
	if err != nil {
		return response.InternalServerError(c, "Failed to generate access token")
	}

	refreshToken, _, err := h.jwtManager.GenerateRefreshToken(&user)
	if err != nil {
		return response.InternalServerError(c, "Failed to generate refresh token")
	}

	res := LoginResponse{
		User:         toUserResponse(&user),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresIn:    int(h.jwtManager.AccessTokenTTL().Seconds()),
	}

	return response.Success(c, res)
}
