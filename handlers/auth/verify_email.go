package auth

import (
	"strings"
	"time"

	"github.com/fedpoffa/cbt-api/model"
	"github.com/fedpoffa/cbt-api/utils/response"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VerifyEmailRequest represents an email verification request
type VerifyEmailRequest struct {
	Token string `json:"token" validate:"required"`
}

// ResendVerificationRequest represents a request for a fresh verification token
type ResendVerificationRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// VerifyEmail consumes a single-use verification token and marks the
// account verified
func (h *AuthHandler) VerifyEmail(c *fiber.Ctx) error {
	var req VerifyEmailRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.Token == "" {
		return response.BadRequest(c, "Verification token is required")
	}

	var verification model.EmailVerificationToken
	if err := h.db.Where("token = ?", req.Token).First(&verification).Error; err != nil {
		return response.BadRequest(c, "Invalid or expired verification token")
	}

	if verification.IsExpired() {
		return response.BadRequest(c, "Verification token has expired")
	}

	if verification.IsUsed() {
		return response.BadRequest(c, "Verification token has already been used")
	}

	var user model.User
	if err := h.db.First(&user, verification.UserID).Error; err != nil {
		return response.BadRequest(c, "User not found")
	}

	if user.IsVerified {
		return response.Success(c, fiber.Map{
			"message": "Email is already verified",
		})
	}

	// Verify the account and consume the token atomically so the token
	// can never be replayed after a partial failure
	verification.MarkAsUsed()
	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&user).Update("is_verified", true).Error; err != nil {
			return err
		}
		return tx.Save(&verification).Error
	})
	if err != nil {
		return response.InternalServerError(c, "Failed to verify email")
	}

	if h.emailService != nil {
		go h.emailService.SendWelcomeEmail(user.Email, user.FullName())
	}

	return response.Success(c, fiber.Map{
		"message": "Email verified successfully",
	})
}

// ResendVerification issues a new verification token. The response does
// not reveal whether the email exists.
func (h *AuthHandler) ResendVerification(c *fiber.Ctx) error {
	var req ResendVerificationRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.Email == "" {
		return response.BadRequest(c, "Email is required")
	}

	antiEnumerationReply := fiber.Map{
		"message": "If the email exists and is unverified, a verification link will be sent",
	}

	var user model.User
	if err := h.db.Where("email = ?", strings.ToLower(req.Email)).First(&user).Error; err != nil {
		return response.Success(c, antiEnumerationReply)
	}

	if user.IsVerified {
		return response.Success(c, antiEnumerationReply)
	}

	verifyToken := uuid.New().String()
	verification := model.EmailVerificationToken{
		UserID:    user.ID,
		Token:     verifyToken,
		ExpiresAt: time.Now().Add(24 * time.Hour),
	}

	if err := h.db.Create(&verification).Error; err != nil {
		return response.InternalServerError(c, "Failed to create verification token")
	}

	if h.emailService != nil {
		go h.emailService.SendVerificationEmail(user.Email, verifyToken, user.FullName())
	}

	return response.Success(c, antiEnumerationReply)
}
