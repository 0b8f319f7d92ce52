package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/fedpoffa/cbt-api/model"
	"github.com/fedpoffa/cbt-api/services"
	authutil "github.com/fedpoffa/cbt-api/utils/auth"
	"github.com/fedpoffa/cbt-api/utils/middleware"
	"github.com/fedpoffa/cbt-api/utils/response"
	"github.com/fedpoffa/cbt-api/utils/validation"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	db                   *gorm.DB
	jwtManager           *authutil.JWTManager
	blacklistService     *authutil.BlacklistService
	bruteForceProtection *middleware.BruteForceProtection
	emailService         *services.EmailService
	validator            *validation.Validator
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(db *gorm.DB, jwtManager *authutil.JWTManager, bruteForceProtection *middleware.BruteForceProtection, emailService *services.EmailService) *AuthHandler {
	return &AuthHandler{
		db:                   db,
		jwtManager:           jwtManager,
		blacklistService:     authutil.NewBlacklistService(db),
		bruteForceProtection: bruteForceProtection,
		emailService:         emailService,
		validator:            validation.NewValidator(),
	}
}

// RegisterRequest represents a user registration request
type RegisterRequest struct {
	Email        string `json:"email" validate:"required,email"`
	MatricNumber string `json:"matric_number" validate:"required,min=5,max=50"`
	Password     string `json:"password" validate:"required,min=8"`
	FirstName    string `json:"first_name" validate:"required,min=2,max=100"`
	LastName     string `json:"last_name" validate:"required,min=2,max=100"`
	Phone        string `json:"phone" validate:"omitempty,max=20"`
	DepartmentID *uint  `json:"department_id" validate:"omitempty,min=1"`
	Role         string `json:"role,omitempty"` // Optional, defaults to "student"
}

// UserResponse represents user data in responses
type UserResponse struct {
	ID           uint       `json:"id"`
	Email        string     `json:"email"`
	MatricNumber string     `json:"matric_number"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	Phone        string     `json:"phone,omitempty"`
	Role         model.Role `json:"role"`
	DepartmentID *uint      `json:"department_id,omitempty"`
	IsActive     bool       `json:"is_active"`
	IsVerified   bool       `json:"is_verified"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func toUserResponse(user *model.User) UserResponse {
	return UserResponse{
		ID:           user.ID,
		Email:        user.Email,
		MatricNumber: user.MatricNumber,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		Phone:        user.Phone,
		Role:         user.Role,
		DepartmentID: user.DepartmentID,
		IsActive:     user.IsActive,
		IsVerified:   user.IsVerified,
		LastLoginAt:  user.LastLoginAt,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}
}

// Register handles user registration. New accounts start unverified but
// can log in; tokens are only issued at login.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	req.Email = strings.ToLower(validation.SanitizeString(req.Email))
	req.MatricNumber = strings.ToUpper(validation.SanitizeString(req.MatricNumber))
	req.FirstName = validation.SanitizeString(req.FirstName)
	req.LastName = validation.SanitizeString(req.LastName)

	if ok, msg := validation.ValidateInstitutionalEmail(req.Email); !ok {
		return response.BadRequest(c, msg)
	}

	if ok, msg := validation.ValidateMatricNumber(req.MatricNumber); !ok {
		return response.BadRequest(c, msg)
	}

	if ok, violations := authutil.ValidatePasswordStrength(req.Password); !ok {
		return response.BadRequest(c, strings.Join(violations, "; "))
	}

	role := model.RoleStudent
	if req.Role != "" {
		parsed, ok := model.ParseRole(req.Role)
		if !ok {
			return response.BadRequest(c, "Invalid role")
		}
		role = parsed
	}

	// Uniqueness checks before any write
	var existing model.User
	if err := h.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return response.Conflict(c, "User with this email already exists")
	}
	if err := h.db.Where("matric_number = ?", req.MatricNumber).First(&existing).Error; err == nil {
		return response.Conflict(c, "User with this matric number already exists")
	}

	if req.DepartmentID != nil {
		var department model.Department
		if err := h.db.First(&department, *req.DepartmentID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return response.NotFound(c, "Department not found")
			}
			return response.InternalServerError(c, "Failed to verify department")
		}
	}

	hashedPassword, err := authutil.HashPassword(req.Password)
	if err != nil {
		return response.InternalServerError(c, "Failed to process password")
	}

	user := model.User{
		Email:        req.Email,
		MatricNumber: req.MatricNumber,
		PasswordHash: hashedPassword,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		Role:         role,
		DepartmentID: req.DepartmentID,
		IsActive:     true,
		IsVerified:   false,
	}

	if err := h.db.Create(&user).Error; err != nil {
		// A concurrent registration can slip past the pre-write checks;
		// the unique indexes still make it a conflict, not a server error
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return response.Conflict(c, "User with this email or matric number already exists")
		}
		return response.InternalServerError(c, "Failed to create user")
	}

	// Create the verification token and send the email; delivery failure
	// never rolls back registration
	verifyToken := uuid.New().String()
	verification := model.EmailVerificationToken{
		UserID:    user.ID,
		Token:     verifyToken,
		ExpiresAt: time.Now().Add(24 * time.Hour),
	}
	if err := h.db.Create(&verification).Error; err == nil && h.emailService != nil {
		go h.emailService.SendVerificationEmail(user.Email, verifyToken, user.FullName())
	}

	return response.Created(c, fiber.Map{
		"user":    toUserResponse(&user),
		"message": "Registration successful. Please verify your email address.",
	})
}
