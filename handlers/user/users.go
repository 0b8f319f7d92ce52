package user

import (
	"strconv"

	"github.com/fedpoffa/cbt-api/model"
	"github.com/fedpoffa/cbt-api/services"
	"github.com/fedpoffa/cbt-api/utils/response"
	"github.com/fedpoffa/cbt-api/utils/validation"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// UserHandler handles administrative user management requests
type UserHandler struct {
	db          *gorm.DB
	enrollments *services.EnrollmentService
	validator   *validation.Validator
}

// NewUserHandler creates a new user handler
func NewUserHandler(db *gorm.DB, enrollments *services.EnrollmentService) *UserHandler {
	return &UserHandler{
		db:          db,
		enrollments: enrollments,
		validator:   validation.NewValidator(),
	}
}

// UpdateUserRequest represents an administrative user update
type UpdateUserRequest struct {
	FirstName    string `json:"first_name" validate:"omitempty,min=2,max=100"`
	LastName     string `json:"last_name" validate:"omitempty,min=2,max=100"`
	Phone        string `json:"phone" validate:"omitempty,max=20"`
	Role         string `json:"role" validate:"omitempty,oneof=student lecturer admin it_admin"`
	DepartmentID *uint  `json:"department_id" validate:"omitempty,min=1"`
	IsVerified   *bool  `json:"is_verified"`
}

// ListUsers handles GET /api/v1/users
func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	search := c.Query("search", "")
	roleFilter := c.Query("role", "")
	departmentID := c.Query("department_id", "")
	activeFilter := c.Query("is_active", "")

	query := h.db.Model(&model.User{})

	if search != "" {
		query = query.Where("email ILIKE ? OR matric_number ILIKE ? OR first_name ILIKE ? OR last_name ILIKE ?",
			"%"+search+"%", "%"+search+"%", "%"+search+"%", "%"+search+"%")
	}

	if roleFilter != "" {
		role, ok := model.ParseRole(roleFilter)
		if !ok {
			return response.BadRequest(c, "Invalid role filter")
		}
		query = query.Where("role = ?", role)
	}

	if departmentID != "" {
		query = query.Where("department_id = ?", departmentID)
	}

	if activeFilter != "" {
		active, err := strconv.ParseBool(activeFilter)
		if err != nil {
			return response.BadRequest(c, "Invalid is_active filter")
		}
		query = query.Where("is_active = ?", active)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to count users")
	}

	offset := (page - 1) * limit
	pagination := response.CalculatePagination(page, limit, total)

	var users []model.User
	if err := query.Preload("Department").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&users).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch users")
	}

	return response.Paginated(c, users, pagination)
}

// GetUser handles GET /api/v1/users/:id
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	id := c.Params("id")

	var user model.User
	if err := h.db.Preload("Department").First(&user, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to fetch user")
	}

	return response.Success(c, user)
}

// UpdateUser handles PUT /api/v1/users/:id. Unlike the self-service
// profile endpoint, role and department changes are allowed here.
func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	id := c.Params("id")

	var req UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	var user model.User
	if err := h.db.First(&user, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to fetch user")
	}

	if req.FirstName != "" {
		user.FirstName = validation.SanitizeString(req.FirstName)
	}
	if req.LastName != "" {
		user.LastName = validation.SanitizeString(req.LastName)
	}
	if req.Phone != "" {
		user.Phone = validation.SanitizeString(req.Phone)
	}
	if req.Role != "" {
		role, ok := model.ParseRole(req.Role)
		if !ok {
			return response.BadRequest(c, "Invalid role")
		}
		user.Role = role
	}
	if req.DepartmentID != nil {
		var department model.Department
		if err := h.db.First(&department, *req.DepartmentID).Error; err != nil {
			return response.BadRequest(c, "Department not found")
		}
		user.DepartmentID = req.DepartmentID
	}
	if req.IsVerified != nil {
		user.IsVerified = *req.IsVerified
	}

	if err := h.db.Save(&user).Error; err != nil {
		return response.InternalServerError(c, "Failed to update user")
	}

	return response.SuccessWithMessage(c, "User updated successfully", user)
}

// DeactivateUser handles DELETE /api/v1/users/:id. Accounts are
// deactivated, never removed, so enrollment history stays intact.
func (h *UserHandler) DeactivateUser(c *fiber.Ctx) error {
	id := c.Params("id")

	var user model.User
	if err := h.db.First(&user, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to fetch user")
	}

	if !user.IsActive {
		return response.SuccessWithMessage(c, "User is already deactivated", user)
	}

	if err := h.db.Model(&user).Update("is_active", false).Error; err != nil {
		return response.InternalServerError(c, "Failed to deactivate user")
	}

	user.IsActive = false
	return response.SuccessWithMessage(c, "User deactivated successfully", user)
}

// ActivateUser handles POST /api/v1/users/:id/activate
func (h *UserHandler) ActivateUser(c *fiber.Ctx) error {
	id := c.Params("id")

	var user model.User
	if err := h.db.First(&user, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to fetch user")
	}

	if user.IsActive {
		return response.SuccessWithMessage(c, "User is already active", user)
	}

	if err := h.db.Model(&user).Update("is_active", true).Error; err != nil {
		return response.InternalServerError(c, "Failed to activate user")
	}

	user.IsActive = true
	return response.SuccessWithMessage(c, "User activated successfully", user)
}

// ListUserEnrollments handles GET /api/v1/users/:id/enrollments
func (h *UserHandler) ListUserEnrollments(c *fiber.Ctx) error {
	userID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid user ID")
	}

	var user model.User
	if err := h.db.First(&user, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to fetch user")
	}

	programEnrollments, courseEnrollments, err := h.enrollments.ListUserEnrollments(uint(userID))
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch enrollments")
	}

	return response.Success(c, fiber.Map{
		"program_enrollments": programEnrollments,
		"course_enrollments":  courseEnrollments,
	})
}

// GetStats handles GET /api/v1/users/stats/overview
func (h *UserHandler) GetStats(c *fiber.Ctx) error {
	var total, active, verified int64
	if err := h.db.Model(&model.User{}).Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to compute user stats")
	}
	if err := h.db.Model(&model.User{}).Where("is_active = ?", true).Count(&active).Error; err != nil {
		return response.InternalServerError(c, "Failed to compute user stats")
	}
	if err := h.db.Model(&model.User{}).Where("is_verified = ?", true).Count(&verified).Error; err != nil {
		return response.InternalServerError(c, "Failed to compute user stats")
	}

	type roleCount struct {
		Role  model.Role `json:"role"`
		Count int64      `json:"count"`
	}
	var byRole []roleCount
	if err := h.db.Model(&model.User{}).
		Select("role, count(*) as count").
		Group("role").
		Scan(&byRole).Error; err != nil {
		return response.InternalServerError(c, "Failed to compute user stats")
	}

	return response.Success(c, fiber.Map{
		"total_users":    total,
		"active_users":   active,
		"verified_users": verified,
		"by_role":        byRole,
	})
}
