package department

import (
	"strconv"

	"github.com/fedpoffa/cbt-api/model"
	"github.com/fedpoffa/cbt-api/utils/response"
	"github.com/fedpoffa/cbt-api/utils/validation"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// DepartmentHandler handles department-related requests
type DepartmentHandler struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewDepartmentHandler creates a new department handler
func NewDepartmentHandler(db *gorm.DB) *DepartmentHandler {
	return &DepartmentHandler{
		db:        db,
		validator: validation.NewValidator(),
	}
}

// CreateDepartmentRequest represents the request body for creating a department
type CreateDepartmentRequest struct {
	Name        string `json:"name" validate:"required,min=3,max=255"`
	Code        string `json:"code" validate:"required,min=2,max=20"`
	Description string `json:"description" validate:"omitempty,max=1000"`
	HODName     string `json:"hod_name" validate:"omitempty,max=255"`
	HODEmail    string `json:"hod_email" validate:"omitempty,email"`
}

// UpdateDepartmentRequest represents the request body for updating a department
type UpdateDepartmentRequest struct {
	Name        string `json:"name" validate:"omitempty,min=3,max=255"`
	Code        string `json:"code" validate:"omitempty,min=2,max=20"`
	Description string `json:"description" validate:"omitempty,max=1000"`
	HODName     string `json:"hod_name" validate:"omitempty,max=255"`
	HODEmail    string `json:"hod_email" validate:"omitempty,email"`
	IsActive    *bool  `json:"is_active"`
}

// ListDepartments handles GET /api/v1/departments
func (h *DepartmentHandler) ListDepartments(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	search := c.Query("search", "")

	query := h.db.Model(&model.Department{})

	if search != "" {
		query = query.Where("name ILIKE ? OR code ILIKE ?",
			"%"+search+"%", "%"+search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to count departments")
	}

	offset := (page - 1) * limit
	pagination := response.CalculatePagination(page, limit, total)

	var departments []model.Department
	if err := query.Order("name ASC").
		Limit(limit).
		Offset(offset).
		Find(&departments).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch departments")
	}

	return response.Paginated(c, departments, pagination)
}

// GetDepartment handles GET /api/v1/departments/:id
func (h *DepartmentHandler) GetDepartment(c *fiber.Ctx) error {
	id := c.Params("id")

	var department model.Department
	if err := h.db.Preload("Programs").First(&department, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Department not found")
		}
		return response.InternalServerError(c, "Failed to fetch department")
	}

	return response.Success(c, department)
}

// CreateDepartment handles POST /api/v1/departments
func (h *DepartmentHandler) CreateDepartment(c *fiber.Ctx) error {
	var req CreateDepartmentRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	req.Name = validation.SanitizeString(req.Name)
	req.Code = validation.SanitizeString(req.Code)
	req.Description = validation.SanitizeString(req.Description)

	// Check if department with same code already exists
	var existing model.Department
	if err := h.db.Where("code = ?", req.Code).First(&existing).Error; err == nil {
		return response.Conflict(c, "Department with this code already exists")
	}

	department := model.Department{
		Name:        req.Name,
		Code:        req.Code,
		Description: req.Description,
		HODName:     req.HODName,
		HODEmail:    req.HODEmail,
		IsActive:    true,
	}

	if err := h.db.Create(&department).Error; err != nil {
		return response.InternalServerError(c, "Failed to create department")
	}

	return response.Created(c, department)
}

// UpdateDepartment handles PUT /api/v1/departments/:id
func (h *DepartmentHandler) UpdateDepartment(c *fiber.Ctx) error {
	id := c.Params("id")

	var req UpdateDepartmentRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	var department model.Department
	if err := h.db.First(&department, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Department not found")
		}
		return response.InternalServerError(c, "Failed to fetch department")
	}

	if req.Name != "" {
		department.Name = validation.SanitizeString(req.Name)
	}

	if req.Code != "" {
		var existing model.Department
		if err := h.db.Where("code = ? AND id != ?", req.Code, id).First(&existing).Error; err == nil {
			return response.Conflict(c, "Department with this code already exists")
		}
		department.Code = validation.SanitizeString(req.Code)
	}

	if req.Description != "" {
		department.Description = validation.SanitizeString(req.Description)
	}
	if req.HODName != "" {
		department.HODName = validation.SanitizeString(req.HODName)
	}
	if req.HODEmail != "" {
		department.HODEmail = validation.SanitizeString(req.HODEmail)
	}
	if req.IsActive != nil {
		department.IsActive = *req.IsActive
	}

	if err := h.db.Save(&department).Error; err != nil {
		return response.InternalServerError(c, "Failed to update department")
	}

	return response.SuccessWithMessage(c, "Department updated successfully", department)
}

// DeleteDepartment handles DELETE /api/v1/departments/:id
func (h *DepartmentHandler) DeleteDepartment(c *fiber.Ctx) error {
	id := c.Params("id")

	var department model.Department
	if err := h.db.First(&department, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Department not found")
		}
		return response.InternalServerError(c, "Failed to fetch department")
	}

	// Check if department has programs
	var programCount int64
	if err := h.db.Model(&model.Program{}).Where("department_id = ?", id).Count(&programCount).Error; err != nil {
		return response.InternalServerError(c, "Failed to check department dependencies")
	}

	if programCount > 0 {
		return response.BadRequest(c, "Cannot delete department with existing programs")
	}

	if err := h.db.Delete(&department).Error; err != nil {
		return response.InternalServerError(c, "Failed to delete department")
	}

	return response.NoContent(c)
}

// GetStats handles GET /api/v1/departments/stats/overview
func (h *DepartmentHandler) GetStats(c *fiber.Ctx) error {
	var total, active, programs int64

	if err := h.db.Model(&model.Department{}).Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to compute department stats")
	}
	if err := h.db.Model(&model.Department{}).Where("is_active = ?", true).Count(&active).Error; err != nil {
		return response.InternalServerError(c, "Failed to compute department stats")
	}
	if err := h.db.Model(&model.Program{}).Count(&programs).Error; err != nil {
		return response.InternalServerError(c, "Failed to compute department stats")
	}

	return response.Success(c, fiber.Map{
		"total_departments":  total,
		"active_departments": active,
		"total_programs":     programs,
	})
}
