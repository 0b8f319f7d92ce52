package program

import (
	"errors"
	"strconv"

	"github.com/fedpoffa/cbt-api/model"
	"github.com/fedpoffa/cbt-api/services"
	"github.com/fedpoffa/cbt-api/utils/response"
	"github.com/fedpoffa/cbt-api/utils/validation"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ProgramHandler handles program-related requests
type ProgramHandler struct {
	db          *gorm.DB
	enrollments *services.EnrollmentService
	validator   *validation.Validator
}

// NewProgramHandler creates a new program handler
func NewProgramHandler(db *gorm.DB, enrollments *services.EnrollmentService) *ProgramHandler {
	return &ProgramHandler{
		db:          db,
		enrollments: enrollments,
		validator:   validation.NewValidator(),
	}
}

// CreateProgramRequest represents the request body for creating a program
type CreateProgramRequest struct {
	DepartmentID      uint   `json:"department_id" validate:"required,min=1"`
	Name              string `json:"name" validate:"required,min=3,max=255"`
	Code              string `json:"code" validate:"required,min=2,max=20"`
	Description       string `json:"description" validate:"omitempty,max=1000"`
	Level             string `json:"level" validate:"omitempty,oneof=ND HND"`
	DurationSemesters int    `json:"duration_semesters" validate:"omitempty,min=1,max=12"`
}

// UpdateProgramRequest represents the request body for updating a program
type UpdateProgramRequest struct {
	Name                   string `json:"name" validate:"omitempty,min=3,max=255"`
	Code                   string `json:"code" validate:"omitempty,min=2,max=20"`
	Description            string `json:"description" validate:"omitempty,max=1000"`
	Level                  string `json:"level" validate:"omitempty,oneof=ND HND"`
	DurationSemesters      *int   `json:"duration_semesters" validate:"omitempty,min=1,max=12"`
	IsActive               *bool  `json:"is_active"`
	IsAcceptingEnrollments *bool  `json:"is_accepting_enrollments"`
}

// EnrollStudentRequest represents the admin request to enroll a student
type EnrollStudentRequest struct {
	UserID          uint   `json:"user_id" validate:"required,min=1"`
	AdmissionNumber string `json:"admission_number" validate:"omitempty,max=50"`
}

// UpdateEnrollmentStatusRequest represents an enrollment status transition
type UpdateEnrollmentStatusRequest struct {
	Status   string `json:"status" validate:"required,oneof=enrolled graduated dropped suspended"`
	IsActive *bool  `json:"is_active"`
}

// ListPrograms handles GET /api/v1/programs
func (h *ProgramHandler) ListPrograms(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	search := c.Query("search", "")
	departmentID := c.Query("department_id", "")

	query := h.db.Model(&model.Program{})

	if search != "" {
		query = query.Where("name ILIKE ? OR code ILIKE ?",
			"%"+search+"%", "%"+search+"%")
	}

	if departmentID != "" {
		query = query.Where("department_id = ?", departmentID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to count programs")
	}

	offset := (page - 1) * limit
	pagination := response.CalculatePagination(page, limit, total)

	var programs []model.Program
	if err := query.Preload("Department").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&programs).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch programs")
	}

	return response.Paginated(c, programs, pagination)
}

// GetProgram handles GET /api/v1/programs/:id
func (h *ProgramHandler) GetProgram(c *fiber.Ctx) error {
	id := c.Params("id")

	var program model.Program
	if err := h.db.Preload("Department").
		Preload("Courses").
		First(&program, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Program not found")
		}
		return response.InternalServerError(c, "Failed to fetch program")
	}

	return response.Success(c, program)
}

// ListByDepartment handles GET /api/v1/programs/department/:department_id
func (h *ProgramHandler) ListByDepartment(c *fiber.Ctx) error {
	departmentID := c.Params("department_id")

	var department model.Department
	if err := h.db.First(&department, departmentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Department not found")
		}
		return response.InternalServerError(c, "Failed to fetch department")
	}

	var programs []model.Program
	if err := h.db.Where("department_id = ?", departmentID).
		Order("name ASC").
		Find(&programs).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch programs")
	}

	return response.Success(c, programs)
}

// CreateProgram handles POST /api/v1/programs
func (h *ProgramHandler) CreateProgram(c *fiber.Ctx) error {
	var req CreateProgramRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	req.Name = validation.SanitizeString(req.Name)
	req.Code = validation.SanitizeString(req.Code)
	req.Description = validation.SanitizeString(req.Description)

	// Check if department exists
	var department model.Department
	if err := h.db.First(&department, req.DepartmentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Department not found")
		}
		return response.InternalServerError(c, "Failed to verify department")
	}

	// Check if program with same code already exists
	var existing model.Program
	if err := h.db.Where("code = ?", req.Code).First(&existing).Error; err == nil {
		return response.Conflict(c, "Program with this code already exists")
	}

	if req.Level == "" {
		req.Level = model.ProgramLevelND
	}
	if req.DurationSemesters == 0 {
		req.DurationSemesters = 4
	}

	program := model.Program{
		DepartmentID:           req.DepartmentID,
		Name:                   req.Name,
		Code:                   req.Code,
		Description:            req.Description,
		Level:                  req.Level,
		DurationSemesters:      req.DurationSemesters,
		IsActive:               true,
		IsAcceptingEnrollments: true,
	}

	if err := h.db.Create(&program).Error; err != nil {
		return response.InternalServerError(c, "Failed to create program")
	}

	h.db.Preload("Department").First(&program, program.ID)

	return response.Created(c, program)
}

// UpdateProgram handles PUT /api/v1/programs/:id
func (h *ProgramHandler) UpdateProgram(c *fiber.Ctx) error {
	id := c.Params("id")

	var req UpdateProgramRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	var program model.Program
	if err := h.db.First(&program, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Program not found")
		}
		return response.InternalServerError(c, "Failed to fetch program")
	}

	if req.Name != "" {
		program.Name = validation.SanitizeString(req.Name)
	}

	if req.Code != "" {
		var existing model.Program
		if err := h.db.Where("code = ? AND id != ?", req.Code, id).First(&existing).Error; err == nil {
			return response.Conflict(c, "Program with this code already exists")
		}
		program.Code = validation.SanitizeString(req.Code)
	}

	if req.Description != "" {
		program.Description = validation.SanitizeString(req.Description)
	}
	if req.Level != "" {
		program.Level = req.Level
	}
	if req.DurationSemesters != nil {
		program.DurationSemesters = *req.DurationSemesters
	}
	if req.IsActive != nil {
		program.IsActive = *req.IsActive
	}
	if req.IsAcceptingEnrollments != nil {
		program.IsAcceptingEnrollments = *req.IsAcceptingEnrollments
	}

	if err := h.db.Save(&program).Error; err != nil {
		return response.InternalServerError(c, "Failed to update program")
	}

	h.db.Preload("Department").First(&program, program.ID)

	return response.SuccessWithMessage(c, "Program updated successfully", program)
}

// DeleteProgram handles DELETE /api/v1/programs/:id
func (h *ProgramHandler) DeleteProgram(c *fiber.Ctx) error {
	id := c.Params("id")

	var program model.Program
	if err := h.db.First(&program, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Program not found")
		}
		return response.InternalServerError(c, "Failed to fetch program")
	}

	// Check if program has enrollments
	var enrollmentCount int64
	if err := h.db.Model(&model.ProgramEnrollment{}).Where("program_id = ?", id).Count(&enrollmentCount).Error; err != nil {
		return response.InternalServerError(c, "Failed to check program dependencies")
	}

	if enrollmentCount > 0 {
		return response.BadRequest(c, "Cannot delete program with existing enrollments")
	}

	if err := h.db.Delete(&program).Error; err != nil {
		return response.InternalServerError(c, "Failed to delete program")
	}

	return response.NoContent(c)
}

// EnrollStudent handles POST /api/v1/programs/:id/enroll
func (h *ProgramHandler) EnrollStudent(c *fiber.Ctx) error {
	programID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid program ID")
	}

	var req EnrollStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	enrollment, err := h.enrollments.EnrollStudentInProgram(req.UserID, uint(programID), req.AdmissionNumber)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound), errors.Is(err, services.ErrProgramNotFound):
			return response.NotFound(c, err.Error())
		case errors.Is(err, services.ErrAlreadyEnrolled):
			return response.Conflict(c, "Student is already enrolled in this program")
		case errors.Is(err, services.ErrNotStudent),
			errors.Is(err, services.ErrProgramInactive),
			errors.Is(err, services.ErrProgramNotAccepting):
			return response.BadRequest(c, err.Error())
		default:
			return response.InternalServerError(c, "Failed to enroll student")
		}
	}

	return response.Created(c, enrollment)
}

// ListEnrollments handles GET /api/v1/programs/:id/enrollments
func (h *ProgramHandler) ListEnrollments(c *fiber.Ctx) error {
	programID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid program ID")
	}

	var program model.Program
	if err := h.db.First(&program, programID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Program not found")
		}
		return response.InternalServerError(c, "Failed to fetch program")
	}

	enrollments, err := h.enrollments.ListProgramEnrollments(uint(programID))
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch enrollments")
	}

	return response.Success(c, enrollments)
}

// UpdateEnrollmentStatus handles PUT /api/v1/programs/enrollments/:id/status
func (h *ProgramHandler) UpdateEnrollmentStatus(c *fiber.Ctx) error {
	enrollmentID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid enrollment ID")
	}

	var req UpdateEnrollmentStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	enrollment, err := h.enrollments.UpdateProgramEnrollmentStatus(uint(enrollmentID), req.Status, req.IsActive)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEnrollmentNotFound):
			return response.NotFound(c, "Enrollment not found")
		case errors.Is(err, services.ErrInvalidStatus):
			return response.BadRequest(c, "Invalid enrollment status")
		default:
			return response.InternalServerError(c, "Failed to update enrollment")
		}
	}

	return response.SuccessWithMessage(c, "Enrollment updated successfully", enrollment)
}

// GetStats handles GET /api/v1/programs/stats/overview
func (h *ProgramHandler) GetStats(c *fiber.Ctx) error {
	var total, active, accepting, enrollments int64

	if err := h.db.Model(&model.Program{}).Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to compute program stats")
	}
	if err := h.db.Model(&model.Program{}).Where("is_active = ?", true).Count(&active).Error; err != nil {
		return response.InternalServerError(c, "Failed to compute program stats")
	}
	if err := h.db.Model(&model.Program{}).Where("is_accepting_enrollments = ?", true).Count(&accepting).Error; err != nil {
		return response.InternalServerError(c, "Failed to compute program stats")
	}
	if err := h.db.Model(&model.ProgramEnrollment{}).Where("is_active = ?", true).Count(&enrollments).Error; err != nil {
		return response.InternalServerError(c, "Failed to compute program stats")
	}

	return response.Success(c, fiber.Map{
		"total_programs":     total,
		"active_programs":    active,
		"accepting_programs": accepting,
		"active_enrollments": enrollments,
	})
}
