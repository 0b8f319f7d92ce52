package course

import (
	"encoding/json"
	"errors"
	"strconv"

	"github.com/fedpoffa/cbt-api/model"
	"github.com/fedpoffa/cbt-api/services"
	"github.com/fedpoffa/cbt-api/utils/middleware"
	"github.com/fedpoffa/cbt-api/utils/response"
	"github.com/fedpoffa/cbt-api/utils/validation"
	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CourseHandler handles course-related requests
type CourseHandler struct {
	db          *gorm.DB
	enrollments *services.EnrollmentService
	semesters   *services.SemesterService
	validator   *validation.Validator
}

// NewCourseHandler creates a new course handler
func NewCourseHandler(db *gorm.DB, enrollments *services.EnrollmentService, semesters *services.SemesterService) *CourseHandler {
	return &CourseHandler{
		db:          db,
		enrollments: enrollments,
		semesters:   semesters,
		validator:   validation.NewValidator(),
	}
}

// CreateCourseRequest represents the request body for creating a course
type CreateCourseRequest struct {
	ProgramID     uint     `json:"program_id" validate:"required,min=1"`
	SemesterID    *uint    `json:"semester_id" validate:"omitempty,min=1"`
	Name          string   `json:"name" validate:"required,min=3,max=255"`
	Code          string   `json:"code" validate:"required,min=2,max=20"`
	Description   string   `json:"description" validate:"omitempty,max=1000"`
	CreditUnits   int      `json:"credit_units" validate:"omitempty,min=1,max=10"`
	Level         string   `json:"level" validate:"omitempty,max=10"`
	CoordinatorID *uint    `json:"coordinator_id" validate:"omitempty,min=1"`
	Prerequisites []string `json:"prerequisites" validate:"omitempty,dive,min=2,max=20"`
}

// UpdateCourseRequest represents the request body for updating a course
type UpdateCourseRequest struct {
	SemesterID    *uint    `json:"semester_id" validate:"omitempty,min=1"`
	Name          string   `json:"name" validate:"omitempty,min=3,max=255"`
	Code          string   `json:"code" validate:"omitempty,min=2,max=20"`
	Description   string   `json:"description" validate:"omitempty,max=1000"`
	CreditUnits   *int     `json:"credit_units" validate:"omitempty,min=1,max=10"`
	CoordinatorID *uint    `json:"coordinator_id" validate:"omitempty,min=1"`
	IsAvailable   *bool    `json:"is_available"`
	Prerequisites []string `json:"prerequisites" validate:"omitempty,dive,min=2,max=20"`
}

// CourseEnrollRequest represents a student's course enrollment request
type CourseEnrollRequest struct {
	SemesterID uint `json:"semester_id" validate:"omitempty,min=1"`
}

// UpdateEnrollmentStatusRequest represents a course enrollment status transition
type UpdateEnrollmentStatusRequest struct {
	Status string   `json:"status" validate:"required,oneof=enrolled completed failed dropped"`
	Grade  string   `json:"grade" validate:"omitempty,max=5"`
	Score  *float64 `json:"score" validate:"omitempty,gte=0,lte=100"`
}

// ListCourses handles GET /api/v1/courses
func (h *CourseHandler) ListCourses(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	search := c.Query("search", "")
	programID := c.Query("program_id", "")

	query := h.db.Model(&model.Course{})

	if search != "" {
		query = query.Where("name ILIKE ? OR code ILIKE ? OR description ILIKE ?",
			"%"+search+"%", "%"+search+"%", "%"+search+"%")
	}

	if programID != "" {
		query = query.Where("program_id = ?", programID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to count courses")
	}

	offset := (page - 1) * limit
	pagination := response.CalculatePagination(page, limit, total)

	var courses []model.Course
	if err := query.Preload("Program").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&courses).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch courses")
	}

	return response.Paginated(c, courses, pagination)
}

// GetCourse handles GET /api/v1/courses/:id
func (h *CourseHandler) GetCourse(c *fiber.Ctx) error {
	id := c.Params("id")

	var course model.Course
	if err := h.db.Preload("Program").
		Preload("Semester").
		Preload("Coordinator").
		First(&course, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Course not found")
		}
		return response.InternalServerError(c, "Failed to fetch course")
	}

	return response.Success(c, course)
}

// CreateCourse handles POST /api/v1/courses
func (h *CourseHandler) CreateCourse(c *fiber.Ctx) error {
	var req CreateCourseRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	req.Name = validation.SanitizeString(req.Name)
	req.Code = validation.SanitizeString(req.Code)
	req.Description = validation.SanitizeString(req.Description)

	// Check if program exists
	var program model.Program
	if err := h.db.First(&program, req.ProgramID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Program not found")
		}
		return response.InternalServerError(c, "Failed to verify program")
	}

	// Check if course with same code already exists
	var existing model.Course
	if err := h.db.Where("code = ?", req.Code).First(&existing).Error; err == nil {
		return response.Conflict(c, "Course with this code already exists")
	}

	if req.CreditUnits == 0 {
		req.CreditUnits = 2
	}

	course := model.Course{
		ProgramID:     req.ProgramID,
		SemesterID:    req.SemesterID,
		Name:          req.Name,
		Code:          req.Code,
		Description:   req.Description,
		CreditUnits:   req.CreditUnits,
		Level:         req.Level,
		CoordinatorID: req.CoordinatorID,
		IsAvailable:   true,
	}

	if len(req.Prerequisites) > 0 {
		prereqs, err := prerequisitesJSON(req.Prerequisites)
		if err != nil {
			return response.BadRequest(c, "Invalid prerequisites")
		}
		course.Prerequisites = prereqs
	}

	if err := h.db.Create(&course).Error; err != nil {
		return response.InternalServerError(c, "Failed to create course")
	}

	h.db.Preload("Program").First(&course, course.ID)

	return response.Created(c, course)
}

// UpdateCourse handles PUT /api/v1/courses/:id
func (h *CourseHandler) UpdateCourse(c *fiber.Ctx) error {
	id := c.Params("id")

	var req UpdateCourseRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	var course model.Course
	if err := h.db.First(&course, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Course not found")
		}
		return response.InternalServerError(c, "Failed to fetch course")
	}

	if req.Name != "" {
		course.Name = validation.SanitizeString(req.Name)
	}

	if req.Code != "" {
		var existing model.Course
		if err := h.db.Where("code = ? AND id != ?", req.Code, id).First(&existing).Error; err == nil {
			return response.Conflict(c, "Course with this code already exists")
		}
		course.Code = validation.SanitizeString(req.Code)
	}

	if req.Description != "" {
		course.Description = validation.SanitizeString(req.Description)
	}
	if req.SemesterID != nil {
		course.SemesterID = req.SemesterID
	}
	if req.CreditUnits != nil {
		course.CreditUnits = *req.CreditUnits
	}
	if req.CoordinatorID != nil {
		course.CoordinatorID = req.CoordinatorID
	}
	if req.IsAvailable != nil {
		course.IsAvailable = *req.IsAvailable
	}
	if len(req.Prerequisites) > 0 {
		prereqs, err := prerequisitesJSON(req.Prerequisites)
		if err != nil {
			return response.BadRequest(c, "Invalid prerequisites")
		}
		course.Prerequisites = prereqs
	}

	if err := h.db.Save(&course).Error; err != nil {
		return response.InternalServerError(c, "Failed to update course")
	}

	h.db.Preload("Program").First(&course, course.ID)

	return response.SuccessWithMessage(c, "Course updated successfully", course)
}

// DeleteCourse handles DELETE /api/v1/courses/:id
func (h *CourseHandler) DeleteCourse(c *fiber.Ctx) error {
	id := c.Params("id")

	var course model.Course
	if err := h.db.First(&course, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Course not found")
		}
		return response.InternalServerError(c, "Failed to fetch course")
	}

	// Check if course has enrollments
	var enrollmentCount int64
	if err := h.db.Model(&model.CourseEnrollment{}).Where("course_id = ?", id).Count(&enrollmentCount).Error; err != nil {
		return response.InternalServerError(c, "Failed to check course dependencies")
	}

	if enrollmentCount > 0 {
		return response.BadRequest(c, "Cannot delete course with existing enrollments")
	}

	if err := h.db.Delete(&course).Error; err != nil {
		return response.InternalServerError(c, "Failed to delete course")
	}

	return response.NoContent(c)
}

// Enroll handles POST /api/v1/courses/:id/enroll. Students enroll
// themselves for the given semester, defaulting to the current one.
func (h *CourseHandler) Enroll(c *fiber.Ctx) error {
	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid course ID")
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	var req CourseEnrollRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return response.BadRequest(c, "Invalid request body")
	}

	semesterID := req.SemesterID
	if semesterID == 0 {
		current, err := h.semesters.GetCurrentSemester()
		if err != nil {
			return response.BadRequest(c, "No current semester is set")
		}
		semesterID = current.ID
	}

	enrollment, err := h.enrollments.EnrollInCourse(userID, uint(courseID), semesterID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCourseNotFound), errors.Is(err, services.ErrSemesterNotFound):
			return response.NotFound(c, err.Error())
		case errors.Is(err, services.ErrAlreadyEnrolled):
			return response.Conflict(c, "Already enrolled in this course for the semester")
		case errors.Is(err, services.ErrNotStudent), errors.Is(err, services.ErrCourseUnavailable):
			return response.BadRequest(c, err.Error())
		default:
			return response.InternalServerError(c, "Failed to enroll in course")
		}
	}

	return response.Created(c, enrollment)
}

// MyEnrolledCourses handles GET /api/v1/courses/my/enrolled
func (h *CourseHandler) MyEnrolledCourses(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	statusFilter := c.Query("status", "")

	query := h.db.Preload("Course").Preload("Semester").
		Where("user_id = ?", userID)

	if statusFilter != "" {
		if !model.IsCourseStatusValid(statusFilter) {
			return response.BadRequest(c, "Invalid status filter")
		}
		query = query.Where("status = ?", statusFilter)
	}

	var enrollments []model.CourseEnrollment
	if err := query.Order("enrollment_date DESC").Find(&enrollments).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch enrollments")
	}

	return response.Success(c, enrollments)
}

// UpdateEnrollmentStatus handles PUT /api/v1/courses/enrollments/:id/status
func (h *CourseHandler) UpdateEnrollmentStatus(c *fiber.Ctx) error {
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

	enrollment, err := h.enrollments.UpdateCourseEnrollmentStatus(uint(enrollmentID), req.Status, req.Grade, req.Score)
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

// GetStats handles GET /api/v1/courses/stats/overview
func (h *CourseHandler) GetStats(c *fiber.Ctx) error {
	var total, available, enrollments int64

	if err := h.db.Model(&model.Course{}).Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to compute course stats")
	}
	if err := h.db.Model(&model.Course{}).Where("is_available = ?", true).Count(&available).Error; err != nil {
		return response.InternalServerError(c, "Failed to compute course stats")
	}
	if err := h.db.Model(&model.CourseEnrollment{}).Where("is_active = ?", true).Count(&enrollments).Error; err != nil {
		return response.InternalServerError(c, "Failed to compute course stats")
	}

	return response.Success(c, fiber.Map{
		"total_courses":      total,
		"available_courses":  available,
		"active_enrollments": enrollments,
	})
}

func prerequisitesJSON(codes []string) (datatypes.JSON, error) {
	sanitized := make([]string, 0, len(codes))
	for _, code := range codes {
		sanitized = append(sanitized, validation.SanitizeString(code))
	}
	raw, err := json.Marshal(sanitized)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}
