package semester

import (
	"errors"
	"strconv"
	"time"

	"github.com/fedpoffa/cbt-api/model"
	"github.com/fedpoffa/cbt-api/services"
	"github.com/fedpoffa/cbt-api/utils/response"
	"github.com/fedpoffa/cbt-api/utils/validation"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SemesterHandler handles semester-related requests
type SemesterHandler struct {
	db        *gorm.DB
	semesters *services.SemesterService
	validator *validation.Validator
}

// NewSemesterHandler creates a new semester handler
func NewSemesterHandler(db *gorm.DB, semesters *services.SemesterService) *SemesterHandler {
	return &SemesterHandler{
		db:        db,
		semesters: semesters,
		validator: validation.NewValidator(),
	}
}

// CreateSemesterRequest represents the request body for creating a semester
type CreateSemesterRequest struct {
	Name              string    `json:"name" validate:"required,min=3,max=100"`
	AcademicYear      string    `json:"academic_year" validate:"required,min=4,max=20"`
	StartDate         time.Time `json:"start_date" validate:"required"`
	EndDate           time.Time `json:"end_date" validate:"required,gtfield=StartDate"`
	RegistrationStart time.Time `json:"registration_start" validate:"required"`
	RegistrationEnd   time.Time `json:"registration_end" validate:"required,gtfield=RegistrationStart"`
	ExamStart         time.Time `json:"exam_start" validate:"required"`
	ExamEnd           time.Time `json:"exam_end" validate:"required,gtfield=ExamStart"`
}

// UpdateSemesterRequest represents the request body for updating a semester
type UpdateSemesterRequest struct {
	Name              string     `json:"name" validate:"omitempty,min=3,max=100"`
	AcademicYear      string     `json:"academic_year" validate:"omitempty,min=4,max=20"`
	StartDate         *time.Time `json:"start_date"`
	EndDate           *time.Time `json:"end_date"`
	RegistrationStart *time.Time `json:"registration_start"`
	RegistrationEnd   *time.Time `json:"registration_end"`
	ExamStart         *time.Time `json:"exam_start"`
	ExamEnd           *time.Time `json:"exam_end"`
	IsActive          *bool      `json:"is_active"`
}

// semesterView wraps a semester with its derived window flags. The flags
// are computed at read time and never stored.
type semesterView struct {
	model.Semester
	IsRegistrationOpen bool `json:"is_registration_open"`
	IsExamActive       bool `json:"is_exam_active"`
	IsTermActive       bool `json:"is_term_active"`
}

func toSemesterView(s *model.Semester) semesterView {
	return semesterView{
		Semester:           *s,
		IsRegistrationOpen: s.IsRegistrationOpen(),
		IsExamActive:       s.IsExamActive(),
		IsTermActive:       s.IsTermActive(),
	}
}

// ListSemesters handles GET /api/v1/semesters
func (h *SemesterHandler) ListSemesters(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	academicYear := c.Query("academic_year", "")

	query := h.db.Model(&model.Semester{})

	if academicYear != "" {
		query = query.Where("academic_year = ?", academicYear)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to count semesters")
	}

	offset := (page - 1) * limit
	pagination := response.CalculatePagination(page, limit, total)

	var semesters []model.Semester
	if err := query.Order("start_date DESC").
		Limit(limit).
		Offset(offset).
		Find(&semesters).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch semesters")
	}

	views := make([]semesterView, 0, len(semesters))
	for i := range semesters {
		views = append(views, toSemesterView(&semesters[i]))
	}

	return response.Paginated(c, views, pagination)
}

// GetSemester handles GET /api/v1/semesters/:id
func (h *SemesterHandler) GetSemester(c *fiber.Ctx) error {
	id := c.Params("id")

	var semester model.Semester
	if err := h.db.First(&semester, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Semester not found")
		}
		return response.InternalServerError(c, "Failed to fetch semester")
	}

	return response.Success(c, toSemesterView(&semester))
}

// GetCurrent handles GET /api/v1/semesters/current
func (h *SemesterHandler) GetCurrent(c *fiber.Ctx) error {
	semester, err := h.semesters.GetCurrentSemester()
	if err != nil {
		if errors.Is(err, services.ErrNoCurrentSemester) {
			return response.NotFound(c, "No current semester is set")
		}
		return response.InternalServerError(c, "Failed to fetch current semester")
	}

	return response.Success(c, toSemesterView(semester))
}

// CreateSemester handles POST /api/v1/semesters
func (h *SemesterHandler) CreateSemester(c *fiber.Ctx) error {
	var req CreateSemesterRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	semester := model.Semester{
		Name:              validation.SanitizeString(req.Name),
		AcademicYear:      validation.SanitizeString(req.AcademicYear),
		StartDate:         req.StartDate,
		EndDate:           req.EndDate,
		RegistrationStart: req.RegistrationStart,
		RegistrationEnd:   req.RegistrationEnd,
		ExamStart:         req.ExamStart,
		ExamEnd:           req.ExamEnd,
		IsActive:          true,
	}

	if err := h.db.Create(&semester).Error; err != nil {
		return response.InternalServerError(c, "Failed to create semester")
	}

	return response.Created(c, toSemesterView(&semester))
}

// UpdateSemester handles PUT /api/v1/semesters/:id
func (h *SemesterHandler) UpdateSemester(c *fiber.Ctx) error {
	id := c.Params("id")

	var req UpdateSemesterRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	var semester model.Semester
	if err := h.db.First(&semester, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Semester not found")
		}
		return response.InternalServerError(c, "Failed to fetch semester")
	}

	if req.Name != "" {
		semester.Name = validation.SanitizeString(req.Name)
	}
	if req.AcademicYear != "" {
		semester.AcademicYear = validation.SanitizeString(req.AcademicYear)
	}
	if req.StartDate != nil {
		semester.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		semester.EndDate = *req.EndDate
	}
	if req.RegistrationStart != nil {
		semester.RegistrationStart = *req.RegistrationStart
	}
	if req.RegistrationEnd != nil {
		semester.RegistrationEnd = *req.RegistrationEnd
	}
	if req.ExamStart != nil {
		semester.ExamStart = *req.ExamStart
	}
	if req.ExamEnd != nil {
		semester.ExamEnd = *req.ExamEnd
	}
	if req.IsActive != nil {
		semester.IsActive = *req.IsActive
	}

	if semester.EndDate.Before(semester.StartDate) {
		return response.BadRequest(c, "End date must be after start date")
	}

	if err := h.db.Save(&semester).Error; err != nil {
		return response.InternalServerError(c, "Failed to update semester")
	}

	return response.SuccessWithMessage(c, "Semester updated successfully", toSemesterView(&semester))
}

// SetCurrent handles POST /api/v1/semesters/:id/set-current
func (h *SemesterHandler) SetCurrent(c *fiber.Ctx) error {
	semesterID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid semester ID")
	}

	semester, err := h.semesters.SetCurrentSemester(uint(semesterID))
	if err != nil {
		if errors.Is(err, services.ErrSemesterNotFound) {
			return response.NotFound(c, "Semester not found")
		}
		return response.InternalServerError(c, "Failed to set current semester")
	}

	return response.SuccessWithMessage(c, "Current semester updated", toSemesterView(semester))
}

// DeleteSemester handles DELETE /api/v1/semesters/:id
func (h *SemesterHandler) DeleteSemester(c *fiber.Ctx) error {
	id := c.Params("id")

	var semester model.Semester
	if err := h.db.First(&semester, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Semester not found")
		}
		return response.InternalServerError(c, "Failed to fetch semester")
	}

	if semester.IsCurrent {
		return response.BadRequest(c, "Cannot delete the current semester")
	}

	var enrollmentCount int64
	if err := h.db.Model(&model.CourseEnrollment{}).Where("semester_id = ?", id).Count(&enrollmentCount).Error; err != nil {
		return response.InternalServerError(c, "Failed to check semester dependencies")
	}

	if enrollmentCount > 0 {
		return response.BadRequest(c, "Cannot delete semester with existing enrollments")
	}

	if err := h.db.Delete(&semester).Error; err != nil {
		return response.InternalServerError(c, "Failed to delete semester")
	}

	return response.NoContent(c)
}

// GetStats handles GET /api/v1/semesters/stats/overview
func (h *SemesterHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.semesters.GetStats()
	if err != nil {
		return response.InternalServerError(c, "Failed to compute semester stats")
	}

	return response.Success(c, stats)
}
