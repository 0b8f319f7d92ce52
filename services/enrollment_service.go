package services

import (
	"errors"
	"time"

	"github.com/fedpoffa/cbt-api/model"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrNotStudent          = errors.New("only students can be enrolled")
	ErrProgramNotFound     = errors.New("program not found")
	ErrProgramInactive     = errors.New("program is not active")
	ErrProgramNotAccepting = errors.New("program is not accepting enrollments")
	ErrCourseNotFound      = errors.New("course not found")
	ErrCourseUnavailable   = errors.New("course is not available for enrollment")
	ErrSemesterNotFound    = errors.New("semester not found")
	ErrAlreadyEnrolled     = errors.New("student is already enrolled")
	ErrEnrollmentNotFound  = errors.New("enrollment not found")
	ErrInvalidStatus       = errors.New("invalid enrollment status")
)

// EnrollmentService implements the enrollment lifecycle for programs and
// courses. Program enrollment reactivates a deactivated row instead of
// inserting a duplicate; course enrollment deliberately has no such path.
type EnrollmentService struct {
	db *gorm.DB
}

// NewEnrollmentService creates a new enrollment service
func NewEnrollmentService(db *gorm.DB) *EnrollmentService {
	return &EnrollmentService{db: db}
}

// EnrollStudentInProgram enrolls a student in a program. An inactive
// existing (user, program) row is reactivated, keeping its id; an active
// one is a conflict.
func (s *EnrollmentService) EnrollStudentInProgram(userID, programID uint, admissionNumber string) (*model.ProgramEnrollment, error) {
	var user model.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if !user.IsStudent() {
		return nil, ErrNotStudent
	}

	var program model.Program
	if err := s.db.First(&program, programID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProgramNotFound
		}
		return nil, err
	}

	if !program.IsActive {
		return nil, ErrProgramInactive
	}
	if !program.IsAcceptingEnrollments {
		return nil, ErrProgramNotAccepting
	}

	var existing model.ProgramEnrollment
	err := s.db.Where("user_id = ? AND program_id = ?", userID, programID).First(&existing).Error
	switch {
	case err == nil && existing.IsActive:
		return nil, ErrAlreadyEnrolled
	case err == nil:
		// Reactivation path: reuse the existing row
		existing.IsActive = true
		existing.Status = model.EnrollmentStatusEnrolled
		if admissionNumber != "" {
			existing.AdmissionNumber = admissionNumber
		}
		if err := s.db.Save(&existing).Error; err != nil {
			return nil, err
		}
		return &existing, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	enrollment := model.ProgramEnrollment{
		UserID:          userID,
		ProgramID:       programID,
		EnrollmentDate:  time.Now(),
		Status:          model.EnrollmentStatusEnrolled,
		IsActive:        true,
		CurrentLevel:    entryLevelFor(program.Level),
		CurrentSemester: 1,
		AdmissionNumber: admissionNumber,
	}

	if err := s.db.Create(&enrollment).Error; err != nil {
		return nil, err
	}

	return &enrollment, nil
}

// entryLevelFor returns the level a freshly enrolled student starts at
func entryLevelFor(programLevel string) string {
	if programLevel == model.ProgramLevelHND {
		return "HND1"
	}
	return "ND1"
}

// UpdateProgramEnrollmentStatus applies an explicit status transition.
// Deactivation is reversible via reactivation; terminal statuses like
// graduated are carried in the status field itself.
func (s *EnrollmentService) UpdateProgramEnrollmentStatus(enrollmentID uint, status string, active *bool) (*model.ProgramEnrollment, error) {
	if !model.IsProgramStatusValid(status) {
		return nil, ErrInvalidStatus
	}

	var enrollment model.ProgramEnrollment
	if err := s.db.First(&enrollment, enrollmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEnrollmentNotFound
		}
		return nil, err
	}

	enrollment.Status = status
	if active != nil {
		enrollment.IsActive = *active
	}

	if err := s.db.Save(&enrollment).Error; err != nil {
		return nil, err
	}

	return &enrollment, nil
}

// DeactivateProgramEnrollment turns the active flag off without touching
// the status, the reversible counterpart of reactivation
func (s *EnrollmentService) DeactivateProgramEnrollment(enrollmentID uint) (*model.ProgramEnrollment, error) {
	var enrollment model.ProgramEnrollment
	if err := s.db.First(&enrollment, enrollmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEnrollmentNotFound
		}
		return nil, err
	}

	enrollment.IsActive = false
	if err := s.db.Save(&enrollment).Error; err != nil {
		return nil, err
	}

	return &enrollment, nil
}

// EnrollInCourse enrolls a student in a course for a semester. Uniqueness
// is scoped to (user, course, semester); any existing active row is a hard
// conflict with no reactivation.
func (s *EnrollmentService) EnrollInCourse(userID, courseID, semesterID uint) (*model.CourseEnrollment, error) {
	var user model.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if !user.IsStudent() {
		return nil, ErrNotStudent
	}

	var course model.Course
	if err := s.db.First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	if !course.IsAvailable {
		return nil, ErrCourseUnavailable
	}

	var semester model.Semester
	if err := s.db.First(&semester, semesterID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSemesterNotFound
		}
		return nil, err
	}

	var count int64
	if err := s.db.Model(&model.CourseEnrollment{}).
		Where("user_id = ? AND course_id = ? AND semester_id = ? AND is_active = ?", userID, courseID, semesterID, true).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrAlreadyEnrolled
	}

	enrollment := model.CourseEnrollment{
		UserID:         userID,
		CourseID:       courseID,
		SemesterID:     semesterID,
		EnrollmentDate: time.Now(),
		Status:         model.EnrollmentStatusEnrolled,
		IsActive:       true,
	}

	if err := s.db.Create(&enrollment).Error; err != nil {
		return nil, err
	}

	return &enrollment, nil
}

// UpdateCourseEnrollmentStatus applies an explicit course enrollment
// status transition, optionally recording the academic outcome
func (s *EnrollmentService) UpdateCourseEnrollmentStatus(enrollmentID uint, status string, grade string, score *float64) (*model.CourseEnrollment, error) {
	if !model.IsCourseStatusValid(status) {
		return nil, ErrInvalidStatus
	}

	var enrollment model.CourseEnrollment
	if err := s.db.First(&enrollment, enrollmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEnrollmentNotFound
		}
		return nil, err
	}

	enrollment.Status = status
	if grade != "" {
		enrollment.Grade = grade
	}
	if score != nil {
		enrollment.Score = score
	}
	if status == model.EnrollmentStatusDropped {
		enrollment.IsActive = false
	}

	if err := s.db.Save(&enrollment).Error; err != nil {
		return nil, err
	}

	return &enrollment, nil
}

// ListProgramEnrollments returns the enrollments for a program
func (s *EnrollmentService) ListProgramEnrollments(programID uint) ([]model.ProgramEnrollment, error) {
	var enrollments []model.ProgramEnrollment
	err := s.db.Preload("User").
		Where("program_id = ?", programID).
		Order("enrollment_date DESC").
		Find(&enrollments).Error
	return enrollments, err
}

// ListUserEnrollments returns both enrollment kinds for a user
func (s *EnrollmentService) ListUserEnrollments(userID uint) ([]model.ProgramEnrollment, []model.CourseEnrollment, error) {
	var programs []model.ProgramEnrollment
	if err := s.db.Preload("Program").
		Where("user_id = ?", userID).
		Find(&programs).Error; err != nil {
		return nil, nil, err
	}

	var courses []model.CourseEnrollment
	if err := s.db.Preload("Course").Preload("Semester").
		Where("user_id = ?", userID).
		Find(&courses).Error; err != nil {
		return nil, nil, err
	}

	return programs, courses, nil
}
