package model

import (
	"time"

	"gorm.io/gorm"
)

// Enrollment statuses shared by program and course enrollments
const (
	EnrollmentStatusEnrolled  = "enrolled"
	EnrollmentStatusGraduated = "graduated"
	EnrollmentStatusDropped   = "dropped"
	EnrollmentStatusSuspended = "suspended"
	EnrollmentStatusCompleted = "completed"
	EnrollmentStatusFailed    = "failed"
)

// ProgramEnrollment associates a student with a program.
// At most one active row may exist per (user, program) pair; re-enrolling
// after deactivation reactivates the existing row instead of inserting.
type ProgramEnrollment struct {
	ID                 uint           `gorm:"primaryKey" json:"id"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`
	UserID             uint           `gorm:"index:idx_user_program;not null" json:"user_id"`
	ProgramID          uint           `gorm:"index:idx_user_program;not null" json:"program_id"`
	EnrollmentDate     time.Time      `gorm:"not null" json:"enrollment_date"`
	Status             string         `gorm:"type:varchar(20);default:'enrolled'" json:"status"`
	IsActive           bool           `gorm:"default:true" json:"is_active"`
	CurrentLevel       string         `gorm:"type:varchar(10);default:'ND1'" json:"current_level"`
	CurrentSemester    int            `gorm:"default:1" json:"current_semester"`
	GPA                float64        `gorm:"default:0" json:"gpa"`
	TotalCreditsEarned int            `gorm:"default:0" json:"total_credits_earned"`
	AdmissionNumber    string         `gorm:"type:varchar(50)" json:"admission_number,omitempty"`

	// Relationships
	User    *User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Program *Program `gorm:"foreignKey:ProgramID" json:"program,omitempty"`
}

// IsProgramStatusValid reports whether s is a recognized program enrollment status
func IsProgramStatusValid(s string) bool {
	switch s {
	case EnrollmentStatusEnrolled, EnrollmentStatusGraduated,
		EnrollmentStatusDropped, EnrollmentStatusSuspended:
		return true
	}
	return false
}
