package model

import (
	"time"

	"gorm.io/gorm"
)

// Semester represents an academic term with its date windows.
// At most one semester may have IsCurrent set at any time; the switch is
// applied as clear-all-then-set-one inside a single transaction.
type Semester struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
	Name              string         `gorm:"not null" json:"name"`
	AcademicYear      string         `gorm:"not null;type:varchar(20)" json:"academic_year"`
	StartDate         time.Time      `gorm:"not null" json:"start_date"`
	EndDate           time.Time      `gorm:"not null" json:"end_date"`
	RegistrationStart time.Time      `json:"registration_start"`
	RegistrationEnd   time.Time      `json:"registration_end"`
	ExamStart         time.Time      `json:"exam_start"`
	ExamEnd           time.Time      `json:"exam_end"`
	IsCurrent         bool           `gorm:"default:false;index" json:"is_current"`
	IsActive          bool           `gorm:"default:true" json:"is_active"`

	// Relationships
	Courses     []Course           `gorm:"foreignKey:SemesterID" json:"-"`
	Enrollments []CourseEnrollment `gorm:"foreignKey:SemesterID" json:"-"`
}

// IsRegistrationOpen reports whether course registration is open right now.
// Derived from the stored window, never persisted.
func (s *Semester) IsRegistrationOpen() bool {
	now := time.Now()
	return now.After(s.RegistrationStart) && now.Before(s.RegistrationEnd)
}

// IsExamActive reports whether the exam window is open right now.
func (s *Semester) IsExamActive() bool {
	now := time.Now()
	return now.After(s.ExamStart) && now.Before(s.ExamEnd)
}

// IsTermActive reports whether the term itself is in progress.
func (s *Semester) IsTermActive() bool {
	now := time.Now()
	return now.After(s.StartDate) && now.Before(s.EndDate)
}
