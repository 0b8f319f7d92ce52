package model

import (
	"time"

	"gorm.io/gorm"
)

// CourseEnrollment associates a student with a course in a specific
// semester. Uniqueness is scoped to (user, course, semester) while active;
// unlike program enrollment there is no reactivation path, a duplicate
// active row is always a hard conflict.
type CourseEnrollment struct {
	ID                 uint           `gorm:"primaryKey" json:"id"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`
	UserID             uint           `gorm:"index:idx_user_course_semester;not null" json:"user_id"`
	CourseID           uint           `gorm:"index:idx_user_course_semester;not null" json:"course_id"`
	SemesterID         uint           `gorm:"index:idx_user_course_semester;not null" json:"semester_id"`
	EnrollmentDate     time.Time      `gorm:"not null" json:"enrollment_date"`
	Status             string         `gorm:"type:varchar(20);default:'enrolled'" json:"status"`
	IsActive           bool           `gorm:"default:true" json:"is_active"`
	Grade              string         `gorm:"type:varchar(5)" json:"grade,omitempty"`
	Score              *float64       `json:"score,omitempty"`
	CreditPointsEarned int            `gorm:"default:0" json:"credit_points_earned"`
	AttendancePercent  *float64       `json:"attendance_percent,omitempty"`

	// Relationships
	User     *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Course   *Course   `gorm:"foreignKey:CourseID" json:"course,omitempty"`
	Semester *Semester `gorm:"foreignKey:SemesterID" json:"semester,omitempty"`
}

// IsCourseStatusValid reports whether s is a recognized course enrollment status
func IsCourseStatusValid(s string) bool {
	switch s {
	case EnrollmentStatusEnrolled, EnrollmentStatusCompleted,
		EnrollmentStatusFailed, EnrollmentStatusDropped:
		return true
	}
	return false
}
