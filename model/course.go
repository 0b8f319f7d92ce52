package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Course represents a course offered within a program
type Course struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
	ProgramID     uint           `gorm:"index;not null" json:"program_id"`
	SemesterID    *uint          `gorm:"index" json:"semester_id,omitempty"`
	Name          string         `gorm:"not null" json:"name"`
	Code          string         `gorm:"uniqueIndex;not null;type:varchar(20)" json:"code"`
	Description   string         `gorm:"type:text" json:"description,omitempty"`
	CreditUnits   int            `gorm:"default:2" json:"credit_units"`
	Level         string         `gorm:"type:varchar(10)" json:"level,omitempty"`
	CoordinatorID *uint          `gorm:"index" json:"coordinator_id,omitempty"`
	IsAvailable   bool           `gorm:"default:true" json:"is_available"`
	Prerequisites datatypes.JSON `gorm:"type:jsonb" json:"prerequisites,omitempty"` // list of course codes

	// Relationships
	Program     *Program           `gorm:"foreignKey:ProgramID" json:"program,omitempty"`
	Semester    *Semester          `gorm:"foreignKey:SemesterID" json:"semester,omitempty"`
	Coordinator *User              `gorm:"foreignKey:CoordinatorID" json:"coordinator,omitempty"`
	Enrollments []CourseEnrollment `gorm:"foreignKey:CourseID" json:"-"`
}
