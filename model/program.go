package model

import (
	"time"

	"gorm.io/gorm"
)

// Program levels offered by the institution
const (
	ProgramLevelND  = "ND"
	ProgramLevelHND = "HND"
)

// Program represents an academic program offered by a department
type Program struct {
	ID                     uint           `gorm:"primaryKey" json:"id"`
	CreatedAt              time.Time      `json:"created_at"`
	UpdatedAt              time.Time      `json:"updated_at"`
	DeletedAt              gorm.DeletedAt `gorm:"index" json:"-"`
	DepartmentID           uint           `gorm:"index;not null" json:"department_id"`
	Name                   string         `gorm:"not null" json:"name"`
	Code                   string         `gorm:"uniqueIndex;not null;type:varchar(20)" json:"code"`
	Description            string         `gorm:"type:text" json:"description,omitempty"`
	Level                  string         `gorm:"type:varchar(10);default:'ND'" json:"level"`
	DurationSemesters      int            `gorm:"default:4" json:"duration_semesters"`
	IsActive               bool           `gorm:"default:true" json:"is_active"`
	IsAcceptingEnrollments bool           `gorm:"default:true" json:"is_accepting_enrollments"`

	// Relationships
	Department  *Department         `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
	Courses     []Course            `gorm:"foreignKey:ProgramID" json:"courses,omitempty"`
	Enrollments []ProgramEnrollment `gorm:"foreignKey:ProgramID" json:"-"`
}
