package model

import (
	"time"

	"gorm.io/gorm"
)

// Department represents an academic department
type Department struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	Name        string         `gorm:"not null" json:"name"`
	Code        string         `gorm:"uniqueIndex;not null;type:varchar(20)" json:"code"`
	Description string         `gorm:"type:text" json:"description,omitempty"`
	HODName     string         `gorm:"type:varchar(255)" json:"hod_name,omitempty"`
	HODEmail    string         `gorm:"type:varchar(255)" json:"hod_email,omitempty"`
	IsActive    bool           `gorm:"default:true" json:"is_active"`

	// Relationships
	Programs []Program `gorm:"foreignKey:DepartmentID" json:"programs,omitempty"`
	Users    []User    `gorm:"foreignKey:DepartmentID" json:"-"`
}
