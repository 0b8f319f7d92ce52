package model

import (
	"time"

	"gorm.io/gorm"
)

// User represents a registered account in the system
type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	MatricNumber string         `gorm:"uniqueIndex;not null;type:varchar(50)" json:"matric_number"`
	PasswordHash string         `gorm:"not null" json:"-"` // Never expose password in JSON
	FirstName    string         `gorm:"not null" json:"first_name"`
	LastName     string         `gorm:"not null" json:"last_name"`
	Phone        string         `gorm:"type:varchar(20)" json:"phone,omitempty"`
	Role         Role           `gorm:"type:varchar(20);default:'student'" json:"role"`
	DepartmentID *uint          `gorm:"index" json:"department_id,omitempty"`
	IsActive     bool           `gorm:"default:true" json:"is_active"`
	IsVerified   bool           `gorm:"default:false" json:"is_verified"`
	LastLoginAt  *time.Time     `json:"last_login_at,omitempty"`
	TokenVersion int            `gorm:"default:0" json:"-"` // Increment to invalidate all user tokens

	// Relationships
	Department         *Department         `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
	ProgramEnrollments []ProgramEnrollment `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	CourseEnrollments  []CourseEnrollment  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	TokenBlacklist     []JWTTokenBlacklist `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// FullName returns the user's display name
func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// IsStudent reports whether the account is a student account
func (u *User) IsStudent() bool {
	return u.Role == RoleStudent
}
