package database

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/fedpoffa/cbt-api/config"
	"github.com/fedpoffa/cbt-api/model"
	"github.com/fedpoffa/cbt-api/utils/auth"
	"gorm.io/gorm"
)

// Seed bootstraps the minimum data a fresh installation needs: an IT
// admin account plus a sample department, program and semester. It is
// idempotent and safe to run on every startup.
func Seed(db *gorm.DB) error {
	if err := seedAdmin(db); err != nil {
		return err
	}
	if err := seedAcademicStructure(db); err != nil {
		return err
	}
	return nil
}

func seedAdmin(db *gorm.DB) error {
	getEnv, err := config.Get()
	if err != nil {
		return err
	}

	adminEmail := getEnv.ADMIN_EMAIL
	adminPassword := getEnv.ADMIN_PASSWORD
	if adminEmail == "" || adminPassword == "" {
		log.Println("ADMIN_EMAIL/ADMIN_PASSWORD not set, skipping admin seed")
		return nil
	}

	var existing model.User
	err = db.Where("email = ?", adminEmail).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := auth.HashPassword(adminPassword)
	if err != nil {
		return err
	}

	admin := model.User{
		Email:        adminEmail,
		MatricNumber: "IT-ADMIN-001",
		PasswordHash: hash,
		FirstName:    "System",
		LastName:     "Administrator",
		Role:         model.RoleITAdmin,
		IsActive:     true,
		IsVerified:   true,
	}

	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	log.Println("Seeded IT admin account:", adminEmail)
	return nil
}

func seedAcademicStructure(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.Department{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	department := model.Department{
		Name:        "Computer Science",
		Code:        "CS",
		Description: "Department of Computer Science",
		IsActive:    true,
	}
	if err := db.Create(&department).Error; err != nil {
		return err
	}

	program := model.Program{
		DepartmentID:           department.ID,
		Name:                   "National Diploma in Computer Science",
		Code:                   "ND-CS",
		Level:                  model.ProgramLevelND,
		DurationSemesters:      4,
		IsActive:               true,
		IsAcceptingEnrollments: true,
	}
	if err := db.Create(&program).Error; err != nil {
		return err
	}

	now := time.Now()
	semester := model.Semester{
		Name:              "First Semester",
		AcademicYear:      academicYearFor(now),
		StartDate:         now,
		EndDate:           now.AddDate(0, 4, 0),
		RegistrationStart: now,
		RegistrationEnd:   now.AddDate(0, 1, 0),
		ExamStart:         now.AddDate(0, 3, 0),
		ExamEnd:           now.AddDate(0, 4, 0),
		IsCurrent:         true,
		IsActive:          true,
	}
	if err := db.Create(&semester).Error; err != nil {
		return err
	}

	log.Println("Seeded sample department, program and semester")
	return nil
}

// academicYearFor formats an academic session label like "2025/2026".
// Sessions starting before September belong to the previous session.
func academicYearFor(t time.Time) string {
	year := t.Year()
	if t.Month() < time.September {
		year--
	}
	return fmt.Sprintf("%d/%d", year, year+1)
}
