package services

import (
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/fedpoffa/cbt-api/model"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB connects to the test database and migrates the models the
// enrollment and semester tests need. Tests are skipped unless
// RUN_INTEGRATION_TESTS=true.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	if os.Getenv("RUN_INTEGRATION_TESTS") != "true" {
		t.Skip("Skipping integration test. Set RUN_INTEGRATION_TESTS=true to run")
	}

	host := os.Getenv("DB_HOST")
	if host == "" {
		host = "localhost"
	}
	port := os.Getenv("DB_PORT")
	if port == "" {
		port = "5432"
	}

	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		host,
		os.Getenv("DB_USER_NAME"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		port,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	err = db.AutoMigrate(
		&model.User{},
		&model.Department{},
		&model.Program{},
		&model.Course{},
		&model.Semester{},
		&model.ProgramEnrollment{},
		&model.CourseEnrollment{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test schema: %v", err)
	}

	return db
}

// uniqueSuffix keeps fixture codes from colliding across test runs
func uniqueSuffix() string {
	return fmt.Sprintf("%d", time.Now().UnixNano())
}

func createTestStudent(t *testing.T, db *gorm.DB) *model.User {
	t.Helper()
	suffix := uniqueSuffix()
	user := model.User{
		Email:        fmt.Sprintf("student%s@fedpoffa.edu.ng", suffix),
		MatricNumber: "TST/" + suffix,
		PasswordHash: "irrelevant",
		FirstName:    "Test",
		LastName:     "Student",
		Role:         model.RoleStudent,
		IsActive:     true,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create test student: %v", err)
	}
	t.Cleanup(func() { db.Unscoped().Delete(&user) })
	return &user
}

func createTestProgram(t *testing.T, db *gorm.DB) *model.Program {
	t.Helper()
	suffix := uniqueSuffix()
	department := model.Department{
		Name:     "Test Department " + suffix,
		Code:     "TD" + suffix,
		IsActive: true,
	}
	if err := db.Create(&department).Error; err != nil {
		t.Fatalf("failed to create test department: %v", err)
	}
	program := model.Program{
		DepartmentID:           department.ID,
		Name:                   "Test Program " + suffix,
		Code:                   "TP" + suffix,
		Level:                  model.ProgramLevelND,
		DurationSemesters:      4,
		IsActive:               true,
		IsAcceptingEnrollments: true,
	}
	if err := db.Create(&program).Error; err != nil {
		t.Fatalf("failed to create test program: %v", err)
	}
	t.Cleanup(func() {
		db.Unscoped().Delete(&program)
		db.Unscoped().Delete(&department)
	})
	return &program
}

func createTestSemester(t *testing.T, db *gorm.DB) *model.Semester {
	t.Helper()
	now := time.Now()
	semester := model.Semester{
		Name:              "Test Semester " + uniqueSuffix(),
		AcademicYear:      "2025/2026",
		StartDate:         now,
		EndDate:           now.AddDate(0, 4, 0),
		RegistrationStart: now,
		RegistrationEnd:   now.AddDate(0, 1, 0),
		ExamStart:         now.AddDate(0, 3, 0),
		ExamEnd:           now.AddDate(0, 4, 0),
		IsActive:          true,
	}
	if err := db.Create(&semester).Error; err != nil {
		t.Fatalf("failed to create test semester: %v", err)
	}
	t.Cleanup(func() { db.Unscoped().Delete(&semester) })
	return &semester
}

func createTestCourse(t *testing.T, db *gorm.DB, programID uint) *model.Course {
	t.Helper()
	suffix := uniqueSuffix()
	course := model.Course{
		ProgramID:   programID,
		Name:        "Test Course " + suffix,
		Code:        "TC" + suffix,
		CreditUnits: 2,
		IsAvailable: true,
	}
	if err := db.Create(&course).Error; err != nil {
		t.Fatalf("failed to create test course: %v", err)
	}
	t.Cleanup(func() { db.Unscoped().Delete(&course) })
	return &course
}

func TestProgramEnrollmentLifecycle(t *testing.T) {
	db := setupTestDB(t)
	service := NewEnrollmentService(db)

	student := createTestStudent(t, db)
	program := createTestProgram(t, db)

	enrollment, err := service.EnrollStudentInProgram(student.ID, program.ID, "ADM-001")
	if err != nil {
		t.Fatalf("initial enrollment failed: %v", err)
	}
	t.Cleanup(func() { db.Unscoped().Delete(enrollment) })

	if enrollment.CurrentLevel != "ND1" {
		t.Errorf("CurrentLevel = %q, want ND1", enrollment.CurrentLevel)
	}
	if enrollment.Status != model.EnrollmentStatusEnrolled {
		t.Errorf("Status = %q, want enrolled", enrollment.Status)
	}

	// Enrolling again while active is a conflict
	if _, err := service.EnrollStudentInProgram(student.ID, program.ID, ""); !errors.Is(err, ErrAlreadyEnrolled) {
		t.Errorf("expected ErrAlreadyEnrolled, got %v", err)
	}

	// Deactivate, then re-enroll: the original row must be reactivated,
	// not duplicated
	if _, err := service.DeactivateProgramEnrollment(enrollment.ID); err != nil {
		t.Fatalf("deactivation failed: %v", err)
	}

	reactivated, err := service.EnrollStudentInProgram(student.ID, program.ID, "")
	if err != nil {
		t.Fatalf("re-enrollment failed: %v", err)
	}

	if reactivated.ID != enrollment.ID {
		t.Errorf("re-enrollment created row %d instead of reactivating row %d", reactivated.ID, enrollment.ID)
	}
	if !reactivated.IsActive {
		t.Error("reactivated enrollment should be active")
	}
	if reactivated.Status != model.EnrollmentStatusEnrolled {
		t.Errorf("reactivated Status = %q, want enrolled", reactivated.Status)
	}
	if reactivated.AdmissionNumber != "ADM-001" {
		t.Errorf("reactivation overwrote admission number: %q", reactivated.AdmissionNumber)
	}

	var count int64
	db.Model(&model.ProgramEnrollment{}).
		Where("user_id = ? AND program_id = ?", student.ID, program.ID).
		Count(&count)
	if count != 1 {
		t.Errorf("expected exactly 1 enrollment row, found %d", count)
	}
}

func TestProgramEnrollmentRejectsNonStudents(t *testing.T) {
	db := setupTestDB(t)
	service := NewEnrollmentService(db)

	program := createTestProgram(t, db)

	lecturer := createTestStudent(t, db)
	if err := db.Model(lecturer).Update("role", model.RoleLecturer).Error; err != nil {
		t.Fatalf("failed to update role: %v", err)
	}

	if _, err := service.EnrollStudentInProgram(lecturer.ID, program.ID, ""); !errors.Is(err, ErrNotStudent) {
		t.Errorf("expected ErrNotStudent, got %v", err)
	}
}

func TestProgramEnrollmentRespectsProgramState(t *testing.T) {
	db := setupTestDB(t)
	service := NewEnrollmentService(db)

	student := createTestStudent(t, db)
	program := createTestProgram(t, db)

	if err := db.Model(program).Update("is_accepting_enrollments", false).Error; err != nil {
		t.Fatalf("failed to update program: %v", err)
	}
	if _, err := service.EnrollStudentInProgram(student.ID, program.ID, ""); !errors.Is(err, ErrProgramNotAccepting) {
		t.Errorf("expected ErrProgramNotAccepting, got %v", err)
	}

	if err := db.Model(program).Update("is_active", false).Error; err != nil {
		t.Fatalf("failed to update program: %v", err)
	}
	if _, err := service.EnrollStudentInProgram(student.ID, program.ID, ""); !errors.Is(err, ErrProgramInactive) {
		t.Errorf("expected ErrProgramInactive, got %v", err)
	}
}

func TestCourseEnrollmentHardConflict(t *testing.T) {
	db := setupTestDB(t)
	service := NewEnrollmentService(db)

	student := createTestStudent(t, db)
	program := createTestProgram(t, db)
	course := createTestCourse(t, db, program.ID)
	semester := createTestSemester(t, db)

	enrollment, err := service.EnrollInCourse(student.ID, course.ID, semester.ID)
	if err != nil {
		t.Fatalf("course enrollment failed: %v", err)
	}
	t.Cleanup(func() { db.Unscoped().Delete(enrollment) })

	// A second active enrollment for the same (user, course, semester)
	// is always a conflict; there is no reactivation path for courses.
	if _, err := service.EnrollInCourse(student.ID, course.ID, semester.ID); !errors.Is(err, ErrAlreadyEnrolled) {
		t.Errorf("expected ErrAlreadyEnrolled, got %v", err)
	}

	// A different semester is a separate scope
	otherSemester := createTestSemester(t, db)
	other, err := service.EnrollInCourse(student.ID, course.ID, otherSemester.ID)
	if err != nil {
		t.Errorf("enrollment in a different semester should succeed: %v", err)
	} else {
		t.Cleanup(func() { db.Unscoped().Delete(other) })
	}
}

func TestCourseEnrollmentDropDeactivates(t *testing.T) {
	db := setupTestDB(t)
	service := NewEnrollmentService(db)

	student := createTestStudent(t, db)
	program := createTestProgram(t, db)
	course := createTestCourse(t, db, program.ID)
	semester := createTestSemester(t, db)

	enrollment, err := service.EnrollInCourse(student.ID, course.ID, semester.ID)
	if err != nil {
		t.Fatalf("course enrollment failed: %v", err)
	}
	t.Cleanup(func() { db.Unscoped().Delete(enrollment) })

	updated, err := service.UpdateCourseEnrollmentStatus(enrollment.ID, model.EnrollmentStatusDropped, "", nil)
	if err != nil {
		t.Fatalf("status update failed: %v", err)
	}
	if updated.IsActive {
		t.Error("dropped enrollment should be inactive")
	}

	// Dropping frees the slot: a fresh enrollment inserts a new row
	fresh, err := service.EnrollInCourse(student.ID, course.ID, semester.ID)
	if err != nil {
		t.Fatalf("re-enrollment after drop failed: %v", err)
	}
	t.Cleanup(func() { db.Unscoped().Delete(fresh) })

	if fresh.ID == enrollment.ID {
		t.Error("course re-enrollment must create a new row, not reuse the dropped one")
	}
}

func TestUpdateCourseEnrollmentStatusValidation(t *testing.T) {
	db := setupTestDB(t)
	service := NewEnrollmentService(db)

	if _, err := service.UpdateCourseEnrollmentStatus(1, "promoted", "", nil); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("expected ErrInvalidStatus, got %v", err)
	}
	if _, err := service.UpdateCourseEnrollmentStatus(0, model.EnrollmentStatusCompleted, "", nil); !errors.Is(err, ErrEnrollmentNotFound) {
		t.Errorf("expected ErrEnrollmentNotFound, got %v", err)
	}
}
