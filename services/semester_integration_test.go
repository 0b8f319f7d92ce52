package services

import (
	"errors"
	"testing"

	"github.com/fedpoffa/cbt-api/model"
)

func TestSetCurrentSemesterKeepsSingleCurrent(t *testing.T) {
	db := setupTestDB(t)
	service := NewSemesterService(db)

	first := createTestSemester(t, db)
	second := createTestSemester(t, db)

	if _, err := service.SetCurrentSemester(first.ID); err != nil {
		t.Fatalf("SetCurrentSemester failed: %v", err)
	}

	current, err := service.GetCurrentSemester()
	if err != nil {
		t.Fatalf("GetCurrentSemester failed: %v", err)
	}
	if current.ID != first.ID {
		t.Errorf("current semester = %d, want %d", current.ID, first.ID)
	}

	// Switching must clear the flag on the previous row
	if _, err := service.SetCurrentSemester(second.ID); err != nil {
		t.Fatalf("SetCurrentSemester failed: %v", err)
	}

	var count int64
	db.Model(&model.Semester{}).Where("is_current = ?", true).Count(&count)
	if count != 1 {
		t.Errorf("expected exactly 1 current semester, found %d", count)
	}

	current, err = service.GetCurrentSemester()
	if err != nil {
		t.Fatalf("GetCurrentSemester failed: %v", err)
	}
	if current.ID != second.ID {
		t.Errorf("current semester = %d, want %d", current.ID, second.ID)
	}

	// Setting the already-current semester again is harmless
	if _, err := service.SetCurrentSemester(second.ID); err != nil {
		t.Fatalf("idempotent SetCurrentSemester failed: %v", err)
	}
	db.Model(&model.Semester{}).Where("is_current = ?", true).Count(&count)
	if count != 1 {
		t.Errorf("expected exactly 1 current semester after repeat, found %d", count)
	}
}

func TestSetCurrentSemesterUnknownID(t *testing.T) {
	db := setupTestDB(t)
	service := NewSemesterService(db)

	if _, err := service.SetCurrentSemester(0); !errors.Is(err, ErrSemesterNotFound) {
		t.Errorf("expected ErrSemesterNotFound, got %v", err)
	}
}
