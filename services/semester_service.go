package services

import (
	"errors"

	"github.com/fedpoffa/cbt-api/model"
	"gorm.io/gorm"
)

var (
	ErrNoCurrentSemester = errors.New("no current semester is set")
)

// SemesterService owns the single-current-semester invariant
type SemesterService struct {
	db *gorm.DB
}

// NewSemesterService creates a new semester service
func NewSemesterService(db *gorm.DB) *SemesterService {
	return &SemesterService{db: db}
}

// SetCurrentSemester makes the given semester the institution-wide current
// one. The flag is cleared on all rows and set on the target inside one
// transaction, so at most one semester is ever current.
func (s *SemesterService) SetCurrentSemester(semesterID uint) (*model.Semester, error) {
	var semester model.Semester
	if err := s.db.First(&semester, semesterID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSemesterNotFound
		}
		return nil, err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Semester{}).
			Where("is_current = ?", true).
			Update("is_current", false).Error; err != nil {
			return err
		}

		return tx.Model(&model.Semester{}).
			Where("id = ?", semesterID).
			Update("is_current", true).Error
	})
	if err != nil {
		return nil, err
	}

	semester.IsCurrent = true
	return &semester, nil
}

// GetCurrentSemester returns the semester flagged as current
func (s *SemesterService) GetCurrentSemester() (*model.Semester, error) {
	var semester model.Semester
	err := s.db.Where("is_current = ?", true).First(&semester).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoCurrentSemester
		}
		return nil, err
	}
	return &semester, nil
}

// SemesterStats summarizes the semester table for the overview endpoint
type SemesterStats struct {
	Total           int64  `json:"total"`
	Active          int64  `json:"active"`
	CurrentSemester string `json:"current_semester,omitempty"`
}

// GetStats computes the semester overview statistics
func (s *SemesterService) GetStats() (*SemesterStats, error) {
	stats := &SemesterStats{}

	if err := s.db.Model(&model.Semester{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&model.Semester{}).Where("is_active = ?", true).Count(&stats.Active).Error; err != nil {
		return nil, err
	}

	current, err := s.GetCurrentSemester()
	if err == nil {
		stats.CurrentSemester = current.Name + " " + current.AcademicYear
	} else if !errors.Is(err, ErrNoCurrentSemester) {
		return nil, err
	}

	return stats, nil
}
