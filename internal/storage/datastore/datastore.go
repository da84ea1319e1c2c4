package datastore

import (
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/edu-agent/backend/internal/storage/models"
	"github.com/edu-agent/backend/pkg/logger"
)

// Store holds the read-only dataset snapshot and the admin directory. Every
// accessor is pure over the snapshot and fails closed: an unknown admin gets
// an empty view, never an error.
type Store struct {
	students []models.StudentRecord
	admins   map[string]models.AdminProfile
	order    []string
}

// NewStore loads both snapshot files once. A loading failure is fatal to the
// session and is returned to the caller.
func NewStore(studentsPath, adminsPath string) (*Store, error) {
	studentsData, err := os.ReadFile(studentsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read students file: %w", err)
	}

	var students []models.StudentRecord
	if err := json.Unmarshal(studentsData, &students); err != nil {
		return nil, fmt.Errorf("failed to parse students file: %w", err)
	}

	adminsData, err := os.ReadFile(adminsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read admins file: %w", err)
	}

	var admins []models.AdminProfile
	if err := json.Unmarshal(adminsData, &admins); err != nil {
		return nil, fmt.Errorf("failed to parse admins file: %w", err)
	}

	store := NewFromSnapshot(students, admins)

	logger.Info("Dataset snapshot loaded",
		zap.Int("students", len(students)),
		zap.Int("admins", len(admins)),
	)

	return store, nil
}

// NewFromSnapshot builds a store from in-memory data.
func NewFromSnapshot(students []models.StudentRecord, admins []models.AdminProfile) *Store {
	index := make(map[string]models.AdminProfile, len(admins))
	order := make([]string, 0, len(admins))
	for _, a := range admins {
		if _, dup := index[a.AdminID]; !dup {
			order = append(order, a.AdminID)
		}
		index[a.AdminID] = a
	}
	return &Store{students: students, admins: index, order: order}
}

// Profile returns the directory entry for an admin, including its access
// code. Callers outside the auth layer should prefer AdminInfo.
func (s *Store) Profile(adminID string) (models.AdminProfile, bool) {
	p, ok := s.admins[adminID]
	return p, ok
}

// Admins lists directory entries in file order, for login pickers.
func (s *Store) Admins() []models.AdminProfile {
	out := make([]models.AdminProfile, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.admins[id])
	}
	return out
}

// ScopeOf returns the admin's access scope, or the zero scope for an unknown
// admin.
func (s *Store) ScopeOf(adminID string) models.AccessScope {
	p, ok := s.admins[adminID]
	if !ok {
		return models.AccessScope{}
	}
	return p.AccessScope
}

// FilterByScope returns the records visible to an admin, in dataset order.
// All configured dimensions are ANDed; an unknown admin or an admin with no
// configured dimensions gets nothing.
func (s *Store) FilterByScope(adminID string) []models.StudentRecord {
	p, ok := s.admins[adminID]
	if !ok || p.AccessScope.Empty() {
		return nil
	}

	var out []models.StudentRecord
	for _, r := range s.students {
		if p.AccessScope.Allows(r) {
			out = append(out, r)
		}
	}
	return out
}

// StudentsWithoutHomework narrows the scoped view to missing homework.
func (s *Store) StudentsWithoutHomework(adminID string) []models.StudentRecord {
	var out []models.StudentRecord
	for _, r := range s.FilterByScope(adminID) {
		if !r.HomeworkSubmitted {
			out = append(out, r)
		}
	}
	return out
}

// PerformanceData returns the scoped performance projection, optionally
// narrowed to an exact grade and performance week.
func (s *Store) PerformanceData(adminID, grade, week string) []models.PerformanceRow {
	var matched []models.StudentRecord
	for _, r := range s.FilterByScope(adminID) {
		if grade != "" && r.Grade != grade {
			continue
		}
		if week != "" && r.PerformanceWeek != week {
			continue
		}
		matched = append(matched, r)
	}
	return models.PerformanceRowsOf(matched)
}

// UpcomingQuizzes returns the scoped quiz projection, deduplicated on the
// full projected tuple.
func (s *Store) UpcomingQuizzes(adminID string) []models.QuizRow {
	return models.QuizRowsOf(s.FilterByScope(adminID))
}

// ByScoreThreshold filters the scoped view by a score comparison. Operators
// other than <, > and = pass the view through unchanged.
func (s *Store) ByScoreThreshold(adminID string, threshold float64, operator string) []models.StudentRecord {
	scoped := s.FilterByScope(adminID)

	var out []models.StudentRecord
	for _, r := range scoped {
		switch operator {
		case "<":
			if r.QuizScore < threshold {
				out = append(out, r)
			}
		case ">":
			if r.QuizScore > threshold {
				out = append(out, r)
			}
		case "=":
			if r.QuizScore == threshold {
				out = append(out, r)
			}
		default:
			out = append(out, r)
		}
	}
	return out
}

// StudentsNeedingSupport flags low scores or missing homework.
func (s *Store) StudentsNeedingSupport(adminID string, threshold float64) []models.SupportRow {
	if threshold == 0 {
		threshold = 75
	}
	var out []models.SupportRow
	for _, r := range s.FilterByScope(adminID) {
		if r.QuizScore < threshold || !r.HomeworkSubmitted {
			out = append(out, models.SupportRow{
				StudentName:       r.StudentName,
				Grade:             r.Grade,
				Class:             r.Class,
				QuizScore:         r.QuizScore,
				HomeworkSubmitted: r.HomeworkSubmitted,
			})
		}
	}
	return out
}

// HighPerformers lists students at or above the threshold with homework done.
func (s *Store) HighPerformers(adminID string, threshold float64) []models.SupportRow {
	if threshold == 0 {
		threshold = 90
	}
	var out []models.SupportRow
	for _, r := range s.FilterByScope(adminID) {
		if r.QuizScore >= threshold && r.HomeworkSubmitted {
			out = append(out, models.SupportRow{
				StudentName:       r.StudentName,
				Grade:             r.Grade,
				Class:             r.Class,
				QuizScore:         r.QuizScore,
				HomeworkSubmitted: r.HomeworkSubmitted,
			})
		}
	}
	return out
}

// AdminInfo denormalizes an admin's profile with its accessible-student
// count. Returns nil for an unknown admin.
func (s *Store) AdminInfo(adminID string) *models.AdminInfo {
	p, ok := s.admins[adminID]
	if !ok {
		return nil
	}

	scope := p.AccessScope
	return &models.AdminInfo{
		AdminID:            p.AdminID,
		AdminName:          p.AdminName,
		AccessScope:        scope,
		AccessibleStudents: len(s.FilterByScope(adminID)),
		GradesManaged:      scope.Grades,
		ClassesManaged:     scope.Classes,
		RegionsManaged:     scope.Regions,
	}
}
