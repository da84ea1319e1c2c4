package datastore

import (
	"math"
	"sort"

	"github.com/edu-agent/backend/internal/storage/models"
)

// ClassAnalytics aggregates the admin's scoped view. Returns nil when the
// scope has no rows so callers never see a division by zero.
func (s *Store) ClassAnalytics(adminID string) *models.ClassAnalytics {
	scoped := s.FilterByScope(adminID)
	if len(scoped) == 0 {
		return nil
	}

	scores := make([]float64, 0, len(scoped))
	grades := make(map[string]int)
	classes := make(map[string]int)
	quizzes := make(map[string]struct{})
	submitted := 0

	for _, r := range scoped {
		scores = append(scores, r.QuizScore)
		grades[r.Grade]++
		classes[r.Class]++
		if r.UpcomingQuiz != "" {
			quizzes[r.UpcomingQuiz] = struct{}{}
		}
		if r.HomeworkSubmitted {
			submitted++
		}
	}

	total := len(scoped)
	return &models.ClassAnalytics{
		TotalStudents:          total,
		AverageQuizScore:       mean(scores),
		HomeworkCompletionRate: float64(submitted) / float64(total) * 100,
		GradeDistribution:      grades,
		ClassDistribution:      classes,
		UpcomingQuizCount:      len(quizzes),
		ScoreStatistics: models.ScoreStatistics{
			Min:    minOf(scores),
			Max:    maxOf(scores),
			Median: median(scores),
			StdDev: stddev(scores),
		},
	}
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func minOf(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func maxOf(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

func median(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// stddev is the sample standard deviation; zero for a single value.
func stddev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	var sum float64
	for _, v := range values {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)-1))
}
