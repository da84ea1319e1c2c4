package datastore

import (
	"math"
	"testing"
)

func TestClassAnalytics(t *testing.T) {
	s := testStore()

	// Scores for A1: 60, 80, 95.
	a := s.ClassAnalytics("A1")
	if a == nil {
		t.Fatal("expected analytics for scoped admin")
	}

	if a.TotalStudents != 3 {
		t.Errorf("TotalStudents = %d, want 3", a.TotalStudents)
	}
	if !almostEqual(a.AverageQuizScore, 78.333333) {
		t.Errorf("AverageQuizScore = %v", a.AverageQuizScore)
	}
	if !almostEqual(a.HomeworkCompletionRate, 66.666666) {
		t.Errorf("HomeworkCompletionRate = %v", a.HomeworkCompletionRate)
	}
	if a.GradeDistribution["Grade 5"] != 3 {
		t.Errorf("GradeDistribution = %v", a.GradeDistribution)
	}
	if a.ClassDistribution["5A"] != 2 || a.ClassDistribution["5B"] != 1 {
		t.Errorf("ClassDistribution = %v", a.ClassDistribution)
	}
	if a.UpcomingQuizCount != 2 {
		t.Errorf("UpcomingQuizCount = %d, want 2", a.UpcomingQuizCount)
	}

	stats := a.ScoreStatistics
	if stats.Min != 60 || stats.Max != 95 {
		t.Errorf("Min/Max = %v/%v", stats.Min, stats.Max)
	}
	if stats.Median != 80 {
		t.Errorf("Median = %v, want 80", stats.Median)
	}
	// Sample standard deviation of {60, 80, 95}.
	if !almostEqual(stats.StdDev, 17.559423) {
		t.Errorf("StdDev = %v", stats.StdDev)
	}
}

func TestClassAnalytics_EmptyScope(t *testing.T) {
	s := testStore()

	if got := s.ClassAnalytics("A4"); got != nil {
		t.Error("analytics should be nil for an empty scope")
	}
}

func TestMedian(t *testing.T) {
	tests := []struct {
		name string
		in   []float64
		want float64
	}{
		{"odd", []float64{95, 60, 80}, 80},
		{"even", []float64{60, 80, 90, 100}, 85},
		{"single", []float64{42}, 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := median(tt.in); got != tt.want {
				t.Errorf("median(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestStdDev_SingleValue(t *testing.T) {
	if got := stddev([]float64{80}); got != 0 {
		t.Errorf("stddev of one value = %v, want 0", got)
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-4
}
