package models

import "testing"

func TestAccessScope_Empty(t *testing.T) {
	tests := []struct {
		name  string
		scope AccessScope
		want  bool
	}{
		{"nothing configured", AccessScope{}, true},
		{"grades configured", AccessScope{Grades: []string{"Grade 5"}}, false},
		{"classes configured", AccessScope{Classes: []string{"5A"}}, false},
		{"regions configured", AccessScope{Regions: []string{"North"}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.scope.Empty(); got != tt.want {
				t.Errorf("Empty() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAccessScope_Allows(t *testing.T) {
	record := StudentRecord{Grade: "Grade 5", Class: "5A", Region: "North"}

	tests := []struct {
		name  string
		scope AccessScope
		want  bool
	}{
		{"matching grade", AccessScope{Grades: []string{"Grade 5"}}, true},
		{"wrong grade", AccessScope{Grades: []string{"Grade 6"}}, false},
		{"all dimensions match", AccessScope{Grades: []string{"Grade 5"}, Classes: []string{"5A"}, Regions: []string{"North"}}, true},
		{"one dimension misses", AccessScope{Grades: []string{"Grade 5"}, Regions: []string{"South"}}, false},
		// A dimension that is present but empty matches nothing; only a
		// missing dimension is unrestricted.
		{"present empty dimension", AccessScope{Grades: []string{"Grade 5"}, Classes: []string{}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.scope.Allows(record); got != tt.want {
				t.Errorf("Allows() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestQuizRowsOf_Dedupes(t *testing.T) {
	records := []StudentRecord{
		{StudentName: "Alice", Grade: "Grade 5", Class: "5A", UpcomingQuiz: "Math Quiz 3", UpcomingQuizDate: "2024-01-20"},
		{StudentName: "Alice", Grade: "Grade 5", Class: "5A", UpcomingQuiz: "Math Quiz 3", UpcomingQuizDate: "2024-01-20"},
	}

	if got := QuizRowsOf(records); len(got) != 1 {
		t.Errorf("got %d rows, want 1", len(got))
	}
}
