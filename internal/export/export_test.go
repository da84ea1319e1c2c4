package export

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/edu-agent/backend/internal/storage/models"
)

func sampleRecords() []models.StudentRecord {
	return []models.StudentRecord{
		{StudentName: "Alice Johnson", Grade: "Grade 5", Class: "5A", Region: "North", QuizScore: 60.5, QuizDate: "2024-01-10", HomeworkSubmitted: false, UpcomingQuiz: "Math Quiz 3", UpcomingQuizDate: "2024-01-20", PerformanceWeek: "2024-W02"},
		{StudentName: "Bob Smith", Grade: "Grade 5", Class: "5A", Region: "North", QuizScore: 80, QuizDate: "2024-01-10", HomeworkSubmitted: true, UpcomingQuiz: "Math Quiz 3", UpcomingQuizDate: "2024-01-20", PerformanceWeek: "2024-W02"},
	}
}

func TestCSV(t *testing.T) {
	out, err := CSV(sampleRecords())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want header plus 2 rows", len(lines))
	}
	if lines[0] != "student_name,grade,class,region,quiz_score,quiz_date,homework_submitted,upcoming_quiz,upcoming_quiz_date,performance_week" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "Alice Johnson,Grade 5,5A,North,60.5,2024-01-10,false,Math Quiz 3,2024-01-20,2024-W02" {
		t.Errorf("row 1 = %q", lines[1])
	}
	if !strings.Contains(lines[2], ",80,") {
		t.Errorf("whole score should not carry a decimal: %q", lines[2])
	}
}

func TestCSV_Empty(t *testing.T) {
	out, err := CSV(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lines := strings.Split(strings.TrimSpace(out), "\n"); len(lines) != 1 {
		t.Errorf("empty view should render only the header, got %d lines", len(lines))
	}
}

func TestJSON_RoundTrip(t *testing.T) {
	out, err := JSON(sampleRecords())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded []models.StudentRecord
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(decoded) != 2 || decoded[0].StudentName != "Alice Johnson" {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestJSON_NilView(t *testing.T) {
	out, err := JSON(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out) != "[]" {
		t.Errorf("nil view should render an empty array, got %q", out)
	}
}
