// Package export serializes a scoped view for download. Only records the
// admin can already see are ever handed in.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/edu-agent/backend/internal/storage/models"
)

var columns = []string{
	"student_name", "grade", "class", "region", "quiz_score", "quiz_date",
	"homework_submitted", "upcoming_quiz", "upcoming_quiz_date", "performance_week",
}

// CSV renders the view with a header row, one line per record.
func CSV(records []models.StudentRecord) (string, error) {
	var b strings.Builder
	w := csv.NewWriter(&b)

	if err := w.Write(columns); err != nil {
		return "", fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, r := range records {
		row := []string{
			r.StudentName, r.Grade, r.Class, r.Region,
			strconv.FormatFloat(r.QuizScore, 'f', -1, 64), r.QuizDate,
			strconv.FormatBool(r.HomeworkSubmitted),
			r.UpcomingQuiz, r.UpcomingQuizDate, r.PerformanceWeek,
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("failed to flush csv: %w", err)
	}
	return b.String(), nil
}

// JSON renders the view as an indented record array.
func JSON(records []models.StudentRecord) (string, error) {
	if records == nil {
		records = []models.StudentRecord{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal records: %w", err)
	}
	return string(data), nil
}
