// Package respond renders scoped data views into the plain-text answers the
// UI displays. Business "no match" outcomes are sentences, never errors.
package respond

import (
	"fmt"
	"strconv"

	"github.com/edu-agent/backend/internal/intent"
	"github.com/edu-agent/backend/internal/storage/models"
)

var emptyResponses = map[intent.Category]string{
	intent.Homework:    "Great news! All students in your scope have submitted their homework.",
	intent.Performance: "No performance data found matching your criteria.",
	intent.Quiz:        "No quizzes found matching your search criteria.",
	intent.Analytics:   "Insufficient data to generate analytics for your request.",
	intent.Support:     "All students appear to be performing well based on available data.",
}

// Empty is the fixed answer for a category whose data view came back empty.
func Empty(cat intent.Category) string {
	if msg, ok := emptyResponses[cat]; ok {
		return msg
	}
	return "No data found matching your query criteria."
}

// Contextual dispatches a full-record view to the formatter matching the
// resolved category.
func Contextual(records []models.StudentRecord, d intent.Descriptor) string {
	switch d.Category {
	case intent.Homework:
		return Homework(records)
	case intent.Performance:
		return Performance(models.PerformanceRowsOf(records), d)
	case intent.Quiz:
		return Quiz(models.QuizRowsOf(records))
	case intent.Analytics:
		return Analytics(records)
	case intent.Support:
		return Support(records, d)
	default:
		return General(records)
	}
}

// Homework lists students in the view who still owe homework.
func Homework(records []models.StudentRecord) string {
	var missing []models.StudentRecord
	for _, r := range records {
		if !r.HomeworkSubmitted {
			missing = append(missing, r)
		}
	}
	if len(missing) == 0 {
		return "All students have submitted their homework."
	}

	rows := make([][]string, 0, len(missing))
	for _, r := range missing {
		rows = append(rows, []string{r.StudentName, r.Grade, r.Class})
	}
	title := fmt.Sprintf("Students Missing Homework (%d out of %d)", len(missing), len(records))
	return Table([]string{"student_name", "grade", "class"}, rows, title, "")
}

// Performance applies the extracted threshold, if any, and reports the
// average over the surviving rows.
func Performance(data []models.PerformanceRow, d intent.Descriptor) string {
	filtered := data
	title := "Performance Analysis"

	if d.HasThreshold {
		switch d.Operator {
		case "<":
			filtered = filterPerformance(data, func(s float64) bool { return s < d.Threshold })
			title = fmt.Sprintf("Students with Quiz Scores Below %s", formatScore(d.Threshold))
		case ">":
			filtered = filterPerformance(data, func(s float64) bool { return s > d.Threshold })
			title = fmt.Sprintf("Students with Quiz Scores Above %s", formatScore(d.Threshold))
		}
	}

	if len(filtered) == 0 {
		return "No students found matching your criteria."
	}

	var sum float64
	rows := make([][]string, 0, len(filtered))
	for _, r := range filtered {
		sum += r.QuizScore
		rows = append(rows, []string{r.StudentName, r.Grade, r.Class, formatScore(r.QuizScore)})
	}
	summary := fmt.Sprintf("Average: %.1f | Total: %d students", sum/float64(len(filtered)), len(filtered))

	return Table([]string{"student_name", "grade", "class", "quiz_score"}, rows, title, summary)
}

func filterPerformance(data []models.PerformanceRow, keep func(float64) bool) []models.PerformanceRow {
	var out []models.PerformanceRow
	for _, r := range data {
		if keep(r.QuizScore) {
			out = append(out, r)
		}
	}
	return out
}

// Quiz renders the upcoming-quiz view, deduplicated on the full tuple, with
// a distinct-quiz count summary.
func Quiz(data []models.QuizRow) string {
	seen := make(map[models.QuizRow]struct{}, len(data))
	unique := make(map[string]struct{})
	rows := make([][]string, 0, len(data))

	for _, r := range data {
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		if r.UpcomingQuiz != "" {
			unique[r.UpcomingQuiz] = struct{}{}
		}
		rows = append(rows, []string{r.StudentName, r.Grade, r.Class, r.UpcomingQuiz, r.UpcomingQuizDate})
	}

	summary := fmt.Sprintf("Total Unique Quizzes: %d", len(unique))
	return Table(
		[]string{"student_name", "grade", "class", "upcoming_quiz", "upcoming_quiz_date"},
		rows, "Upcoming Quizzes", summary,
	)
}

// Analytics renders a short bullet report over the view's scores and
// homework completion.
func Analytics(records []models.StudentRecord) string {
	if len(records) == 0 {
		return "Analytics generated successfully."
	}

	var sum float64
	minScore := records[0].QuizScore
	maxScore := records[0].QuizScore
	submitted := 0
	for _, r := range records {
		sum += r.QuizScore
		if r.QuizScore < minScore {
			minScore = r.QuizScore
		}
		if r.QuizScore > maxScore {
			maxScore = r.QuizScore
		}
		if r.HomeworkSubmitted {
			submitted++
		}
	}

	rate := float64(submitted) / float64(len(records)) * 100

	return fmt.Sprintf(
		"Quiz Score Analytics:\n   • Average: %.1f\n   • Range: %s - %s\nHomework Completion: %.1f%%",
		sum/float64(len(records)), formatScore(minScore), formatScore(maxScore), rate,
	)
}

// Support splits the view on the threshold (default: below 75) and pairs the
// table with a recommendation.
func Support(records []models.StudentRecord, d intent.Descriptor) string {
	threshold := 75.0
	operator := "<"
	if d.HasThreshold {
		threshold = d.Threshold
		operator = d.Operator
	}

	if operator == "<" {
		var struggling [][]string
		for _, r := range records {
			if r.QuizScore < threshold {
				struggling = append(struggling, []string{r.StudentName, r.Grade, r.Class, formatScore(r.QuizScore)})
			}
		}
		if len(struggling) == 0 {
			return fmt.Sprintf("Excellent! All students have quiz scores of %s or above.", formatScore(threshold))
		}
		title := fmt.Sprintf("Students Needing Support (scores < %s)", formatScore(threshold))
		recommendation := "Recommendation: Consider additional tutoring or review sessions."
		return Table([]string{"student_name", "grade", "class", "quiz_score"}, struggling, title, recommendation)
	}

	var excelling [][]string
	for _, r := range records {
		if r.QuizScore > threshold {
			excelling = append(excelling, []string{r.StudentName, r.Grade, r.Class, formatScore(r.QuizScore)})
		}
	}
	if len(excelling) == 0 {
		return fmt.Sprintf("No students found with scores above %s.", formatScore(threshold))
	}
	title := fmt.Sprintf("High-Performing Students (scores > %s)", formatScore(threshold))
	recommendation := "Recommendation: Consider advanced challenges or peer tutoring opportunities."
	return Table([]string{"student_name", "grade", "class", "quiz_score"}, excelling, title, recommendation)
}

// General renders the full view as a generic result table.
func General(records []models.StudentRecord) string {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.StudentName, r.Grade, r.Class, r.Region,
			formatScore(r.QuizScore), r.QuizDate,
			strconv.FormatBool(r.HomeworkSubmitted),
			r.UpcomingQuiz, r.UpcomingQuizDate, r.PerformanceWeek,
		})
	}
	columns := []string{
		"student_name", "grade", "class", "region", "quiz_score", "quiz_date",
		"homework_submitted", "upcoming_quiz", "upcoming_quiz_date", "performance_week",
	}
	summary := fmt.Sprintf("Total Records: %d", len(records))
	return Table(columns, rows, "Query Results", summary)
}

// MissingHomeworkTable is the deterministic-fallback rendering of the
// missing-homework view.
func MissingHomeworkTable(records []models.StudentRecord, title string) string {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		if r.HomeworkSubmitted {
			continue
		}
		rows = append(rows, []string{r.StudentName, r.Grade, r.Class})
	}
	return Table([]string{"student_name", "grade", "class"}, rows, title, "")
}

// RosterTable lists name, grade, class and score for every record in the view.
func RosterTable(records []models.StudentRecord, title string) string {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{r.StudentName, r.Grade, r.Class, formatScore(r.QuizScore)})
	}
	return Table([]string{"student_name", "grade", "class", "quiz_score"}, rows, title, "")
}
