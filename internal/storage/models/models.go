package models

import "time"

// StudentRecord is one row of the dataset snapshot. Records are immutable
// once loaded; student_name is the display identity but is not unique.
type StudentRecord struct {
	StudentName       string  `json:"student_name"`
	Grade             string  `json:"grade"`
	Class             string  `json:"class"`
	Region            string  `json:"region"`
	QuizScore         float64 `json:"quiz_score"`
	QuizDate          string  `json:"quiz_date"`
	HomeworkSubmitted bool    `json:"homework_submitted"`
	UpcomingQuiz      string  `json:"upcoming_quiz,omitempty"`
	UpcomingQuizDate  string  `json:"upcoming_quiz_date,omitempty"`
	PerformanceWeek   string  `json:"performance_week"`
}

// AccessScope restricts which records an admin may see. A nil dimension means
// unrestricted; a present-but-empty dimension matches nothing. A scope with
// all dimensions nil is treated as no access at all (fail closed).
type AccessScope struct {
	Grades  []string `json:"grades,omitempty"`
	Classes []string `json:"classes,omitempty"`
	Regions []string `json:"regions,omitempty"`
}

// Empty reports whether no dimension was configured. An empty scope grants
// nothing (fail closed), distinct from a single missing dimension which
// leaves that dimension unrestricted.
func (s AccessScope) Empty() bool {
	return s.Grades == nil && s.Classes == nil && s.Regions == nil
}

func (s AccessScope) Allows(r StudentRecord) bool {
	if s.Grades != nil && !contains(s.Grades, r.Grade) {
		return false
	}
	if s.Classes != nil && !contains(s.Classes, r.Class) {
		return false
	}
	if s.Regions != nil && !contains(s.Regions, r.Region) {
		return false
	}
	return true
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

type AdminProfile struct {
	AdminID     string      `json:"admin_id"`
	AdminName   string      `json:"admin_name"`
	AccessCode  string      `json:"access_code"`
	AccessScope AccessScope `json:"access_scope"`
}

// ConversationTurn is one entry of an engine's bounded history.
type ConversationTurn struct {
	Query     string
	Intent    string
	Timestamp time.Time
}

// PerformanceRow is the projection served for performance queries.
type PerformanceRow struct {
	StudentName string  `json:"student_name"`
	Grade       string  `json:"grade"`
	Class       string  `json:"class"`
	QuizScore   float64 `json:"quiz_score"`
	QuizDate    string  `json:"quiz_date"`
}

// QuizRow is the projection served for upcoming-quiz queries.
type QuizRow struct {
	StudentName      string `json:"student_name"`
	Grade            string `json:"grade"`
	Class            string `json:"class"`
	UpcomingQuiz     string `json:"upcoming_quiz"`
	UpcomingQuizDate string `json:"upcoming_quiz_date"`
}

// SupportRow is the projection for support / high-performer listings.
type SupportRow struct {
	StudentName       string  `json:"student_name"`
	Grade             string  `json:"grade"`
	Class             string  `json:"class"`
	QuizScore         float64 `json:"quiz_score"`
	HomeworkSubmitted bool    `json:"homework_submitted"`
}

type ScoreStatistics struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std"`
}

// ClassAnalytics aggregates an admin's scoped view. A nil *ClassAnalytics is
// the empty marker for a scope with no rows.
type ClassAnalytics struct {
	TotalStudents          int             `json:"total_students"`
	AverageQuizScore       float64         `json:"average_quiz_score"`
	HomeworkCompletionRate float64         `json:"homework_completion_rate"`
	GradeDistribution      map[string]int  `json:"grade_distribution"`
	ClassDistribution      map[string]int  `json:"class_distribution"`
	UpcomingQuizCount      int             `json:"upcoming_quiz_count"`
	ScoreStatistics        ScoreStatistics `json:"score_statistics"`
}

// AdminInfo is the denormalized profile returned to the UI; a nil *AdminInfo
// is the empty marker for an unknown admin.
type AdminInfo struct {
	AdminID            string      `json:"admin_id"`
	AdminName          string      `json:"admin_name"`
	AccessScope        AccessScope `json:"access_scope"`
	AccessibleStudents int         `json:"accessible_students"`
	GradesManaged      []string    `json:"grades_managed"`
	ClassesManaged     []string    `json:"classes_managed"`
	RegionsManaged     []string    `json:"regions_managed"`
}

// QueryRecord is the persisted audit row for one executed query.
type QueryRecord struct {
	ID           string
	AdminID      string
	QueryText    string
	Intent       string
	Response     string
	Confidence   int
	FallbackUsed bool
	LatencyMS    int
	CreatedAt    time.Time
}

// PerformanceRowsOf projects full records to performance rows.
func PerformanceRowsOf(records []StudentRecord) []PerformanceRow {
	rows := make([]PerformanceRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, PerformanceRow{
			StudentName: r.StudentName,
			Grade:       r.Grade,
			Class:       r.Class,
			QuizScore:   r.QuizScore,
			QuizDate:    r.QuizDate,
		})
	}
	return rows
}

// QuizRowsOf projects full records to quiz rows, deduplicated on the full
// projected tuple.
func QuizRowsOf(records []StudentRecord) []QuizRow {
	seen := make(map[QuizRow]struct{}, len(records))
	rows := make([]QuizRow, 0, len(records))
	for _, r := range records {
		row := QuizRow{
			StudentName:      r.StudentName,
			Grade:            r.Grade,
			Class:            r.Class,
			UpcomingQuiz:     r.UpcomingQuiz,
			UpcomingQuizDate: r.UpcomingQuizDate,
		}
		if _, dup := seen[row]; dup {
			continue
		}
		seen[row] = struct{}{}
		rows = append(rows, row)
	}
	return rows
}
