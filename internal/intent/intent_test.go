package intent

import (
	"testing"

	"github.com/edu-agent/backend/internal/storage/models"
)

func TestResolve_Classification(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		want       Category
		confidence int
	}{
		{"homework", "Which students haven't submitted their homework?", Homework, 2},
		{"performance", "Show me the performance scores", Performance, 2},
		{"quiz", "What are the upcoming quizzes scheduled?", Quiz, 3},
		{"analytics", "Give me the class average statistics", Analytics, 2},
		{"support", "Help the struggling students", Support, 2},
		{"comparison", "Compare grade 5 versus grade 6", Comparison, 3},
		{"general fallback", "Hello there", General, 0},
		{"support via below", "students below 75", Support, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Resolve(tt.query, nil)
			if d.Category != tt.want {
				t.Errorf("Category = %q, want %q", d.Category, tt.want)
			}
			if d.Confidence != tt.confidence {
				t.Errorf("Confidence = %d, want %d", d.Confidence, tt.confidence)
			}
			if d.OriginalQuery != tt.query {
				t.Errorf("OriginalQuery = %q", d.OriginalQuery)
			}
		})
	}
}

func TestResolve_TieKeepsEarlierCategory(t *testing.T) {
	// "average quiz score" touches performance, quiz and analytics once each;
	// the scoring order decides.
	d := Resolve("average quiz score", nil)
	if d.Category != Performance {
		t.Errorf("Category = %q, want %q", d.Category, Performance)
	}
	if d.Confidence != 1 {
		t.Errorf("Confidence = %d, want 1", d.Confidence)
	}
}

func TestResolve_Idempotent(t *testing.T) {
	query := "show me quiz scores below 75 for grade 5 last week"

	first := Resolve(query, nil)
	second := Resolve(query, nil)
	if first != second {
		t.Errorf("resolving twice differed:\n%+v\n%+v", first, second)
	}
}

func TestResolve_GradeExtraction(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"show grade 5 students", "Grade 5"},
		{"Grade 12 results", "Grade 12"},
		{"grade6 homework", "Grade 6"},
		{"show all students", ""},
	}

	for _, tt := range tests {
		if got := Resolve(tt.query, nil).Grade; got != tt.want {
			t.Errorf("Resolve(%q).Grade = %q, want %q", tt.query, got, tt.want)
		}
	}
}

func TestResolve_WeekExtraction(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"performance last week", "2024-W02"},
		{"performance this week", "2024-W03"},
		{"quizzes next week", "2024-W04"},
		{"recent scores", "2024-W02"},
		{"scores overall", ""},
	}

	for _, tt := range tests {
		if got := Resolve(tt.query, nil).Week; got != tt.want {
			t.Errorf("Resolve(%q).Week = %q, want %q", tt.query, got, tt.want)
		}
	}
}

func TestResolve_ThresholdExtraction(t *testing.T) {
	tests := []struct {
		query    string
		value    float64
		operator string
		has      bool
	}{
		{"scores below 75", 75, "<", true},
		{"scores under 50", 50, "<", true},
		{"scores less than 70", 70, "<", true},
		{"scores above 90", 90, ">", true},
		{"scores over 80", 80, ">", true},
		{"scores more than 85", 85, ">", true},
		{"all scores", 0, "", false},
	}

	for _, tt := range tests {
		d := Resolve(tt.query, nil)
		if d.HasThreshold != tt.has {
			t.Errorf("Resolve(%q).HasThreshold = %v, want %v", tt.query, d.HasThreshold, tt.has)
			continue
		}
		if d.Threshold != tt.value || d.Operator != tt.operator {
			t.Errorf("Resolve(%q) = (%v, %q), want (%v, %q)",
				tt.query, d.Threshold, d.Operator, tt.value, tt.operator)
		}
	}
}

func TestResolve_ContinuationOverride(t *testing.T) {
	history := []models.ConversationTurn{
		{Query: "upcoming quizzes", Intent: "quiz"},
	}

	// "what about homework" would classify as homework on its own; the cue
	// pulls the previous turn's intent instead.
	d := Resolve("what about homework", history)
	if d.Category != Quiz {
		t.Errorf("Category = %q, want %q", d.Category, Quiz)
	}
	if !d.ContextAware {
		t.Error("ContextAware should be set when history is present")
	}
}

func TestResolve_ContinuationKeepsFreshEntities(t *testing.T) {
	history := []models.ConversationTurn{
		{Query: "show performance", Intent: "performance"},
	}

	d := Resolve("what about grade 6", history)
	if d.Category != Performance {
		t.Errorf("Category = %q, want %q", d.Category, Performance)
	}
	if d.Grade != "Grade 6" {
		t.Errorf("Grade = %q, want %q", d.Grade, "Grade 6")
	}
}

func TestResolve_CueWithoutHistory(t *testing.T) {
	d := Resolve("what about homework", nil)
	if d.Category != Homework {
		t.Errorf("Category = %q, want %q", d.Category, Homework)
	}
	if d.ContextAware {
		t.Error("ContextAware should be false without history")
	}
}

func TestResolve_HistoryWithoutCue(t *testing.T) {
	history := []models.ConversationTurn{
		{Query: "upcoming quizzes", Intent: "quiz"},
	}

	d := Resolve("homework status", history)
	if d.Category != Homework {
		t.Errorf("Category = %q, want %q", d.Category, Homework)
	}
}

func TestResolve_LastHistoryTurnWins(t *testing.T) {
	history := []models.ConversationTurn{
		{Query: "upcoming quizzes", Intent: "quiz"},
		{Query: "show performance", Intent: "performance"},
	}

	d := Resolve("also for the others", history)
	if d.Category != Performance {
		t.Errorf("Category = %q, want %q", d.Category, Performance)
	}
}
