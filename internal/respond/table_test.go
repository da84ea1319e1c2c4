package respond

import (
	"strings"
	"testing"
)

func TestTable_EmptyRows(t *testing.T) {
	got := Table([]string{"student_name"}, nil, "Roster", "ignored")
	if got != "Roster: No data found" {
		t.Errorf("got %q", got)
	}
}

func TestTable_Banner(t *testing.T) {
	got := Table([]string{"student_name"}, [][]string{{"Alice"}}, "Roster", "")
	lines := strings.Split(got, "\n")

	if lines[0] != "** Roster **" {
		t.Errorf("banner = %q", lines[0])
	}
	wantRule := strings.Repeat("=", len("Roster")+6)
	if lines[1] != wantRule {
		t.Errorf("rule = %q, want %q", lines[1], wantRule)
	}
}

func TestTable_HeadersAndAlignment(t *testing.T) {
	got := Table(
		[]string{"student_name", "quiz_score"},
		[][]string{
			{"Alice Johnson", "60"},
			{"Bob", "95"},
		},
		"Scores", "",
	)
	lines := strings.Split(got, "\n")

	if lines[2] != "Student Name   Quiz Score" {
		t.Errorf("header row = %q", lines[2])
	}
	// Cells are left-justified to the widest value in each column; the last
	// column carries no trailing padding.
	if lines[3] != "Alice Johnson  60" {
		t.Errorf("row 1 = %q", lines[3])
	}
	if lines[4] != "Bob            95" {
		t.Errorf("row 2 = %q", lines[4])
	}
}

func TestTable_Summary(t *testing.T) {
	got := Table([]string{"student_name"}, [][]string{{"Alice"}}, "Roster", "Total: 1 students")
	if !strings.HasSuffix(got, "\n\nSummary: Total: 1 students") {
		t.Errorf("missing summary suffix in %q", got)
	}

	noSummary := Table([]string{"student_name"}, [][]string{{"Alice"}}, "Roster", "")
	if strings.Contains(noSummary, "Summary:") {
		t.Errorf("unexpected summary in %q", noSummary)
	}
}

func TestCleanHeader(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"student_name", "Student Name"},
		{"upcoming_quiz_date", "Upcoming Quiz Date"},
		{"grade", "Grade"},
	}
	for _, tt := range tests {
		if got := cleanHeader(tt.in); got != tt.want {
			t.Errorf("cleanHeader(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatScore(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{75, "75"},
		{82.5, "82.5"},
		{0, "0"},
	}
	for _, tt := range tests {
		if got := formatScore(tt.in); got != tt.want {
			t.Errorf("formatScore(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
