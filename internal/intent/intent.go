// Package intent classifies free-text admin queries into a fixed set of
// categories and extracts the entities the data layer can act on. Both steps
// are pure functions: the same query and history always yield the same
// descriptor.
package intent

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/edu-agent/backend/internal/storage/models"
)

type Category string

const (
	Homework    Category = "homework"
	Performance Category = "performance"
	Quiz        Category = "quiz"
	Analytics   Category = "analytics"
	Support     Category = "support"
	Comparison  Category = "comparison"
	General     Category = "general"
)

// categories fixes the scoring order; ties keep the earlier category.
var categories = []Category{Homework, Performance, Quiz, Analytics, Support, Comparison}

var keywords = map[Category][]string{
	Homework:    {"homework", "assignment", "submit", "turn in", "hand in"},
	Performance: {"performance", "score", "grade", "result", "achievement", "progress"},
	Quiz:        {"quiz", "test", "exam", "upcoming", "scheduled", "assessment"},
	Analytics:   {"average", "mean", "statistics", "summary", "report", "analysis"},
	Support:     {"help", "support", "struggling", "difficulty", "improve", "below"},
	Comparison:  {"compare", "versus", "vs", "difference", "better", "worse"},
}

// weekCodes maps relative time phrases to performance-week identifiers.
// Ordered so the first textual match wins.
var weekCodes = []struct {
	phrase string
	code   string
}{
	{"last week", "2024-W02"},
	{"this week", "2024-W03"},
	{"next week", "2024-W04"},
	{"recent", "2024-W02"},
}

var continuationCues = []string{"follow", "also", "what about"}

var (
	gradePattern     = regexp.MustCompile(`grade\s*(\d+)`)
	thresholdPattern = regexp.MustCompile(`(below|under|less than|above|over|more than)\s*(\d+)`)
)

// Descriptor is the structured result of resolving one query.
type Descriptor struct {
	Category      Category
	Grade         string
	Week          string
	Threshold     float64
	Operator      string
	HasThreshold  bool
	Confidence    int
	OriginalQuery string
	ContextAware  bool
}

// Resolve classifies a query against the keyword sets and extracts entities.
// When the query carries a continuation cue and the history is non-empty, the
// most recent turn's intent wins over the keyword score; freshly extracted
// entities are kept either way.
func Resolve(query string, history []models.ConversationTurn) Descriptor {
	lower := strings.ToLower(query)

	category, confidence := classify(lower)

	d := Descriptor{
		Category:      category,
		Confidence:    confidence,
		OriginalQuery: query,
		ContextAware:  len(history) > 0,
	}

	d.Grade = extractGrade(lower)
	d.Week = extractWeek(lower)
	d.Threshold, d.Operator, d.HasThreshold = extractThreshold(lower)

	if len(history) > 0 && hasContinuationCue(lower) {
		d.Category = Category(history[len(history)-1].Intent)
	}

	return d
}

func classify(lower string) (Category, int) {
	best := General
	bestCount := 0

	for _, cat := range categories {
		count := 0
		for _, kw := range keywords[cat] {
			if strings.Contains(lower, kw) {
				count++
			}
		}
		if count > bestCount {
			best = cat
			bestCount = count
		}
	}

	return best, bestCount
}

func extractGrade(lower string) string {
	m := gradePattern.FindStringSubmatch(lower)
	if m == nil {
		return ""
	}
	return "Grade " + m[1]
}

func extractWeek(lower string) string {
	for _, w := range weekCodes {
		if strings.Contains(lower, w.phrase) {
			return w.code
		}
	}
	return ""
}

func extractThreshold(lower string) (float64, string, bool) {
	m := thresholdPattern.FindStringSubmatch(lower)
	if m == nil {
		return 0, "", false
	}

	threshold, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return 0, "", false
	}

	operator := ">"
	switch m[1] {
	case "below", "under", "less than":
		operator = "<"
	}
	return threshold, operator, true
}

func hasContinuationCue(lower string) bool {
	for _, cue := range continuationCues {
		if strings.Contains(lower, cue) {
			return true
		}
	}
	return false
}
