package query

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/edu-agent/backend/internal/cache/redis"
	"github.com/edu-agent/backend/internal/intent"
	"github.com/edu-agent/backend/internal/llm"
	"github.com/edu-agent/backend/internal/metrics"
	"github.com/edu-agent/backend/internal/respond"
	"github.com/edu-agent/backend/internal/storage/datastore"
	"github.com/edu-agent/backend/internal/storage/models"
	"github.com/edu-agent/backend/internal/storage/sqlite"
	"github.com/edu-agent/backend/pkg/logger"
	"github.com/edu-agent/backend/pkg/utils"
)

const (
	historyCapacity   = 5
	contextQueryCount = 3
	answerCacheTTL    = time.Hour
)

const quotaExceededMessage = "API quota exceeded. Please check your OpenAI billing or try basic queries like 'best student' or 'homework status'."

// Engine answers one admin's queries for the lifetime of a session. It owns
// the bounded conversation history; the audit store and answer cache are
// optional and may be nil.
type Engine struct {
	store    *datastore.Store
	analyzer llm.Analyzer
	audit    *sqlite.Client
	cache    *redis.Client
	adminID  string

	mu      sync.Mutex
	history []models.ConversationTurn
}

// Result is the rendered outcome of one query. Business-logic conditions
// (empty scope, no matches) are answers, not errors, so Execute has no error
// return.
type Result struct {
	ID           string
	Query        string
	Response     string
	Intent       intent.Category
	Confidence   int
	FallbackUsed bool
	LatencyMS    int
}

func NewEngine(store *datastore.Store, analyzer llm.Analyzer, audit *sqlite.Client, cache *redis.Client, adminID string) *Engine {
	return &Engine{
		store:    store,
		analyzer: analyzer,
		audit:    audit,
		cache:    cache,
		adminID:  adminID,
	}
}

// Execute resolves the query's intent, dispatches to the matching accessor
// and renders the answer. The history turn is recorded before dispatch so a
// follow-up query sees this one.
func (e *Engine) Execute(ctx context.Context, queryText string) Result {
	// The session contract assumes one caller, but the HTTP surface cannot
	// guarantee that, so history mutation is serialized here.
	e.mu.Lock()
	defer e.mu.Unlock()

	start := time.Now()

	d := intent.Resolve(queryText, e.history)
	e.appendTurn(queryText, d.Category)

	logger.Info("Processing query",
		zap.String("admin_id", e.adminID),
		zap.String("intent", string(d.Category)),
		zap.Int("confidence", d.Confidence),
	)

	response, fallbackUsed := e.dispatch(ctx, d)
	latency := int(time.Since(start).Milliseconds())

	metrics.IntentResolved.WithLabelValues(string(d.Category)).Inc()
	metrics.QueryTotal.WithLabelValues("ok").Inc()
	metrics.QueryDuration.WithLabelValues(string(d.Category)).Observe(time.Since(start).Seconds())

	result := Result{
		ID:           uuid.New().String(),
		Query:        queryText,
		Response:     response,
		Intent:       d.Category,
		Confidence:   d.Confidence,
		FallbackUsed: fallbackUsed,
		LatencyMS:    latency,
	}

	e.recordAudit(result)

	return result
}

func (e *Engine) appendTurn(queryText string, cat intent.Category) {
	e.history = append(e.history, models.ConversationTurn{
		Query:     queryText,
		Intent:    string(cat),
		Timestamp: time.Now(),
	})
	if len(e.history) > historyCapacity {
		e.history = e.history[len(e.history)-historyCapacity:]
	}
}

// dispatch routes the resolved intent to its accessor. Branch order mirrors
// the intent declaration order, with the threshold catch-all sitting between
// performance and quiz.
func (e *Engine) dispatch(ctx context.Context, d intent.Descriptor) (string, bool) {
	switch {
	case d.Category == intent.Homework:
		records := e.store.StudentsWithoutHomework(e.adminID)
		if len(records) == 0 {
			return respond.Empty(intent.Homework), false
		}
		return respond.Homework(records), false

	case d.Category == intent.Performance:
		rows := e.store.PerformanceData(e.adminID, d.Grade, d.Week)
		if len(rows) == 0 {
			return respond.Empty(intent.Performance), false
		}
		return respond.Performance(rows, d), false

	case d.Category == intent.Support || d.HasThreshold:
		records := e.store.FilterByScope(e.adminID)
		if d.HasThreshold && d.Category != intent.Support {
			// Support applies its own threshold split.
			records = e.store.ByScoreThreshold(e.adminID, d.Threshold, d.Operator)
		}
		if len(records) == 0 {
			return respond.Empty(d.Category), false
		}
		return respond.Contextual(records, d), false

	case d.Category == intent.Quiz:
		rows := e.store.UpcomingQuizzes(e.adminID)
		if len(rows) == 0 {
			return respond.Empty(intent.Quiz), false
		}
		return respond.Quiz(rows), false

	case d.Category == intent.Analytics:
		records := e.store.FilterByScope(e.adminID)
		if len(records) == 0 {
			return respond.Empty(intent.Analytics), false
		}
		return respond.Analytics(records), false

	default:
		return e.analyze(ctx, d)
	}
}

// analyze delegates free-form questions to the external collaborator, with
// the cache in front and the deterministic fallback behind.
func (e *Engine) analyze(ctx context.Context, d intent.Descriptor) (string, bool) {
	view := e.store.FilterByScope(e.adminID)
	if len(view) == 0 {
		return "No data available in your access scope.", false
	}

	cacheKey := utils.HashString(e.adminID + "|" + strings.ToLower(d.OriginalQuery))
	if answer, ok, err := e.cache.GetAnswer(ctx, cacheKey); err != nil {
		logger.Warn("Answer cache lookup failed", zap.Error(err))
	} else if ok {
		metrics.CacheHits.WithLabelValues("answer").Inc()
		return answer, false
	} else {
		metrics.CacheMisses.WithLabelValues("answer").Inc()
	}

	if e.analyzer == nil {
		if fallback := e.tryFallback(d.OriginalQuery); fallback != "" {
			metrics.FallbackTotal.WithLabelValues("answered").Inc()
			return fallback, true
		}
		return "AI analysis is not configured. Try basic queries like 'best student' or 'homework status'.", false
	}

	result, err := e.analyzer.Analyze(ctx, view, e.buildContextPrompt(d.OriginalQuery))
	if err != nil {
		metrics.LLMRequests.WithLabelValues("error").Inc()
		logger.Warn("External analysis failed",
			zap.String("admin_id", e.adminID),
			zap.Error(err),
		)

		if llm.IsQuotaError(err) {
			if fallback := e.tryFallback(d.OriginalQuery); fallback != "" {
				metrics.FallbackTotal.WithLabelValues("answered").Inc()
				return fallback, true
			}
			metrics.FallbackTotal.WithLabelValues("unanswered").Inc()
			return quotaExceededMessage, false
		}

		return fmt.Sprintf("Error processing query: %v\n\nTry rephrasing your question or use one of the example queries.", err), false
	}

	metrics.LLMRequests.WithLabelValues("ok").Inc()

	answer := "AI Analysis:\n\n" + result
	if err := e.cache.SetAnswer(ctx, cacheKey, answer, answerCacheTTL); err != nil {
		logger.Warn("Answer cache store failed", zap.Error(err))
	}
	return answer, false
}

// buildContextPrompt augments the question with the most recent history
// queries, the current one included.
func (e *Engine) buildContextPrompt(queryText string) string {
	var b strings.Builder

	if len(e.history) > 0 {
		start := len(e.history) - contextQueryCount
		if start < 0 {
			start = 0
		}
		recent := make([]string, 0, contextQueryCount)
		for _, turn := range e.history[start:] {
			recent = append(recent, turn.Query)
		}
		b.WriteString("Previous queries in this conversation: ")
		b.WriteString(strings.Join(recent, ", "))
		b.WriteString(". ")
	}

	b.WriteString("Current query: ")
	b.WriteString(queryText)
	b.WriteString("\n\nPlease analyze the student data and provide insights. Focus on:\n")
	b.WriteString("- Clear, actionable information\n")
	b.WriteString("- Relevant statistics and summaries\n")
	b.WriteString("- Educational context and recommendations")

	return b.String()
}

// tryFallback answers a few common question shapes without the external
// service. An empty return means the fallback has no answer.
func (e *Engine) tryFallback(queryText string) string {
	lower := strings.ToLower(queryText)

	view := e.store.FilterByScope(e.adminID)
	if len(view) == 0 {
		return "No data available in your scope."
	}

	if containsAny(lower, "best", "top", "highest", "excellent") {
		best := view[0]
		for _, r := range view[1:] {
			if r.QuizScore > best.QuizScore {
				best = r
			}
		}
		return fmt.Sprintf("**Best Performing Student**\n\nName: %s\nGrade: %s\nClass: %s\nQuiz Score: %s",
			best.StudentName, best.Grade, best.Class, formatScore(best.QuizScore))
	}

	if strings.Contains(lower, "homework") {
		missing := e.store.StudentsWithoutHomework(e.adminID)
		if len(missing) == 0 {
			return "All students have submitted their homework."
		}
		return respond.MissingHomeworkTable(missing, "Students Missing Homework")
	}

	if containsAny(lower, "average", "mean") {
		var sum float64
		for _, r := range view {
			sum += r.QuizScore
		}
		return fmt.Sprintf("Average quiz score in your scope: %.1f", sum/float64(len(view)))
	}

	if containsAny(lower, "list", "show", "all students") {
		return respond.RosterTable(view, "All Students in Your Scope")
	}

	return ""
}

func (e *Engine) recordAudit(result Result) {
	if e.audit == nil {
		return
	}
	record := &models.QueryRecord{
		ID:           result.ID,
		AdminID:      e.adminID,
		QueryText:    result.Query,
		Intent:       string(result.Intent),
		Response:     result.Response,
		Confidence:   result.Confidence,
		FallbackUsed: result.FallbackUsed,
		LatencyMS:    result.LatencyMS,
		CreatedAt:    time.Now(),
	}
	if err := e.audit.InsertQueryRecord(record); err != nil {
		logger.Warn("Failed to persist query record", zap.Error(err))
	}
}

// Summary describes the session's conversation so far.
type Summary struct {
	TotalQueries  int      `json:"total_queries"`
	RecentIntents []string `json:"recent_intents"`
	Length        int      `json:"conversation_length"`
}

func (e *Engine) ConversationSummary() Summary {
	e.mu.Lock()
	defer e.mu.Unlock()

	intents := make([]string, 0, len(e.history))
	for _, turn := range e.history {
		intents = append(intents, turn.Intent)
	}
	return Summary{
		TotalQueries:  len(e.history),
		RecentIntents: intents,
		Length:        len(e.history),
	}
}

// ResetContext clears the history; safe to call repeatedly.
func (e *Engine) ResetContext() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.history = nil
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func formatScore(score float64) string {
	if score == float64(int64(score)) {
		return fmt.Sprintf("%d", int64(score))
	}
	return fmt.Sprintf("%g", score)
}
