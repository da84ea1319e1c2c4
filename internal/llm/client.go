// Package llm wraps the external natural-language analysis service. The rest
// of the system treats it as an opaque collaborator behind the Analyzer
// interface: given a scoped data view and a prompt, it returns text or fails.
package llm

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/edu-agent/backend/internal/storage/models"
	"github.com/edu-agent/backend/pkg/circuitbreaker"
	"github.com/edu-agent/backend/pkg/logger"
	"github.com/edu-agent/backend/pkg/retry"
)

// Analyzer is the capability the query engine depends on. Tests substitute a
// stub; production wires *Client.
type Analyzer interface {
	Analyze(ctx context.Context, view []models.StudentRecord, prompt string) (string, error)
}

type Client struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
	timeout     time.Duration
	cb          *circuitbreaker.CircuitBreaker
	retryConfig retry.Config
}

func NewClient(apiKey, model string, temperature float32, maxTokens, timeoutSec int) *Client {
	cb := circuitbreaker.New("llm", circuitbreaker.Config{
		MaxRequests:      5,
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
		SuccessThreshold: 2,
		Logger:           logger.GetLogger(),
	})

	retryConfig := retry.Config{
		MaxAttempts:    3,
		InitialDelay:   500 * time.Millisecond,
		MaxDelay:       5 * time.Second,
		Multiplier:     2.0,
		JitterFraction: 0.1,
		Logger:         logger.GetLogger(),
	}

	if timeoutSec == 0 {
		timeoutSec = 60
	}

	logger.Info("LLM client initialized", zap.String("model", model))

	return &Client{
		client:      openai.NewClient(apiKey),
		model:       model,
		temperature: temperature,
		maxTokens:   maxTokens,
		timeout:     time.Duration(timeoutSec) * time.Second,
		cb:          cb,
		retryConfig: retryConfig,
	}
}

const systemPrompt = `You are an education data analyst assisting a school administrator.
You are given the student records the administrator is allowed to see, followed by their question.

Your responses must:
1. Be based ONLY on the provided records
2. Include relevant statistics and summaries
3. Offer educational context and recommendations
4. Acknowledge when the records cannot answer the question

Be clear, professional and actionable.`

// Analyze sends the scoped view and the prompt to the model. Quota and
// rate-limit failures are returned without retry so the caller can take its
// deterministic fallback immediately.
func (c *Client) Analyze(ctx context.Context, view []models.StudentRecord, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	userPrompt := fmt.Sprintf("Student records:\n%s\n%s", renderView(view), prompt)

	var result string
	err := c.cb.Execute(ctx, func() error {
		return retry.Do(ctx, c.retryConfig, func() error {
			resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
				Model: c.model,
				Messages: []openai.ChatCompletionMessage{
					{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
					{Role: openai.ChatMessageRoleUser, Content: userPrompt},
				},
				Temperature: c.temperature,
				MaxTokens:   c.maxTokens,
			})
			if err != nil {
				if IsQuotaError(err) {
					return retry.Permanent(err)
				}
				return fmt.Errorf("failed to create completion: %w", err)
			}

			logger.Debug("LLM completion generated",
				zap.Int("prompt_tokens", resp.Usage.PromptTokens),
				zap.Int("completion_tokens", resp.Usage.CompletionTokens),
			)

			result = resp.Choices[0].Message.Content
			return nil
		})
	})
	if err != nil {
		return "", err
	}

	return result, nil
}

// IsQuotaError detects exhausted-quota and rate-limit failures from the
// error text, matching "quota" case-insensitively or a literal "429".
func IsQuotaError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(strings.ToLower(msg), "quota") || strings.Contains(msg, "429")
}

// renderView serializes records into a compact delimited block the model can
// read. The view is already scope-filtered; nothing outside it is sent.
func renderView(view []models.StudentRecord) string {
	var b strings.Builder
	b.WriteString("student_name|grade|class|region|quiz_score|quiz_date|homework_submitted|upcoming_quiz|upcoming_quiz_date|performance_week\n")
	for _, r := range view {
		b.WriteString(strings.Join([]string{
			r.StudentName, r.Grade, r.Class, r.Region,
			strconv.FormatFloat(r.QuizScore, 'f', -1, 64), r.QuizDate,
			strconv.FormatBool(r.HomeworkSubmitted),
			r.UpcomingQuiz, r.UpcomingQuizDate, r.PerformanceWeek,
		}, "|"))
		b.WriteString("\n")
	}
	return b.String()
}
