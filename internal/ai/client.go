package ai

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/myrjola/reaksi/internal/errors"
	"github.com/myrjola/reaksi/internal/metrics"
	"github.com/myrjola/reaksi/internal/models"
	"github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"
)

const (
	// DefaultModel is used when no model is configured.
	DefaultModel = "gpt-4o-mini"

	// FallbackFeedback is shown when the answers could not be analysed.
	FallbackFeedback = "Gagal menganalisis jawaban menggunakan AI. Silakan periksa koneksi atau kunci API."
	// FallbackSummary marks a fallback evaluation.
	FallbackSummary = "Error"

	schemaName = "worksheet_evaluation"
)

var (
	ErrNoChoices       = errors.NewSentinel("no completion choices")
	ErrInvalidResponse = errors.NewSentinel("invalid evaluation response")
)

// Fallback is the evaluation recorded when the service fails or answers with an unexpected shape.
var Fallback = models.Evaluation{Score: 0, Feedback: FallbackFeedback, Summary: FallbackSummary}

// Completer is the subset of the OpenAI client used for evaluations. [*openai.Client] implements it.
type Completer interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Config configures the OpenAI compatible endpoint.
type Config struct {
	APIKey string
	Model  string
	// BaseURL overrides the OpenAI endpoint, e.g., for an OpenAI compatible gateway. Empty means OpenAI.
	BaseURL string
}

// NewOpenAIClient creates the go-openai client for cfg.
func NewOpenAIClient(cfg Config) *openai.Client {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	return openai.NewClientWithConfig(clientConfig)
}

type Client struct {
	completer Completer
	model     string
	logger    *slog.Logger
	metrics   *metrics.Metrics
	validate  *validator.Validate
}

// NewClient creates an evaluation client. m may be nil.
func NewClient(completer Completer, model string, logger *slog.Logger, m *metrics.Metrics) *Client {
	if model == "" {
		model = DefaultModel
	}
	return &Client{
		completer: completer,
		model:     model,
		logger:    logger.With(slog.String("source", "ai.Client")),
		metrics:   m,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
	}
}

// evaluationResponse mirrors the response schema. Pointers distinguish missing fields from zero values.
type evaluationResponse struct {
	Score    *float64 `json:"score"    validate:"required,gte=0,lte=100"`
	Feedback *string  `json:"feedback" validate:"required"`
	Summary  *string  `json:"summary"  validate:"required"`
}

// responseSchema is sent as the structured output format. The service is not trusted to honour it.
var responseSchema = jsonschema.Definition{
	Type: jsonschema.Object,
	Properties: map[string]jsonschema.Definition{
		"score": {
			Type:        jsonschema.Number,
			Description: "Score between 0 and 100.",
		},
		"feedback": {
			Type:        jsonschema.String,
			Description: "Detailed feedback in Bahasa Indonesia.",
		},
		"summary": {
			Type:        jsonschema.String,
			Description: "Overall summary feedback.",
		},
	},
	Required:             []string{"score", "feedback", "summary"},
	AdditionalProperties: false,
}

// Evaluate scores the answers against the observed simulation.
//
// It makes exactly one call to the text generation service and never returns an error: any failure yields
// [Fallback] and is logged instead.
func (c *Client) Evaluate(
	ctx context.Context,
	answers models.StudentAnswers,
	sim models.SimulationState,
) models.Evaluation {
	start := time.Now()
	evaluation, err := c.evaluate(ctx, answers, sim)
	elapsed := time.Since(start)
	if err != nil {
		c.logger.LogAttrs(ctx, slog.LevelError, "evaluation failed, using fallback",
			slog.Duration("duration", elapsed), errors.SlogError(err))
		c.metrics.ObserveEvaluation(metrics.OutcomeFallback, elapsed.Seconds())
		return Fallback
	}
	c.logger.LogAttrs(ctx, slog.LevelInfo, "evaluated answers",
		slog.Float64("score", evaluation.Score), slog.Duration("duration", elapsed))
	c.metrics.ObserveEvaluation(metrics.OutcomeOK, elapsed.Seconds())
	return evaluation
}

func (c *Client) evaluate(
	ctx context.Context,
	answers models.StudentAnswers,
	sim models.SimulationState,
) (models.Evaluation, error) {
	completion, err := c.completer.CreateChatCompletion(ctx, openai.ChatCompletionRequest{ //nolint:exhaustruct // this is better for readability
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: Prompt(answers, sim)},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   schemaName,
				Schema: &responseSchema,
				Strict: true,
			},
		},
	})
	if err != nil {
		return models.Evaluation{}, errors.Wrap(err, "create chat completion", slog.String("model", c.model))
	}
	if len(completion.Choices) == 0 {
		return models.Evaluation{}, errors.Wrap(ErrNoChoices, "read completion")
	}
	content := completion.Choices[0].Message.Content
	return c.parse(content)
}

// parse decodes and validates the JSON content of a completion.
func (c *Client) parse(content string) (models.Evaluation, error) {
	var resp evaluationResponse
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &resp); err != nil {
		return models.Evaluation{}, errors.Wrap(ErrInvalidResponse, "unmarshal response",
			slog.String("content", content), slog.String("cause", err.Error()))
	}
	if err := c.validate.Struct(resp); err != nil {
		return models.Evaluation{}, errors.Wrap(ErrInvalidResponse, "validate response",
			slog.String("content", content), slog.String("cause", err.Error()))
	}
	return models.Evaluation{
		Score:    *resp.Score,
		Feedback: *resp.Feedback,
		Summary:  *resp.Summary,
	}, nil
}
