package advisor

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/rs/zerolog"

	"github.com/AghaSalikAli/Taste-Karachi/internal/llm"
	"github.com/AghaSalikAli/Taste-Karachi/internal/models"
	"github.com/AghaSalikAli/Taste-Karachi/internal/retrieval"
)

// NoReviewsAdvice is returned when retrieval comes back empty. No model call
// is made in that case.
const NoReviewsAdvice = "No relevant historical reviews found to base advice on."

const (
	adviceTemperature = 0.3
	DefaultMaxTokens  = 1024
)

const advicePromptTemplate = "You are an expert Restaurant Consultant. \n" +
	"A client is opening a new {{.FeatureDesc}}.\n" +
	"Here are reviews from similar existing restaurants with matching features:\n" +
	"---\n{{.ReviewsText}}\n---\n" +
	"Based ONLY on these reviews, list 3 key success factors and 1 potential pitfall " +
	"for the new owner. Be concise."

var advicePrompt = template.Must(template.New("advice").Parse(advicePromptTemplate))

type promptData struct {
	FeatureDesc string
	ReviewsText string
}

// Retriever supplies the reviews the advice is grounded on.
type Retriever interface {
	Retrieve(ctx context.Context, features models.RestaurantFeatures, k int) []string
}

// MetricsRecorder is the slice of the observability metrics the advisor
// reports to.
type MetricsRecorder interface {
	RecordAdviceDuration(ctx context.Context, d time.Duration)
	RecordTokenUsage(ctx context.Context, kind string, tokens int64)
}

type noopMetrics struct{}

func (noopMetrics) RecordAdviceDuration(context.Context, time.Duration) {}
func (noopMetrics) RecordTokenUsage(context.Context, string, int64)     {}

// Result carries the generated advice together with the reviews it was
// grounded on.
type Result struct {
	Advice  string
	Reviews []string
}

type Advisor struct {
	retriever Retriever
	llmClient llm.LLMClient
	metrics   MetricsRecorder
	maxTokens int
	logger    *zerolog.Logger
}

func NewAdvisor(retriever Retriever, llmClient llm.LLMClient, metrics MetricsRecorder, maxTokens int, logger *zerolog.Logger) *Advisor {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Advisor{
		retriever: retriever,
		llmClient: llmClient,
		metrics:   metrics,
		maxTokens: maxTokens,
		logger:    logger,
	}
}

// GenerateAdvice retrieves matching reviews and asks the model for success
// factors and pitfalls grounded on them. When the model call fails, the
// partial result still carries the retrieved reviews so callers can report
// how many were found.
func (a *Advisor) GenerateAdvice(ctx context.Context, features models.RestaurantFeatures) (*Result, error) {
	start := time.Now()
	defer func() { a.metrics.RecordAdviceDuration(ctx, time.Since(start)) }()

	reviews := a.retriever.Retrieve(ctx, features, retrieval.DefaultLimit)
	if len(reviews) == 0 {
		a.logger.Info().Msg("No reviews found - skipping LLM request")
		return &Result{Advice: NoReviewsAdvice}, nil
	}

	prompt, err := buildPrompt(features, reviews)
	if err != nil {
		return &Result{Reviews: reviews}, fmt.Errorf("failed to render advice prompt: %w", err)
	}

	// Single invocation on purpose: retrying a paid generation call on
	// failure trades money and latency for little benefit here.
	response, err := a.llmClient.InvokeModel(ctx, llm.LLMRequest{
		Prompt:      prompt,
		MaxTokens:   a.maxTokens,
		Temperature: adviceTemperature,
	})
	if err != nil {
		return &Result{Reviews: reviews}, fmt.Errorf("failed to generate advice: %w", err)
	}

	// Approx 4 chars per token
	a.metrics.RecordTokenUsage(ctx, "input", int64(len(prompt)/4))
	a.metrics.RecordTokenUsage(ctx, "output", int64(len(response.Content)/4))

	return &Result{
		Advice:  response.Content,
		Reviews: reviews,
	}, nil
}

func buildPrompt(features models.RestaurantFeatures, reviews []string) (string, error) {
	var buf bytes.Buffer
	err := advicePrompt.Execute(&buf, promptData{
		FeatureDesc: featureDescription(features),
		ReviewsText: strings.Join(reviews, "\n- "),
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// featureDescription names the venue for the prompt, e.g.
// "Cafe in Clifton with outdoor seating, live music".
func featureDescription(features models.RestaurantFeatures) string {
	category := features.Category
	if category == "" {
		category = "restaurant"
	}
	area := features.Area
	if area == "" {
		area = "Karachi"
	}

	desc := category + " in " + area

	var vibes []string
	if features.OutdoorSeating {
		vibes = append(vibes, "outdoor seating")
	}
	if features.LiveMusic {
		vibes = append(vibes, "live music")
	}
	if features.IsOpen247 {
		vibes = append(vibes, "24/7 operation")
	}
	if len(vibes) > 0 {
		desc += " with " + strings.Join(vibes, ", ")
	}
	return desc
}
