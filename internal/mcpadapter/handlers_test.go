package mcpadapter

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/AghaSalikAli/Taste-Karachi/internal/advisor"
	"github.com/AghaSalikAli/Taste-Karachi/internal/llm"
	"github.com/AghaSalikAli/Taste-Karachi/internal/models"
	"github.com/AghaSalikAli/Taste-Karachi/internal/predictor"
)

type stubRetriever struct {
	reviews []string
}

func (s stubRetriever) Retrieve(ctx context.Context, features models.RestaurantFeatures, k int) []string {
	return s.reviews
}

// MockLLMClient implements llm.LLMClient for testing
type MockLLMClient struct {
	ResponseToReturn *llm.LLMResponse
	ErrorToReturn    error
	WasCalled        bool
}

func (m *MockLLMClient) InvokeModel(ctx context.Context, request llm.LLMRequest) (*llm.LLMResponse, error) {
	m.WasCalled = true
	if m.ErrorToReturn != nil {
		return nil, m.ErrorToReturn
	}
	return m.ResponseToReturn, nil
}

func (m *MockLLMClient) InvokeModelWithRetry(ctx context.Context, request llm.LLMRequest) (*llm.LLMResponse, error) {
	return m.InvokeModel(ctx, request)
}

func cafeInput() PredictInput {
	return PredictInput{
		RestaurantFeatures: models.RestaurantFeatures{
			Category:   "Cafe",
			Area:       "Clifton",
			PriceLevel: "moderate",
		},
		Latitude:  24.81,
		Longitude: 67.03,
	}
}

func TestPredictRating(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"predictions": [4.1]}`)
	}))
	defer server.Close()

	_, response, err := PredictRating(context.Background(), predictor.New(server.URL), nil, cafeInput())
	if err != nil {
		t.Fatalf("PredictRating failed: %v", err)
	}

	if response.PredictedRating != 4.1 {
		t.Errorf("rating: %v, want: 4.1", response.PredictedRating)
	}
	if response.ModelName != predictor.ModelName {
		t.Errorf("Unexpected model name: %s", response.ModelName)
	}
	if response.InputFeatures.Category != "Cafe" {
		t.Errorf("Expected features echo, got %+v", response.InputFeatures)
	}
}

func TestPredictRating_NoPredictor(t *testing.T) {
	_, _, err := PredictRating(context.Background(), nil, nil, cafeInput())
	if err == nil {
		t.Fatal("expected error without a predictor")
	}
	if !strings.Contains(err.Error(), "model server not configured") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestPredictRating_InvalidInput(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("model server should not be called for invalid input")
	}))
	defer server.Close()

	input := cafeInput()
	input.Category = ""

	_, _, err := PredictRating(context.Background(), predictor.New(server.URL), nil, input)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "required") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestGenerateAdvice(t *testing.T) {
	logger := zerolog.Nop()
	mockLLM := &MockLLMClient{
		ResponseToReturn: &llm.LLMResponse{Content: "Lean into your outdoor seating."},
	}
	adviceGenerator := advisor.NewAdvisor(stubRetriever{reviews: []string{"Lovely terrace"}}, mockLLM, nil, 0, &logger)

	input := AdviceInput{RestaurantFeatures: models.RestaurantFeatures{
		Category:   "Cafe",
		Area:       "Clifton",
		PriceLevel: "moderate",
	}}

	_, response, err := GenerateAdvice(context.Background(), adviceGenerator, nil, input)
	if err != nil {
		t.Fatalf("GenerateAdvice failed: %v", err)
	}

	if response.Status != "success" {
		t.Errorf("status: %s, want: success", response.Status)
	}
	if response.Advice != "Lean into your outdoor seating." {
		t.Errorf("Unexpected advice: %s", response.Advice)
	}
	if response.NumReviewsRetrieved != 1 {
		t.Errorf("Expected 1 review, got %d", response.NumReviewsRetrieved)
	}
}

func TestGenerateAdvice_NoAdvisor(t *testing.T) {
	_, _, err := GenerateAdvice(context.Background(), nil, nil, AdviceInput{})
	if err == nil {
		t.Fatal("expected error without an advisor")
	}
	if !strings.Contains(err.Error(), "advice generator not configured") {
		t.Errorf("unexpected error: %v", err)
	}
}
