package batch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/AghaSalikAli/Taste-Karachi/internal/models"
	"github.com/AghaSalikAli/Taste-Karachi/internal/predictor"
)

func newScoringServer(t *testing.T, prediction float64) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"predictions": [%f]}`, prediction)
	}))
	t.Cleanup(server.Close)
	return server
}

func validRecord(line int) InputRecord {
	return InputRecord{
		LineNumber: line,
		Request: models.PredictRequest{
			RestaurantFeatures: models.RestaurantFeatures{
				Category:   "Cafe",
				Area:       "Clifton",
				PriceLevel: "moderate",
			},
			Latitude:  24.81,
			Longitude: 67.03,
		},
	}
}

func TestProcessor_Process(t *testing.T) {
	server := newScoringServer(t, 4.2)
	processor := NewProcessor(predictor.New(server.URL), 3, newTestLogger())

	records := []InputRecord{
		validRecord(1),
		{LineNumber: 2, Error: errors.New("failed to parse record")},
		validRecord(3),
	}

	// Workers race, collect by line number
	results := map[int]Result{}
	for result := range processor.Process(context.Background(), records) {
		results[result.LineNumber] = result
	}

	if len(results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(results))
	}

	if results[1].PredictedRating != 4.2 {
		t.Errorf("line 1 rating: %v, want: 4.2", results[1].PredictedRating)
	}
	if results[1].Error != "" {
		t.Errorf("line 1 unexpected error: %s", results[1].Error)
	}
	if results[1].Area != "Clifton" {
		t.Errorf("line 1 area: %s, want: Clifton", results[1].Area)
	}

	// Input errors pass through without hitting the model server
	if results[2].Error == "" {
		t.Error("line 2 should carry the input error")
	}
	if results[2].PredictedRating != 0 {
		t.Errorf("line 2 rating: %v, want: 0", results[2].PredictedRating)
	}

	if results[3].PredictedRating != 4.2 {
		t.Errorf("line 3 rating: %v, want: 4.2", results[3].PredictedRating)
	}
}

func TestProcessor_PredictionFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model exploded", http.StatusInternalServerError)
	}))
	defer server.Close()

	processor := NewProcessor(predictor.New(server.URL), 2, newTestLogger())

	var results []Result
	for result := range processor.Process(context.Background(), []InputRecord{validRecord(1)}) {
		results = append(results, result)
	}

	if len(results) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(results))
	}
	if !strings.Contains(results[0].Error, "status 500") {
		t.Errorf("Expected prediction error in result, got: %s", results[0].Error)
	}
}

func TestProcessor_ClampsWorkerCount(t *testing.T) {
	server := newScoringServer(t, 3.8)
	processor := NewProcessor(predictor.New(server.URL), 0, newTestLogger())

	count := 0
	for result := range processor.Process(context.Background(), []InputRecord{validRecord(1), validRecord(2)}) {
		count++
		if result.Error != "" {
			t.Errorf("unexpected error: %s", result.Error)
		}
	}
	if count != 2 {
		t.Errorf("Expected 2 results, got %d", count)
	}
}
