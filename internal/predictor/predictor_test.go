package predictor

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/AghaSalikAli/Taste-Karachi/internal/models"
)

// newModelServer fakes the scoring server: /ping answers 200 and
// /invocations returns the configured prediction.
func newModelServer(t *testing.T, prediction float64, lastBody *invocationsRequest) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/invocations", func(w http.ResponseWriter, r *http.Request) {
		if lastBody != nil {
			if err := json.NewDecoder(r.Body).Decode(lastBody); err != nil {
				t.Errorf("Failed to decode invocation body: %v", err)
			}
		}
		fmt.Fprintf(w, `{"predictions": [%f]}`, prediction)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func testRequest() models.PredictRequest {
	return models.PredictRequest{
		RestaurantFeatures: models.RestaurantFeatures{
			Category:   "Cafe",
			Area:       "Clifton",
			PriceLevel: "moderate",
		},
		Latitude:  24.81,
		Longitude: 67.03,
	}
}

func TestPredict_ClampAndRound(t *testing.T) {
	tests := []struct {
		name     string
		raw      float64
		expected float64
	}{
		{"above scale clamps to 5", 5.7, 5.0},
		{"below scale clamps to 0", -1.2, 0.0},
		{"rounds up", 4.456, 4.46},
		{"rounds down", 4.234, 4.23},
		{"in range untouched", 3.5, 3.5},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			server := newModelServer(t, test.raw, nil)
			p := New(server.URL)

			rating, err := p.Predict(context.Background(), testRequest())
			if err != nil {
				t.Fatalf("Predict failed: %v", err)
			}
			if rating != test.expected {
				t.Errorf("rating: %v, want: %v", rating, test.expected)
			}
		})
	}
}

func TestPredict_SendsFeatureRecord(t *testing.T) {
	var body invocationsRequest
	server := newModelServer(t, 4.0, &body)
	p := New(server.URL)

	request := testRequest()
	request.OutdoorSeating = true

	if _, err := p.Predict(context.Background(), request); err != nil {
		t.Fatalf("Predict failed: %v", err)
	}

	if len(body.DataframeRecords) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(body.DataframeRecords))
	}
	record := body.DataframeRecords[0]

	if record["area"] != "Clifton" {
		t.Errorf("area: %v, want: Clifton", record["area"])
	}
	if record["outdoor_seating"] != true {
		t.Errorf("outdoor_seating: %v, want: true", record["outdoor_seating"])
	}
	if record["latitude"] != 24.81 {
		t.Errorf("latitude: %v, want: 24.81", record["latitude"])
	}
}

func TestPredict_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model exploded", http.StatusInternalServerError)
	}))
	defer server.Close()

	p := New(server.URL)
	_, err := p.Predict(context.Background(), testRequest())

	if err == nil {
		t.Fatal("Expected error for non-200 response")
	}
	if !strings.Contains(err.Error(), "status 500") {
		t.Errorf("Unexpected error: %v", err)
	}
	if !strings.Contains(err.Error(), "model exploded") {
		t.Errorf("Error should carry the server detail, got: %v", err)
	}
}

func TestPredict_EmptyPredictions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"predictions": []}`)
	}))
	defer server.Close()

	p := New(server.URL)
	_, err := p.Predict(context.Background(), testRequest())

	if err == nil {
		t.Fatal("Expected error for empty predictions")
	}
	if !strings.Contains(err.Error(), "empty predictions") {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestReady(t *testing.T) {
	server := newModelServer(t, 4.0, nil)

	p := New(server.URL)
	if !p.Ready(context.Background()) {
		t.Error("Expected ready against a live server")
	}

	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer down.Close()

	p = New(down.URL)
	if p.Ready(context.Background()) {
		t.Error("Expected not ready when ping fails")
	}
}

func TestInfo(t *testing.T) {
	info := Info()

	if info.Name != ModelName {
		t.Errorf("Name: %s, want: %s", info.Name, ModelName)
	}
	if info.URI != "models:/Restaurant_rating_prediction_regression/1" {
		t.Errorf("URI: %s", info.URI)
	}
}
