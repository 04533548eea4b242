package models

import "fmt"

// PredictRequest is the full feature payload the rating model scores. All
// boolean flags are required by the model schema; the JSON zero value stands
// in for "false" the same way the scoring server treats it.
type PredictRequest struct {
	RestaurantFeatures
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (r PredictRequest) Validate() error {
	if r.Category == "" || r.Area == "" || r.PriceLevel == "" {
		return fmt.Errorf("category, area and price_level are required")
	}
	if r.Latitude < -90 || r.Latitude > 90 {
		return fmt.Errorf("latitude must be within [-90, 90], got %v", r.Latitude)
	}
	if r.Longitude < -180 || r.Longitude > 180 {
		return fmt.Errorf("longitude must be within [-180, 180], got %v", r.Longitude)
	}
	return nil
}

// PredictResponse echoes the identity fields so callers can correlate
// responses without keeping the request around.
type PredictResponse struct {
	PredictedRating float64        `json:"predicted_rating"`
	RatingScale     string         `json:"rating_scale"`
	ModelName       string         `json:"model_name"`
	ModelVersion    string         `json:"model_version"`
	InputFeatures   IdentityFields `json:"input_features"`
}

type IdentityFields struct {
	Area       string `json:"area"`
	PriceLevel string `json:"price_level"`
	Category   string `json:"category"`
}

// AdviceRequest carries the restaurant features plus an optional free-text
// question from the operator. The question goes through input guardrails
// before anything else runs.
type AdviceRequest struct {
	RestaurantFeatures
	Question string `json:"question,omitempty"`
}

func (r AdviceRequest) Validate() error {
	if r.Category == "" || r.Area == "" || r.PriceLevel == "" {
		return fmt.Errorf("category, area and price_level are required")
	}
	return nil
}

type AdviceResponse struct {
	Advice              string             `json:"advice"`
	NumReviewsRetrieved int                `json:"num_reviews_retrieved"`
	FeaturesUsed        RestaurantFeatures `json:"features_used"`
	Status              string             `json:"status"`
}

type HealthResponse struct {
	Status          string    `json:"status"`
	ModelLoaded     bool      `json:"model_loaded"`
	RAGEngineLoaded bool      `json:"rag_engine_loaded"`
	ModelInfo       ModelInfo `json:"model_info"`
}

// WelcomeResponse describes the service and its endpoints at GET /.
type WelcomeResponse struct {
	Message     string            `json:"message"`
	Description string            `json:"description"`
	Version     string            `json:"version"`
	Model       ModelInfo         `json:"model"`
	ModelServer string            `json:"model_server,omitempty"`
	Endpoints   map[string]string `json:"endpoints"`
}

// ModelInfo identifies the regression artifact being served.
type ModelInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	URI     string `json:"uri"`
}

type ModelInfoResponse struct {
	ModelName      string `json:"model_name"`
	ModelVersion   string `json:"model_version"`
	ModelURI       string `json:"model_uri"`
	ModelServerURL string `json:"model_server_url"`
}
