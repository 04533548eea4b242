package predictor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/AghaSalikAli/Taste-Karachi/internal/models"
)

// Identity of the regression model served behind the scoring endpoint.
const (
	ModelName    = "Restaurant_rating_prediction_regression"
	ModelVersion = "1"
)

type invocationsRequest struct {
	DataframeRecords []map[string]any `json:"dataframe_records"`
}

type invocationsResponse struct {
	Predictions []float64 `json:"predictions"`
}

// Predictor calls an MLflow model server for rating predictions.
type Predictor struct {
	baseURL    string
	httpClient *http.Client
	modelInfo  models.ModelInfo
}

// Info identifies the served model. The identity is static so it is known
// even before a server connection exists.
func Info() models.ModelInfo {
	return models.ModelInfo{
		Name:    ModelName,
		Version: ModelVersion,
		URI:     fmt.Sprintf("models:/%s/%s", ModelName, ModelVersion),
	}
}

func New(baseURL string) *Predictor {
	return &Predictor{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		modelInfo: Info(),
	}
}

func (p *Predictor) ModelInfo() models.ModelInfo {
	return p.modelInfo
}

func (p *Predictor) ServerURL() string {
	return p.baseURL
}

// Ready reports whether the model server answers its ping endpoint.
func (p *Predictor) Ready(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/ping", nil)
	if err != nil {
		return false
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}

// Predict posts the features to the model server and returns the predicted
// rating clamped to [0, 5] and rounded to two decimals.
func (p *Predictor) Predict(ctx context.Context, request models.PredictRequest) (float64, error) {
	record := request.Metadata()
	record["latitude"] = request.Latitude
	record["longitude"] = request.Longitude

	body, err := json.Marshal(invocationsRequest{
		DataframeRecords: []map[string]any{record},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to serialize prediction request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/invocations", bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("failed to build prediction request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("model server request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return 0, fmt.Errorf("model server returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var prediction invocationsResponse
	if err := json.NewDecoder(resp.Body).Decode(&prediction); err != nil {
		return 0, fmt.Errorf("failed to decode model server response: %w", err)
	}

	if len(prediction.Predictions) == 0 {
		return 0, fmt.Errorf("empty predictions in model server response")
	}

	rating := prediction.Predictions[0]
	rating = math.Max(0.0, math.Min(5.0, rating))
	rating = math.Round(rating*100) / 100

	return rating, nil
}
