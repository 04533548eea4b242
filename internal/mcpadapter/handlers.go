package mcpadapter

import (
	"context"
	"errors"

	"github.com/AghaSalikAli/Taste-Karachi/internal/advisor"
	"github.com/AghaSalikAli/Taste-Karachi/internal/models"
	"github.com/AghaSalikAli/Taste-Karachi/internal/predictor"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// PredictInput is the MCP tool input schema for rating prediction
// (matches the HTTP API field names).
type PredictInput struct {
	models.RestaurantFeatures
	Latitude  float64 `json:"latitude" jsonschema:"restaurant latitude in decimal degrees"`
	Longitude float64 `json:"longitude" jsonschema:"restaurant longitude in decimal degrees"`
}

// AdviceInput is the MCP tool input schema for advice generation
// (matches the HTTP API field names).
type AdviceInput struct {
	models.RestaurantFeatures
}

// NewPredictHandler returns a tool handler that scores features against the
// rating model. Pass the returned function to mcp.AddTool.
func NewPredictHandler(ratingPredictor *predictor.Predictor) func(context.Context, *mcp.CallToolRequest, PredictInput) (*mcp.CallToolResult, models.PredictResponse, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input PredictInput) (*mcp.CallToolResult, models.PredictResponse, error) {
		return PredictRating(ctx, ratingPredictor, req, input)
	}
}

// PredictRating validates the features and returns the predicted rating.
func PredictRating(
	ctx context.Context,
	ratingPredictor *predictor.Predictor,
	req *mcp.CallToolRequest,
	input PredictInput,
) (*mcp.CallToolResult, models.PredictResponse, error) {
	if ratingPredictor == nil {
		return nil, models.PredictResponse{}, errors.New("model server not configured")
	}

	predictRequest := models.PredictRequest{
		RestaurantFeatures: input.RestaurantFeatures,
		Latitude:           input.Latitude,
		Longitude:          input.Longitude,
	}
	if err := predictRequest.Validate(); err != nil {
		return nil, models.PredictResponse{}, err
	}

	rating, err := ratingPredictor.Predict(ctx, predictRequest)
	if err != nil {
		return nil, models.PredictResponse{}, err
	}

	return nil, models.PredictResponse{
		PredictedRating: rating,
		RatingScale:     "0-5",
		ModelName:       predictor.ModelName,
		ModelVersion:    predictor.ModelVersion,
		InputFeatures: models.IdentityFields{
			Area:       input.Area,
			PriceLevel: input.PriceLevel,
			Category:   input.Category,
		},
	}, nil
}

// NewAdviceHandler returns a tool handler that generates business advice from
// reviews of similar restaurants. Pass the returned function to mcp.AddTool.
func NewAdviceHandler(adviceGenerator *advisor.Advisor) func(context.Context, *mcp.CallToolRequest, AdviceInput) (*mcp.CallToolResult, models.AdviceResponse, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input AdviceInput) (*mcp.CallToolResult, models.AdviceResponse, error) {
		return GenerateAdvice(ctx, adviceGenerator, req, input)
	}
}

// GenerateAdvice runs the retrieval cascade and advice generation.
func GenerateAdvice(
	ctx context.Context,
	adviceGenerator *advisor.Advisor,
	req *mcp.CallToolRequest,
	input AdviceInput,
) (*mcp.CallToolResult, models.AdviceResponse, error) {
	if adviceGenerator == nil {
		return nil, models.AdviceResponse{}, errors.New("advice generator not configured")
	}

	result, err := adviceGenerator.GenerateAdvice(ctx, input.RestaurantFeatures)
	if err != nil {
		return nil, models.AdviceResponse{}, err
	}

	return nil, models.AdviceResponse{
		Advice:              result.Advice,
		NumReviewsRetrieved: len(result.Reviews),
		FeaturesUsed:        input.RestaurantFeatures,
		Status:              "success",
	}, nil
}
