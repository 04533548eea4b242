package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/AghaSalikAli/Taste-Karachi/internal/advisor"
	"github.com/AghaSalikAli/Taste-Karachi/internal/api/middleware"
	"github.com/AghaSalikAli/Taste-Karachi/internal/cache"
	"github.com/AghaSalikAli/Taste-Karachi/internal/guardrails"
	"github.com/AghaSalikAli/Taste-Karachi/internal/models"
	"github.com/AghaSalikAli/Taste-Karachi/internal/predictor"
	"github.com/emicklei/go-restful/v3"
	"github.com/rs/zerolog"
)

const apiVersion = "1.0.0"

// Handler serves the prediction and advice endpoints. The predictor and
// advisor may be nil when their backends are not configured; the affected
// endpoints answer 503 instead of failing at startup.
type Handler struct {
	predictor  *predictor.Predictor
	advisor    *advisor.Advisor
	guardrails *guardrails.Engine
	cache      *cache.AdviceCache
	logger     *zerolog.Logger
}

func NewHandler(ratingPredictor *predictor.Predictor, adviceGenerator *advisor.Advisor, guardrailEngine *guardrails.Engine, adviceCache *cache.AdviceCache, logger *zerolog.Logger) *Handler {
	return &Handler{
		predictor:  ratingPredictor,
		advisor:    adviceGenerator,
		guardrails: guardrailEngine,
		cache:      adviceCache,
		logger:     logger,
	}
}

// GET /
func (h *Handler) Welcome(req *restful.Request, resp *restful.Response) {
	welcome := models.WelcomeResponse{
		Message:     "Welcome to Taste Karachi Restaurant Rating Prediction API",
		Description: "Predict restaurant ratings based on features",
		Version:     apiVersion,
		Model:       predictor.Info(),
		Endpoints: map[string]string{
			"health":     "/health - Health check",
			"predict":    "/predict - Make predictions",
			"advice":     "/advice - Generate business advice",
			"model_info": "/model-info - Get model details",
			"openapi":    "/apidocs.json - OpenAPI specification",
		},
	}
	if h.predictor != nil {
		welcome.ModelServer = h.predictor.ServerURL()
	}

	resp.WriteHeaderAndEntity(http.StatusOK, welcome)
}

// GET /health
func (h *Handler) Health(req *restful.Request, resp *restful.Response) {
	ctx := req.Request.Context()

	health := models.HealthResponse{
		Status:          "healthy",
		ModelLoaded:     h.predictor != nil && h.predictor.Ready(ctx),
		RAGEngineLoaded: h.advisor != nil,
		ModelInfo:       predictor.Info(),
	}

	resp.WriteHeaderAndEntity(http.StatusOK, health)
}

// GET /model-info
func (h *Handler) ModelInfo(req *restful.Request, resp *restful.Response) {
	if h.predictor == nil {
		middleware.HandleError(resp, errors.New("Model not loaded"), http.StatusServiceUnavailable)
		return
	}

	info := h.predictor.ModelInfo()
	resp.WriteHeaderAndEntity(http.StatusOK, models.ModelInfoResponse{
		ModelName:      info.Name,
		ModelVersion:   info.Version,
		ModelURI:       info.URI,
		ModelServerURL: h.predictor.ServerURL(),
	})
}

// POST /predict
// Body: PredictRequest
// Returns: PredictResponse with the rating clamped to [0, 5]
func (h *Handler) Predict(req *restful.Request, resp *restful.Response) {
	var predictRequest models.PredictRequest
	if err := req.ReadEntity(&predictRequest); err != nil {
		h.logger.Error().Err(err).Msg("Failed to parse request body")
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}
	if err := predictRequest.Validate(); err != nil {
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}
	if h.predictor == nil {
		middleware.HandleError(resp, errors.New("Model not loaded. Service unavailable."), http.StatusServiceUnavailable)
		return
	}

	ctx := req.Request.Context()

	rating, err := h.predictor.Predict(ctx, predictRequest)
	if err != nil {
		h.logger.Error().Err(err).Msg("Prediction failed")
		middleware.HandleError(resp, fmt.Errorf("Prediction error: %v", err), http.StatusInternalServerError)
		return
	}

	h.logger.Info().
		Str("category", predictRequest.Category).
		Str("area", predictRequest.Area).
		Float64("predicted_rating", rating).
		Msg("Prediction complete")

	resp.WriteHeaderAndEntity(http.StatusOK, models.PredictResponse{
		PredictedRating: rating,
		RatingScale:     "0-5",
		ModelName:       predictor.ModelName,
		ModelVersion:    predictor.ModelVersion,
		InputFeatures: models.IdentityFields{
			Area:       predictRequest.Area,
			PriceLevel: predictRequest.PriceLevel,
			Category:   predictRequest.Category,
		},
	})
}

// POST /advice
// Body: AdviceRequest
// Returns: AdviceResponse
//
// The optional question goes through input guardrails before any retrieval
// runs; blocked requests answer 200 with the safe fallback text and status
// "blocked". Generated advice is moderated before it leaves the service.
func (h *Handler) Advice(req *restful.Request, resp *restful.Response) {
	var adviceRequest models.AdviceRequest
	if err := req.ReadEntity(&adviceRequest); err != nil {
		h.logger.Error().Err(err).Msg("Failed to parse request body")
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}
	if err := adviceRequest.Validate(); err != nil {
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}
	if h.advisor == nil {
		middleware.HandleError(resp, errors.New("RAG Engine not initialized. Check server logs for details."), http.StatusServiceUnavailable)
		return
	}

	ctx := req.Request.Context()

	h.logger.Info().
		Str("category", adviceRequest.Category).
		Str("area", adviceRequest.Area).
		Str("price_level", adviceRequest.PriceLevel).
		Bool("has_question", adviceRequest.Question != "").
		Msg("Advice request received")

	if adviceRequest.Question != "" && h.guardrails != nil {
		if result := h.guardrails.ValidateInput(ctx, adviceRequest.Question); result.Action == guardrails.ActionBlock {
			resp.WriteHeaderAndEntity(http.StatusOK, models.AdviceResponse{
				Advice:       h.guardrails.BlockedResponse(result),
				FeaturesUsed: adviceRequest.RestaurantFeatures,
				Status:       "blocked",
			})
			return
		}
	}

	if cached, ok := h.cache.Get(ctx, adviceRequest.RestaurantFeatures); ok {
		resp.WriteHeaderAndEntity(http.StatusOK, models.AdviceResponse{
			Advice:              cached.Advice,
			NumReviewsRetrieved: cached.NumReviews,
			FeaturesUsed:        adviceRequest.RestaurantFeatures,
			Status:              "success",
		})
		return
	}

	result, err := h.advisor.GenerateAdvice(ctx, adviceRequest.RestaurantFeatures)
	if err != nil {
		// The original service reported generation failures inside the
		// advice text rather than as an HTTP fault.
		h.logger.Error().Err(err).Msg("Advice generation failed")
		resp.WriteHeaderAndEntity(http.StatusOK, models.AdviceResponse{
			Advice:              fmt.Sprintf("Error generating advice: %v", err),
			NumReviewsRetrieved: len(result.Reviews),
			FeaturesUsed:        adviceRequest.RestaurantFeatures,
			Status:              "success",
		})
		return
	}

	advice := result.Advice
	if h.guardrails != nil {
		moderation := h.guardrails.ModerateOutput(ctx, advice, result.Reviews)
		switch moderation.Action {
		case guardrails.ActionModify:
			advice = moderation.ModifiedContent
		case guardrails.ActionBlock:
			advice = h.guardrails.BlockedResponse(moderation)
		}
	}

	if err := h.cache.Set(ctx, adviceRequest.RestaurantFeatures, cache.CachedAdvice{Advice: advice, NumReviews: len(result.Reviews)}); err != nil {
		h.logger.Warn().Err(err).Msg("Failed to cache advice")
	}

	h.logger.Info().
		Int("num_reviews", len(result.Reviews)).
		Msg("Advice generated")

	resp.WriteHeaderAndEntity(http.StatusOK, models.AdviceResponse{
		Advice:              advice,
		NumReviewsRetrieved: len(result.Reviews),
		FeaturesUsed:        adviceRequest.RestaurantFeatures,
		Status:              "success",
	})
}
