package api

import (
	"github.com/AghaSalikAli/Taste-Karachi/internal/api/middleware"
	"github.com/AghaSalikAli/Taste-Karachi/internal/models"
	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	"github.com/emicklei/go-restful/v3"
)

func RegisterRoutes(container *restful.Container, handler *Handler) {
	ws := new(restful.WebService)

	ws.
		Path("/").
		Consumes(restful.MIME_JSON).
		Produces(restful.MIME_JSON)

	// Welcome endpoint
	ws.
		Route(ws.GET("").
			To(handler.Welcome).
			Doc("API information and available endpoints").
			Metadata(restfulspec.KeyOpenAPITags, []string{"info"}).
			Writes(models.WelcomeResponse{}).
			Returns(200, "OK", models.WelcomeResponse{}))

	// Health endpoint
	ws.
		Route(ws.GET("health").
			To(handler.Health).
			Doc("Health check").
			Metadata(restfulspec.KeyOpenAPITags, []string{"health"}).
			Writes(models.HealthResponse{}).
			Returns(200, "OK", models.HealthResponse{}))

	ws.
		Route(ws.GET("model-info").
			To(handler.ModelInfo).
			Doc("Get details of the served rating model").
			Metadata(restfulspec.KeyOpenAPITags, []string{"model"}).
			Writes(models.ModelInfoResponse{}).
			Returns(200, "OK", models.ModelInfoResponse{}).
			Returns(503, "Model Not Loaded", middleware.ErrorResponse{}))

	ws.
		Route(ws.POST("predict").
			To(handler.Predict).
			Doc("Predict restaurant rating from features").
			Metadata(restfulspec.KeyOpenAPITags, []string{"model"}).
			Reads(models.PredictRequest{}).
			Writes(models.PredictResponse{}).
			Returns(200, "OK", models.PredictResponse{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}).
			Returns(500, "Internal Server Error", middleware.ErrorResponse{}).
			Returns(503, "Model Not Loaded", middleware.ErrorResponse{}))

	ws.
		Route(ws.POST("advice").
			To(handler.Advice).
			Doc("Generate business advice from reviews of similar restaurants").
			Metadata(restfulspec.KeyOpenAPITags, []string{"advice"}).
			Reads(models.AdviceRequest{}).
			Writes(models.AdviceResponse{}).
			Returns(200, "OK", models.AdviceResponse{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}).
			Returns(500, "Internal Server Error", middleware.ErrorResponse{}).
			Returns(503, "RAG Engine Not Initialized", middleware.ErrorResponse{}))

	container.Add(ws)
}
