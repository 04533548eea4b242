package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/AghaSalikAli/Taste-Karachi/internal/api"
	"github.com/AghaSalikAli/Taste-Karachi/internal/api/middleware"
	"github.com/AghaSalikAli/Taste-Karachi/internal/ingestion"
	"github.com/AghaSalikAli/Taste-Karachi/internal/setup"
	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	restful "github.com/emicklei/go-restful/v3"
	"github.com/go-openapi/spec"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func enrichSwaggerObject(swo *spec.Swagger) {
	swo.Info = &spec.Info{
		InfoProps: spec.InfoProps{
			Title:       "Taste Karachi API",
			Description: "Restaurant rating prediction and business advice for Karachi restaurants",
			Version:     "1.0.0",
		},
	}
	swo.Tags = []spec.Tag{
		{TagProps: spec.TagProps{
			Name:        "info",
			Description: "Service information",
		}},
		{TagProps: spec.TagProps{
			Name:        "health",
			Description: "Health checks",
		}},
		{TagProps: spec.TagProps{
			Name:        "model",
			Description: "Rating model operations",
		}},
		{TagProps: spec.TagProps{
			Name:        "advice",
			Description: "Review-grounded business advice",
		}},
	}
}

func main() {
	// Setup logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	logger := log.Logger

	// Load env
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("No .env file found")
	}

	ctx := context.Background()

	cfg := setup.LoadConfig()
	deps, err := setup.Wire(ctx, cfg, &logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Unable to load dependencies")
	}
	defer func() {
		if err := deps.Shutdown(context.Background()); err != nil {
			log.Warn().Err(err).Msg("Metrics shutdown failed")
		}
	}()

	// Prime the embedder and vector store so the first advice request
	// doesn't pay the cold-start cost.
	if deps.Embedder != nil && deps.DB != nil {
		if err := ingestion.Warmup(ctx, deps.Embedder, deps.DB); err != nil {
			log.Warn().Err(err).Msg("Warmup query failed")
		} else {
			log.Info().Msg("Warmup query succeeded")
		}
	}

	// API
	handler := api.NewHandler(deps.Predictor, deps.Advisor, deps.Guardrails, deps.Cache, &logger)
	container := restful.NewContainer()
	container.Filter(middleware.Logger)
	container.Filter(middleware.RecoverPanic)
	api.RegisterRoutes(container, handler)

	config := restfulspec.Config{
		WebServices:                   container.RegisteredWebServices(),
		APIPath:                       "/apidocs.json",
		PostBuildSwaggerObjectHandler: enrichSwaggerObject,
	}
	container.Add(restfulspec.NewOpenAPIService(config))

	// CORS
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	})

	// Server
	port := os.Getenv("TASTE_KARACHI_API_PORT")
	if port == "" {
		port = "8000"
	}

	addr := fmt.Sprintf(":%s", port)
	log.Info().Str("address", addr).Msg("Starting Taste Karachi API")

	server := http.Server{
		Addr:    addr,
		Handler: corsHandler.Handler(container),
		// Advice generation holds the response open through retrieval and a
		// full model invocation, so the write timeout needs headroom.
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	if err := server.ListenAndServe(); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
}
