package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/AghaSalikAli/Taste-Karachi/internal/mcpadapter"
	"github.com/AghaSalikAli/Taste-Karachi/internal/setup"
	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Setup logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	logger := log.Logger

	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := setup.LoadConfig()
	deps, err := setup.Wire(ctx, cfg, &logger)
	if err != nil {
		logger.Error().Err(err).Msg("Unable to load dependencies")
		os.Exit(1)
	}

	server := createMCPServer(deps)

	logger.Info().Msg("Starting Taste Karachi MCP server")
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		if errors.Is(err, io.EOF) || strings.Contains(err.Error(), "server is closing") {
			logger.Debug().Err(err).Msg("MCP server stopped")
			return
		}
		logger.Error().Err(err).Msg("MCP server failed")
		os.Exit(1)
	}
}

func createMCPServer(deps *setup.Dependencies) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "taste-karachi",
		Version: "1.0.0",
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "predict_rating",
		Description: "Predict the star rating (0-5) a Karachi restaurant would earn, from its area, price level, category, and amenities",
	}, mcpadapter.NewPredictHandler(deps.Predictor))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate_advice",
		Description: "Generate business advice for a Karachi restaurant, grounded in reviews of similar restaurants",
	}, mcpadapter.NewAdviceHandler(deps.Advisor))

	return server
}
