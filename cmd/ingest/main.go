package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/AghaSalikAli/Taste-Karachi/internal/database"
	"github.com/AghaSalikAli/Taste-Karachi/internal/embedding"
	"github.com/AghaSalikAli/Taste-Karachi/internal/ingestion"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Setup logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// TODO: replace this with cobra cli
	ingestCommand := flag.Bool("ingest", false, "Ingest restaurant reviews command")
	restaurantsPath := flag.String("restaurants", "data/restaurants.csv", "Relative path to the restaurants CSV")
	reviewsPath := flag.String("reviews", "data/reviews.csv", "Relative path to the reviews CSV")

	countCommand := flag.Bool("count", false, "Count indexed reviews command")

	warmupCommand := flag.Bool("warmup", false, "Warm up the retrieval path command")

	flag.Parse()

	err := godotenv.Load()

	if err != nil {
		log.Warn().Msg("Unable to load env variables")
	}

	ctx := context.Background()

	config := database.Config{
		Host:     os.Getenv("TASTE_KARACHI_VECTOR_DB_HOST"),
		Port:     os.Getenv("TASTE_KARACHI_VECTOR_DB_PORT"),
		User:     os.Getenv("TASTE_KARACHI_VECTOR_DB_USER"),
		Password: os.Getenv("TASTE_KARACHI_VECTOR_DB_PASSWORD"),
		Database: os.Getenv("TASTE_KARACHI_VECTOR_DB_DATABASE"),
		SSLMode:  os.Getenv("TASTE_KARACHI_VECTOR_DB_SSLMode"),
	}

	db, err := database.NewWithBackoff(ctx, config, 3)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
		return
	}

	defer db.Close()

	log.Info().Msg("Database connected")

	region := os.Getenv("AWS_REGION")

	client, err := embedding.NewClient(ctx, region)

	if err != nil {
		log.Error().Err(err).Msg("Unable to create bedrock client")
		return
	}

	embedder := embedding.NewBedrockEmbedder(client)
	pipeline := ingestion.NewPipeline(embedder, db)

	// Input commands parsing
	if *countCommand {
		count, err := db.CountReviews(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("Unable to count reviews!")
		}
		log.Info().Int64("reviews", count).Msg("Indexed reviews")
	} else if *warmupCommand {
		if err := ingestion.Warmup(ctx, embedder, db); err != nil {
			log.Fatal().Err(err).Msg("Warmup failed")
		}
		log.Info().Msg("Warmup successful!")
	} else if *ingestCommand {
		if err := pipeline.Run(ctx, *restaurantsPath, *reviewsPath); err != nil {
			log.Fatal().Err(err).Msg("Ingestion failed")
		}
		log.Info().Msg("Ingestion successful!")
	} else {
		log.Fatal().Msg("Unsupported command")
	}
}
