package ingestion

import (
	"context"
	"fmt"

	"github.com/AghaSalikAli/Taste-Karachi/internal/database"
	"github.com/AghaSalikAli/Taste-Karachi/internal/embedding"
	"github.com/rs/zerolog/log"
)

type Pipeline struct {
	embedder *embedding.BedrockEmbedder
	db       *database.DB
}

func NewPipeline(embedder *embedding.BedrockEmbedder, db *database.DB) *Pipeline {
	return &Pipeline{
		embedder: embedder,
		db:       db,
	}
}

// Run loads both CSV files, joins reviews to their restaurant's features and
// indexes everything in embed-and-insert batches.
func (p *Pipeline) Run(ctx context.Context, restaurantsPath string, reviewsPath string) error {
	const BATCH_SIZE = 100

	log.Info().Str("file", restaurantsPath).Msg("Loading restaurants")
	restaurants, err := LoadRestaurants(restaurantsPath)
	if err != nil {
		return err
	}
	log.Info().Int("count", len(restaurants)).Msg("Restaurants loaded")

	log.Info().Str("file", reviewsPath).Msg("Loading reviews")
	rawReviews, err := LoadReviews(reviewsPath)
	if err != nil {
		return err
	}
	log.Info().Int("count", len(rawReviews)).Msg("Reviews loaded")

	records := JoinReviews(rawReviews, restaurants)
	log.Info().Int("count", len(records)).Msg("Reviews joined with restaurant features")

	if err := p.db.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("failed to prepare schema: %w", err)
	}

	for i := 0; i < len(records); i += BATCH_SIZE {
		end := i + BATCH_SIZE
		if end > len(records) {
			end = len(records)
		}

		subset := records[i:end]

		texts := make([]string, 0, len(subset))
		reviews := make([]database.Review, 0, len(subset))
		for j, record := range subset {
			texts = append(texts, record.Text)
			reviews = append(reviews, database.Review{
				ID:       fmt.Sprintf("review_%d", i+j),
				Content:  record.Text,
				Metadata: record.Features.Metadata(),
			})
		}

		embeddings, err := p.embedder.GenerateBatchEmbeddings(ctx, texts)
		if err != nil {
			return fmt.Errorf("Failed to generate embeddings. Error: %w", err)
		}

		if err := p.db.InsertReviews(ctx, reviews, embeddings); err != nil {
			return fmt.Errorf("failed to store reviews: %w", err)
		}

		log.Info().Int("batch", i/BATCH_SIZE+1).Int("reviews", len(reviews)).Msg("Batch complete")
	}

	log.Info().Int("total_reviews", len(records)).Msg("Ingestion complete")
	return nil
}
