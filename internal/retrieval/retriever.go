package retrieval

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/AghaSalikAli/Taste-Karachi/internal/database"
	"github.com/AghaSalikAli/Taste-Karachi/internal/models"
)

// DefaultLimit is how many reviews a single retrieval returns.
const DefaultLimit = 5

// Store runs filtered vector search over the review corpus.
type Store interface {
	SemanticSearch(ctx context.Context, queryEmbedding []float32, filter database.Filter, limit int) ([]database.Review, error)
}

// Embedder turns query text into the vector the store searches with.
type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

type Retriever struct {
	store    Store
	embedder Embedder
	logger   *zerolog.Logger
}

func NewRetriever(store Store, embedder Embedder, logger *zerolog.Logger) *Retriever {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Retriever{
		store:    store,
		embedder: embedder,
		logger:   logger,
	}
}

// Retrieve walks the relaxation ladder from strict to broad and returns the
// review texts from the first level with matches. A level that errors counts
// as empty and the ladder keeps going; no matches anywhere returns an empty
// slice.
func (r *Retriever) Retrieve(ctx context.Context, features models.RestaurantFeatures, k int) []string {
	for _, level := range ladder {
		queryText, filter := buildQuery(features, level)

		queryEmbedding, err := r.embedder.GenerateEmbedding(ctx, queryText)
		if err != nil {
			r.logger.Warn().Err(err).Str("level", level.String()).Msg("Query embedding failed")
			continue
		}

		reviews, err := r.store.SemanticSearch(ctx, queryEmbedding, filter, k)
		if err != nil {
			r.logger.Warn().Err(err).Str("level", level.String()).Msg("Semantic search failed")
			continue
		}

		if len(reviews) == 0 {
			continue
		}

		r.logger.Info().
			Str("level", level.String()).
			Int("count", len(reviews)).
			Msg("Reviews retrieved")

		contents := make([]string, 0, len(reviews))
		for _, review := range reviews {
			contents = append(contents, review.Content)
		}
		return contents
	}

	r.logger.Warn().Msg("No reviews found at any filtering level")
	return nil
}
