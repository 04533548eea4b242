package ingestion

import (
	"context"
	"fmt"

	"github.com/AghaSalikAli/Taste-Karachi/internal/database"
	"github.com/AghaSalikAli/Taste-Karachi/internal/embedding"
)

// Warmup primes the embedder and the review store with a dummy query so the
// first real request does not pay the cold-start cost.
func Warmup(ctx context.Context, embedder *embedding.BedrockEmbedder, db *database.DB) error {
	vector, err := embedder.GenerateEmbedding(ctx, "test restaurant")
	if err != nil {
		return fmt.Errorf("failed to embed warmup query: %w", err)
	}

	if _, err := db.SemanticSearch(ctx, vector, nil, 1); err != nil {
		return fmt.Errorf("warmup query failed: %w", err)
	}

	return nil
}
