package database

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pgvector/pgvector-go"
)

// schemaStatements bring up the reviews table on a fresh database. The
// vector size matches the Titan v2 embedding model.
var schemaStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS vector`,
	`CREATE TABLE IF NOT EXISTS restaurant_reviews (
		id          TEXT PRIMARY KEY,
		content     TEXT NOT NULL,
		metadata    JSONB NOT NULL DEFAULT '{}',
		embedding   VECTOR(1024),
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS restaurant_reviews_embedding_idx
		ON restaurant_reviews USING hnsw (embedding vector_cosine_ops)`,
}

func (db *DB) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := db.Pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}
	return nil
}

// SemanticSearch returns the reviews closest to the query embedding, ordered
// by cosine distance. Filter conditions AND together over the metadata.
func (db *DB) SemanticSearch(ctx context.Context, queryEmbedding []float32, filter Filter, limit int) ([]Review, error) {
	args := []any{pgvector.NewVector(queryEmbedding)}

	var where string
	if len(filter) > 0 {
		predicates := make([]string, 0, len(filter))
		for _, cond := range filter {
			args = append(args, cond.Value)
			switch cond.Value.(type) {
			case bool:
				predicates = append(predicates, fmt.Sprintf("(metadata->>'%s')::boolean = $%d", cond.Field, len(args)))
			default:
				predicates = append(predicates, fmt.Sprintf("metadata->>'%s' = $%d", cond.Field, len(args)))
			}
		}
		where = "WHERE " + strings.Join(predicates, " AND ")
	}

	args = append(args, limit)
	query := fmt.Sprintf(`
	SELECT
	  id,
	  content,
	  metadata,
	  embedding <=> $1 AS distance
	FROM restaurant_reviews
	%s
	ORDER BY distance ASC
	LIMIT $%d`, where, len(args))

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("Unable to query the database: %w", err)
	}

	defer rows.Close()

	var reviews []Review
	for rows.Next() {
		var review Review

		if err := rows.Scan(&review.ID, &review.Content, &review.Metadata, &review.Distance); err != nil {
			return nil, fmt.Errorf("Failed to scan row: %w", err)
		}

		reviews = append(reviews, review)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return reviews, nil
}

// InsertReviews stores a batch of reviews with their embeddings in one
// transaction. Re-inserting an existing id is a no-op, so redelivered stream
// events stay idempotent.
func (db *DB) InsertReviews(ctx context.Context, reviews []Review, embeddings [][]float32) error {
	if len(reviews) != len(embeddings) {
		return fmt.Errorf("reviews and embeddings length mismatch: %d != %d", len(reviews), len(embeddings))
	}

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
        INSERT INTO restaurant_reviews (id, content, metadata, embedding, created_at)
        VALUES ($1, $2, $3, $4, NOW())
        ON CONFLICT (id) DO NOTHING
    `

	for i, review := range reviews {
		metadataJSON, err := json.Marshal(review.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal review metadata: %w", err)
		}

		vector := pgvector.NewVector(embeddings[i])

		if _, err := tx.Exec(ctx, query, review.ID, review.Content, metadataJSON, vector); err != nil {
			return fmt.Errorf("failed to insert review %s: %w", review.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (db *DB) CountReviews(ctx context.Context) (int64, error) {
	var count int64
	if err := db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM restaurant_reviews`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count reviews: %w", err)
	}
	return count, nil
}
