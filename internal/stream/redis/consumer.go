package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/AghaSalikAli/Taste-Karachi/internal/database"
	"github.com/AghaSalikAli/Taste-Karachi/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Embedder turns review text into a query vector.
type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// ReviewStore indexes embedded reviews.
type ReviewStore interface {
	InsertReviews(ctx context.Context, reviews []database.Review, embeddings [][]float32) error
}

type Consumer struct {
	client       *redis.Client
	stream       string
	groupID      string
	consumerName string
	embedder     Embedder
	store        ReviewStore
	logger       *zerolog.Logger
}

func NewConsumer(client *redis.Client, stream string, groupID string, consumerName string, embedder Embedder, store ReviewStore, logger *zerolog.Logger) *Consumer {
	return &Consumer{
		client:       client,
		stream:       stream,
		groupID:      groupID,
		consumerName: consumerName,
		embedder:     embedder,
		store:        store,
		logger:       logger,
	}
}

func (c *Consumer) Setup(ctx context.Context) error {
	err := c.client.XGroupCreateMkStream(ctx, c.stream, c.groupID, "0").Err()
	if err != nil && err.Error() != "BUSYGROUP Consumer Group name already exists" {
		return err
	}
	return nil
}

func (c *Consumer) Start(ctx context.Context) error {
	c.logger.Info().
		Str("stream", c.stream).
		Str("group", c.groupID).
		Str("consumer", c.consumerName).
		Msg("Consumer started")

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		msgs, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    c.groupID,
			Consumer: c.consumerName,
			Streams:  []string{c.stream, ">"},
			Count:    1,
			Block:    2 * time.Second,
		}).Result()

		if err != nil {
			if errors.Is(err, redis.Nil) {
				// timeout, no message -> loop again
				continue
			}

			if ctx.Err() != nil {
				return ctx.Err() // context cancelled during block
			}

			c.logger.Error().Err(err).Msg("Failed to read from stream")
			continue
		}

		for _, msg := range msgs[0].Messages {
			c.process(ctx, msg)
		}
	}
}

func (c *Consumer) Stop() error {
	// No-op
	return nil
}

func (c *Consumer) process(ctx context.Context, msg redis.XMessage) {
	c.logger.Info().Str("id", msg.ID).Msg("Message received")

	payload, ok := msg.Values["payload"].(string)
	if !ok {
		c.logger.Error().Str("id", msg.ID).Msg("Missing payload field")
		c.ack(ctx, msg.ID)
		return
	}

	var event models.ReviewEvent
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		c.logger.Error().Err(err).Str("id", msg.ID).Msg("Failed to decode message")
		c.ack(ctx, msg.ID) // bad message, ACK to skip it
		return
	}

	if strings.TrimSpace(event.Text) == "" {
		c.logger.Warn().Str("id", msg.ID).Msg("Empty review text, skipping")
		c.ack(ctx, msg.ID)
		return
	}

	embedding, err := c.embedder.GenerateEmbedding(ctx, event.Text)
	if err != nil {
		// Not ACKed: the message redelivers once the embedder recovers.
		c.logger.Error().Err(err).Str("id", msg.ID).Msg("Failed to embed review")
		return
	}

	review := database.Review{
		ID:       event.ID,
		Content:  event.Text,
		Metadata: event.Features.Metadata(),
	}
	if review.ID == "" {
		// Stream entry IDs are stable across redeliveries, so the insert
		// stays idempotent even when an ACK was lost.
		review.ID = fmt.Sprintf("stream_%s", msg.ID)
	}

	if err := c.store.InsertReviews(ctx, []database.Review{review}, [][]float32{embedding}); err != nil {
		c.logger.Error().Err(err).Str("id", msg.ID).Msg("Failed to index review")
		return
	}

	c.logger.Info().
		Str("id", msg.ID).
		Str("review_id", review.ID).
		Msg("Review indexed")

	c.ack(ctx, msg.ID)
}

func (c *Consumer) ack(ctx context.Context, msgID string) {
	if err := c.client.XAck(ctx, c.stream, c.groupID, msgID).Err(); err != nil {
		c.logger.Error().Err(err).Str("id", msgID).Msg("Failed to ACK message")
	}
}
