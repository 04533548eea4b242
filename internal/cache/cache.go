package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/AghaSalikAli/Taste-Karachi/internal/models"
)

// DefaultTTL is how long cached advice stays valid. The review corpus only
// changes on ingest, so entries can live long.
const DefaultTTL = 24 * time.Hour

type Config struct {
	Addr     string
	Password string
	TTL      time.Duration
}

// MetricsRecorder counts cache hits and misses.
type MetricsRecorder interface {
	RecordCacheHit(ctx context.Context)
	RecordCacheMiss(ctx context.Context)
}

type noopMetrics struct{}

func (noopMetrics) RecordCacheHit(context.Context)  {}
func (noopMetrics) RecordCacheMiss(context.Context) {}

// CachedAdvice is the stored payload for one feature combination.
type CachedAdvice struct {
	Advice     string `json:"advice"`
	NumReviews int    `json:"num_reviews"`
}

// AdviceCache keeps moderated advice in Redis, keyed by the feature fields
// that drive retrieval. A nil cache is valid and always misses.
type AdviceCache struct {
	client  *redis.Client
	ttl     time.Duration
	metrics MetricsRecorder
}

// Connect dials Redis with exponential backoff between attempts.
func Connect(ctx context.Context, cfg Config, maxRetries int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:            cfg.Addr,
		Password:        cfg.Password,
		DB:              0,
		MaxRetries:      3,
		MinRetryBackoff: 8 * time.Millisecond,
		MaxRetryBackoff: 512 * time.Millisecond,
		DialTimeout:     5 * time.Second,
		ReadTimeout:     3 * time.Second,
		WriteTimeout:    3 * time.Second,
	})

	var err error
	for i := range maxRetries {
		if i > 0 {
			backoff := time.Duration(1<<uint(i)) * time.Second
			log.Info().Dur("backoff", backoff).Msg("Waiting before Redis retry")
			time.Sleep(backoff)
		}

		log.Info().Int("attempt", i+1).Int("max_retries", maxRetries).Msg("Connecting to Redis")

		err = client.Ping(ctx).Err()
		if err == nil {
			log.Info().Int("attempts_needed", i+1).Msg("Redis connected")
			return client, nil
		}

		log.Warn().Err(err).Int("attempt", i+1).Msg("Redis ping failed")
	}

	return nil, fmt.Errorf("failed to connect to Redis after %d attempts: %w", maxRetries, err)
}

func NewAdviceCache(client *redis.Client, ttl time.Duration, metrics MetricsRecorder) *AdviceCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &AdviceCache{
		client:  client,
		ttl:     ttl,
		metrics: metrics,
	}
}

// Key canonicalizes the retrieval-relevant features. Two requests that
// retrieve the same reviews share one entry; the remaining feature fields do
// not influence the advice and are left out.
func Key(features models.RestaurantFeatures) string {
	category := features.Category
	if category == "" {
		category = "restaurant"
	}
	area := features.Area
	if area == "" {
		area = "Karachi"
	}
	priceLevel := features.PriceLevel
	if priceLevel == "" {
		priceLevel = "moderate"
	}

	canonical := strings.Join([]string{
		category,
		area,
		priceLevel,
		strconv.FormatBool(features.IsOpen247),
		strconv.FormatBool(features.OutdoorSeating),
		strconv.FormatBool(features.LiveMusic),
	}, "|")

	sum := sha256.Sum256([]byte(canonical))
	return "advice:" + hex.EncodeToString(sum[:])
}

// Get looks up cached advice. Any Redis failure counts as a miss; the cache
// never fails a request.
func (c *AdviceCache) Get(ctx context.Context, features models.RestaurantFeatures) (*CachedAdvice, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}

	data, err := c.client.Get(ctx, Key(features)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warn().Err(err).Msg("Advice cache lookup failed")
		}
		c.metrics.RecordCacheMiss(ctx)
		return nil, false
	}

	var cached CachedAdvice
	if err := json.Unmarshal(data, &cached); err != nil {
		log.Warn().Err(err).Msg("Dropping malformed advice cache entry")
		c.metrics.RecordCacheMiss(ctx)
		return nil, false
	}

	c.metrics.RecordCacheHit(ctx)
	return &cached, true
}

// Set stores moderated advice for the feature combination.
func (c *AdviceCache) Set(ctx context.Context, features models.RestaurantFeatures, cached CachedAdvice) error {
	if c == nil || c.client == nil {
		return nil
	}

	data, err := json.Marshal(cached)
	if err != nil {
		return fmt.Errorf("failed to marshal advice cache entry: %w", err)
	}

	if err := c.client.Set(ctx, Key(features), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store advice cache entry: %w", err)
	}
	return nil
}
