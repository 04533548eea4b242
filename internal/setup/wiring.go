package setup

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/AghaSalikAli/Taste-Karachi/internal/advisor"
	"github.com/AghaSalikAli/Taste-Karachi/internal/cache"
	"github.com/AghaSalikAli/Taste-Karachi/internal/config"
	"github.com/AghaSalikAli/Taste-Karachi/internal/database"
	"github.com/AghaSalikAli/Taste-Karachi/internal/embedding"
	"github.com/AghaSalikAli/Taste-Karachi/internal/guardrails"
	"github.com/AghaSalikAli/Taste-Karachi/internal/llm"
	"github.com/AghaSalikAli/Taste-Karachi/internal/llm/bedrock"
	"github.com/AghaSalikAli/Taste-Karachi/internal/llm/gpt"
	"github.com/AghaSalikAli/Taste-Karachi/internal/observability"
	"github.com/AghaSalikAli/Taste-Karachi/internal/predictor"
	"github.com/AghaSalikAli/Taste-Karachi/internal/retrieval"
	"github.com/rs/zerolog"
)

const (
	ServiceName    = "taste-karachi"
	ServiceVersion = "1.0.0"
)

type Config struct {
	AWSRegion       string
	ClaudeModelID   string
	OpenAIKey       string
	OpenAIModelID   string
	DefaultProvider string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	ModelServerURL string

	RedisAddr      string
	RedisPassword  string
	AdviceCacheTTL time.Duration

	AdviceMaxTokens int

	OTelEndpoint string
}

// Dependencies holds every wired service. Predictor, Advisor and Cache may
// be nil when their backends are not configured or unreachable; callers
// enforce what they actually need.
type Dependencies struct {
	DB         *database.DB
	Embedder   *embedding.BedrockEmbedder
	Retriever  *retrieval.Retriever
	Advisor    *advisor.Advisor
	Predictor  *predictor.Predictor
	Guardrails *guardrails.Engine
	Cache      *cache.AdviceCache
	Metrics    *observability.Metrics
	Logger     *zerolog.Logger
	Shutdown   func(context.Context) error
}

func LoadConfig() *Config {
	return &Config{
		AWSRegion:       getEnv("AWS_REGION", "us-east-1"),
		ClaudeModelID:   getEnv("CLAUDE_MODEL_ID", ""),
		OpenAIKey:       getEnv("OPEN_AI_KEY", ""),
		OpenAIModelID:   getEnv("OPEN_AI_MODEL_ID", ""),
		DefaultProvider: getEnv("DEFAULT_LLM_PROVIDER", "bedrock"),

		DBHost:     getEnv("TASTE_KARACHI_VECTOR_DB_HOST", "localhost"),
		DBPort:     getEnv("TASTE_KARACHI_VECTOR_DB_PORT", "5432"),
		DBUser:     getEnv("TASTE_KARACHI_VECTOR_DB_USER", "postgres"),
		DBPassword: getEnv("TASTE_KARACHI_VECTOR_DB_PASSWORD", "postgres"),
		DBName:     getEnv("TASTE_KARACHI_VECTOR_DB_DATABASE", "taste_karachi"),
		DBSSLMode:  getEnv("TASTE_KARACHI_VECTOR_DB_SSLMode", "disable"),

		ModelServerURL: getEnv("MODEL_SERVER_URL", ""),

		RedisAddr:      getEnv("REDIS_ADDR", ""),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		AdviceCacheTTL: getEnvDuration("ADVICE_CACHE_TTL", cache.DefaultTTL),

		AdviceMaxTokens: getEnvInt("ADVICE_MAX_TOKENS", advisor.DefaultMaxTokens),

		OTelEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
	}
}

// Wire builds the service graph. Backends that fail to come up disable their
// feature with a warning instead of aborting, so prediction still serves when
// the review store is down and vice versa.
func Wire(ctx context.Context, cfg *Config, logger *zerolog.Logger) (*Dependencies, error) {
	shutdown, err := observability.Setup(ctx, ServiceName, ServiceVersion, cfg.OTelEndpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to set up metrics exporter: %w", err)
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics: %w", err)
	}

	// Load guardrails configuration from YAML
	guardrailsConfig, err := config.LoadGuardrailsConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load guardrails config: %w", err)
	}

	deps := &Dependencies{
		Guardrails: guardrails.NewEngine(guardrailsConfig, metrics, logger),
		Metrics:    metrics,
		Logger:     logger,
		Shutdown:   shutdown,
	}

	db, err := database.NewWithBackoff(ctx, database.Config{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		Database: cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
	}, 3)
	if err != nil {
		logger.Warn().Err(err).Msg("Review store unavailable, advice generation disabled")
	} else {
		deps.DB = db
	}

	if deps.DB != nil {
		bedrockClient, err := embedding.NewClient(ctx, cfg.AWSRegion)
		if err != nil {
			logger.Warn().Err(err).Msg("Embedding client unavailable, advice generation disabled")
		} else {
			deps.Embedder = embedding.NewBedrockEmbedder(bedrockClient)
			deps.Retriever = retrieval.NewRetriever(deps.DB, deps.Embedder, logger)
		}
	}

	if deps.Retriever != nil {
		llmClient, err := createLLMClient(ctx, cfg.DefaultProvider, cfg)
		if err != nil {
			logger.Warn().Err(err).Msg("LLM client unavailable, advice generation disabled")
		} else {
			deps.Advisor = advisor.NewAdvisor(deps.Retriever, llmClient, metrics, cfg.AdviceMaxTokens, logger)
		}
	}

	if cfg.ModelServerURL != "" {
		deps.Predictor = predictor.New(cfg.ModelServerURL)
	} else {
		logger.Warn().Msg("MODEL_SERVER_URL not set, rating prediction disabled")
	}

	if cfg.RedisAddr != "" {
		redisClient, err := cache.Connect(ctx, cache.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		}, 3)
		if err != nil {
			logger.Warn().Err(err).Msg("Redis unavailable, advice caching disabled")
		} else {
			deps.Cache = cache.NewAdviceCache(redisClient, cfg.AdviceCacheTTL, metrics)
		}
	}

	return deps, nil
}

func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		value = defaultValue
	}

	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		value = defaultValue
	}

	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		value = defaultValue
	}

	return value
}

func createLLMClient(ctx context.Context, provider string, cfg *Config) (llm.LLMClient, error) {
	switch provider {
	case "bedrock":
		return bedrock.NewClient(ctx, cfg.AWSRegion, cfg.ClaudeModelID)
	case "openai":
		return gpt.NewClient(cfg.OpenAIKey, cfg.OpenAIModelID)
	default:
		return bedrock.NewClient(ctx, cfg.AWSRegion, cfg.ClaudeModelID)
	}
}
