package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
)

const meterName = "github.com/AghaSalikAli/Taste-Karachi"

// Metrics holds all application metrics. A single instance is created at
// process start and shared by reference; a nil *Metrics is a valid no-op sink
// so library code never fails when the registry is absent.
type Metrics struct {
	InputBlocked          metric.Int64Counter
	InputPassed           metric.Int64Counter
	OutputBlocked         metric.Int64Counter
	OutputPassed          metric.Int64Counter
	CheckLatency          metric.Float64Histogram
	HallucinationDetected metric.Int64Counter
	PIIDetected           metric.Int64Counter
	AdviceLatency         metric.Float64Histogram
	TokenUsage            metric.Int64Counter
	CacheHitCount         metric.Int64Counter
	CacheMissCount        metric.Int64Counter
}

// Setup initializes the OpenTelemetry meter provider with an OTLP/gRPC
// exporter. An empty endpoint leaves the global no-op provider in place, so
// metric recording stays callable but exports nothing.
func Setup(ctx context.Context, serviceName, serviceVersion, endpoint string) (func(context.Context) error, error) {
	if endpoint == "" {
		return func(context.Context) error { return nil }, nil
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		),
	)
	if err != nil {
		return nil, err
	}

	exporter, err := otlpmetricgrpc.New(ctx,
		otlpmetricgrpc.WithEndpoint(endpoint),
		otlpmetricgrpc.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter,
			sdkmetric.WithInterval(15*time.Second))),
	)
	otel.SetMeterProvider(provider)

	return provider.Shutdown, nil
}

// InitMetrics initializes application metrics against the global meter
// provider.
func InitMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)

	inputBlocked, err := meter.Int64Counter(
		"guardrail_input_blocked_total",
		metric.WithDescription("Input requests blocked by guardrails"),
	)
	if err != nil {
		return nil, err
	}

	inputPassed, err := meter.Int64Counter(
		"guardrail_input_passed_total",
		metric.WithDescription("Input requests that passed all guardrails"),
	)
	if err != nil {
		return nil, err
	}

	outputBlocked, err := meter.Int64Counter(
		"guardrail_output_blocked_total",
		metric.WithDescription("Output responses blocked or flagged by guardrails"),
	)
	if err != nil {
		return nil, err
	}

	outputPassed, err := meter.Int64Counter(
		"guardrail_output_passed_total",
		metric.WithDescription("Output responses that passed all guardrails"),
	)
	if err != nil {
		return nil, err
	}

	checkLatency, err := meter.Float64Histogram(
		"guardrail_check_latency_seconds",
		metric.WithDescription("Latency of individual guardrail checks"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	hallucinationDetected, err := meter.Int64Counter(
		"guardrail_hallucination_detected_total",
		metric.WithDescription("Responses flagged as potentially hallucinated"),
	)
	if err != nil {
		return nil, err
	}

	piiDetected, err := meter.Int64Counter(
		"guardrail_pii_detected_total",
		metric.WithDescription("PII pattern matches by type"),
	)
	if err != nil {
		return nil, err
	}

	adviceLatency, err := meter.Float64Histogram(
		"rag_request_latency_seconds",
		metric.WithDescription("End-to-end advice generation latency"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	tokenUsage, err := meter.Int64Counter(
		"llm_token_usage_total",
		metric.WithDescription("Approximate LLM token usage"),
	)
	if err != nil {
		return nil, err
	}

	cacheHitCount, err := meter.Int64Counter(
		"cache_hit_total",
		metric.WithDescription("Advice cache hits"),
	)
	if err != nil {
		return nil, err
	}

	cacheMissCount, err := meter.Int64Counter(
		"cache_miss_total",
		metric.WithDescription("Advice cache misses"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		InputBlocked:          inputBlocked,
		InputPassed:           inputPassed,
		OutputBlocked:         outputBlocked,
		OutputPassed:          outputPassed,
		CheckLatency:          checkLatency,
		HallucinationDetected: hallucinationDetected,
		PIIDetected:           piiDetected,
		AdviceLatency:         adviceLatency,
		TokenUsage:            tokenUsage,
		CacheHitCount:         cacheHitCount,
		CacheMissCount:        cacheMissCount,
	}, nil
}

func (m *Metrics) RecordInputBlocked(ctx context.Context, ruleType, reason string) {
	if m == nil {
		return
	}
	m.InputBlocked.Add(ctx, 1, metric.WithAttributes(
		attribute.String("rule_type", ruleType),
		attribute.String("reason", reason),
	))
}

func (m *Metrics) RecordInputPassed(ctx context.Context) {
	if m == nil {
		return
	}
	m.InputPassed.Add(ctx, 1)
}

func (m *Metrics) RecordOutputBlocked(ctx context.Context, ruleType, reason string) {
	if m == nil {
		return
	}
	m.OutputBlocked.Add(ctx, 1, metric.WithAttributes(
		attribute.String("rule_type", ruleType),
		attribute.String("reason", reason),
	))
}

func (m *Metrics) RecordOutputPassed(ctx context.Context) {
	if m == nil {
		return
	}
	m.OutputPassed.Add(ctx, 1)
}

func (m *Metrics) RecordCheckDuration(ctx context.Context, checkType string, d time.Duration) {
	if m == nil {
		return
	}
	m.CheckLatency.Record(ctx, d.Seconds(), metric.WithAttributes(
		attribute.String("check_type", checkType),
	))
}

func (m *Metrics) RecordHallucination(ctx context.Context) {
	if m == nil {
		return
	}
	m.HallucinationDetected.Add(ctx, 1)
}

func (m *Metrics) RecordPIIDetected(ctx context.Context, piiType string, count int) {
	if m == nil {
		return
	}
	m.PIIDetected.Add(ctx, int64(count), metric.WithAttributes(
		attribute.String("pii_type", piiType),
	))
}

func (m *Metrics) RecordAdviceDuration(ctx context.Context, d time.Duration) {
	if m == nil {
		return
	}
	m.AdviceLatency.Record(ctx, d.Seconds())
}

func (m *Metrics) RecordTokenUsage(ctx context.Context, kind string, tokens int64) {
	if m == nil {
		return
	}
	m.TokenUsage.Add(ctx, tokens, metric.WithAttributes(
		attribute.String("type", kind),
	))
}

func (m *Metrics) RecordCacheHit(ctx context.Context) {
	if m == nil {
		return
	}
	m.CacheHitCount.Add(ctx, 1)
}

func (m *Metrics) RecordCacheMiss(ctx context.Context) {
	if m == nil {
		return
	}
	m.CacheMissCount.Add(ctx, 1)
}
