// Package guardrails implements the layered input/output safety filters for
// the advice service: PII, prompt-injection and off-topic checks on the way
// in; toxicity, hallucination and competitor-mention checks on the way out.
// All checks are deterministic pattern tables and heuristics, no model calls.
package guardrails

import (
	"context"
	"time"
)

// Action is the outcome class of a single guardrail check.
type Action string

const (
	ActionAllow  Action = "allow"
	ActionBlock  Action = "block"
	ActionModify Action = "modify"
	ActionWarn   Action = "warn"
)

// Rule type identifiers, also used as metric label values.
const (
	RulePIIDetection        = "pii_detection"
	RulePromptInjection     = "prompt_injection"
	RuleOffTopic            = "off_topic"
	RuleToxicityFilter      = "toxicity_filter"
	RuleHallucinationFilter = "hallucination_filter"
	RuleCompetitorFilter    = "competitor_filter"
	RuleAllInputChecks      = "all_input_checks"
	RuleAllOutputChecks     = "all_output_checks"
)

// Latency histogram check_type labels. Note toxicity reports as "toxicity"
// while its rule type is "toxicity_filter".
const (
	checkPII           = "pii_detection"
	checkInjection     = "prompt_injection"
	checkOffTopic      = "off_topic"
	checkToxicity      = "toxicity"
	checkHallucination = "hallucination"
	checkCompetitor    = "competitor_filter"
)

// Result is the outcome of one guardrail check. ModifiedContent is set only
// when Action is ActionModify.
type Result struct {
	Action          Action    `json:"action"`
	RuleType        string    `json:"rule_type"`
	Reason          string    `json:"reason,omitempty"`
	ModifiedContent string    `json:"modified_content,omitempty"`
	Confidence      float64   `json:"confidence"`
	Timestamp       time.Time `json:"timestamp"`
}

func newResult(action Action, ruleType string) Result {
	return Result{
		Action:     action,
		RuleType:   ruleType,
		Confidence: 1.0,
		Timestamp:  time.Now().UTC(),
	}
}

// Config toggles individual checks and carries the numeric thresholds.
// Constructed once per engine instance and read-only afterwards.
type Config struct {
	EnablePIIDetection          bool    `yaml:"enable_pii_detection"`
	EnablePromptInjectionFilter bool    `yaml:"enable_prompt_injection_filter"`
	EnableOffTopicDetection     bool    `yaml:"enable_off_topic_detection"`
	EnableHallucinationFilter   bool    `yaml:"enable_hallucination_filter"`
	EnableToxicityFilter        bool    `yaml:"enable_toxicity_filter"`
	EnableCompetitorFilter      bool    `yaml:"enable_competitor_filter"`
	ToxicityThreshold           float64 `yaml:"toxicity_threshold"`
	HallucinationThreshold      float64 `yaml:"hallucination_threshold"`
	StrictMode                  bool    `yaml:"strict_mode"`
}

// DefaultConfig enables every check except the competitor filter.
func DefaultConfig() Config {
	return Config{
		EnablePIIDetection:          true,
		EnablePromptInjectionFilter: true,
		EnableOffTopicDetection:     true,
		EnableHallucinationFilter:   true,
		EnableToxicityFilter:        true,
		EnableCompetitorFilter:      false,
		ToxicityThreshold:           0.7,
		HallucinationThreshold:      0.5,
		StrictMode:                  true,
	}
}

// MetricsRecorder is the observability sink the checks report to. Recording
// is fire-and-forget; implementations must never block or fail the request.
type MetricsRecorder interface {
	RecordInputBlocked(ctx context.Context, ruleType, reason string)
	RecordInputPassed(ctx context.Context)
	RecordOutputBlocked(ctx context.Context, ruleType, reason string)
	RecordOutputPassed(ctx context.Context)
	RecordCheckDuration(ctx context.Context, checkType string, d time.Duration)
	RecordHallucination(ctx context.Context)
	RecordPIIDetected(ctx context.Context, piiType string, count int)
}

type noopRecorder struct{}

func (noopRecorder) RecordInputBlocked(context.Context, string, string)         {}
func (noopRecorder) RecordInputPassed(context.Context)                          {}
func (noopRecorder) RecordOutputBlocked(context.Context, string, string)        {}
func (noopRecorder) RecordOutputPassed(context.Context)                         {}
func (noopRecorder) RecordCheckDuration(context.Context, string, time.Duration) {}
func (noopRecorder) RecordHallucination(context.Context)                        {}
func (noopRecorder) RecordPIIDetected(context.Context, string, int)             {}
