package guardrails

import (
	"context"
	"strings"
	"time"
)

// inputRule is one step of the input validation chain. Rules run in order;
// the first result whose terminates func returns true is handed back to the
// caller, everything else falls through to the next rule.
type inputRule struct {
	enabled    bool
	check      func(ctx context.Context, message string) Result
	terminates func(Result) bool
}

// InputValidator screens user messages before any retrieval or model call
// happens. All checks are pattern tables and heuristics; none call a model.
type InputValidator struct {
	cfg     Config
	metrics MetricsRecorder
	rules   []inputRule
}

func NewInputValidator(cfg Config, metrics MetricsRecorder) *InputValidator {
	if metrics == nil {
		metrics = noopRecorder{}
	}
	v := &InputValidator{cfg: cfg, metrics: metrics}
	blocks := func(r Result) bool { return r.Action == ActionBlock }
	v.rules = []inputRule{
		{enabled: cfg.EnablePIIDetection, check: v.CheckPII, terminates: blocks},
		{enabled: cfg.EnablePromptInjectionFilter, check: v.CheckPromptInjection, terminates: blocks},
		{
			enabled: cfg.EnableOffTopicDetection,
			check:   v.CheckOffTopic,
			// Warnings never stop the chain, and off-topic blocks are only
			// terminal in strict mode.
			terminates: func(r Result) bool { return r.Action == ActionBlock && cfg.StrictMode },
		},
	}
	return v
}

// Validate runs the full input chain and returns the first terminal result,
// or an allow covering all checks.
func (v *InputValidator) Validate(ctx context.Context, message string) Result {
	for _, rule := range v.rules {
		if !rule.enabled {
			continue
		}
		if result := rule.check(ctx, message); rule.terminates(result) {
			return result
		}
	}
	v.metrics.RecordInputPassed(ctx)
	return newResult(ActionAllow, RuleAllInputChecks)
}

// CheckPII scans for emails, Pakistani and international phone numbers,
// credit card numbers, CNICs and passport numbers. Every pattern is counted
// even when an earlier one already matched, so the per-type metrics stay
// complete.
func (v *InputValidator) CheckPII(ctx context.Context, message string) Result {
	start := time.Now()
	defer func() { v.metrics.RecordCheckDuration(ctx, checkPII, time.Since(start)) }()

	var detected []string
	for _, p := range piiPatterns {
		matches := p.re.FindAllString(message, -1)
		if len(matches) == 0 {
			continue
		}
		detected = append(detected, p.name)
		v.metrics.RecordPIIDetected(ctx, p.name, len(matches))
	}

	if len(detected) > 0 {
		result := newResult(ActionBlock, RulePIIDetection)
		result.Reason = "PII detected: " + strings.Join(detected, ", ")
		v.metrics.RecordInputBlocked(ctx, RulePIIDetection, result.Reason)
		return result
	}
	return newResult(ActionAllow, RulePIIDetection)
}

// CheckPromptInjection blocks on the first matching injection pattern.
func (v *InputValidator) CheckPromptInjection(ctx context.Context, message string) Result {
	start := time.Now()
	defer func() { v.metrics.RecordCheckDuration(ctx, checkInjection, time.Since(start)) }()

	for _, re := range injectionPatterns {
		if re.MatchString(message) {
			result := newResult(ActionBlock, RulePromptInjection)
			result.Reason = "Potential prompt injection detected"
			v.metrics.RecordInputBlocked(ctx, RulePromptInjection, result.Reason)
			return result
		}
	}
	return newResult(ActionAllow, RulePromptInjection)
}

// CheckOffTopic blocks explicit violations and warns on longer messages with
// no restaurant vocabulary at all. Short greetings are always let through.
func (v *InputValidator) CheckOffTopic(ctx context.Context, message string) Result {
	start := time.Now()
	defer func() { v.metrics.RecordCheckDuration(ctx, checkOffTopic, time.Since(start)) }()

	for _, re := range offTopicPatterns {
		if re.MatchString(message) {
			result := newResult(ActionBlock, RuleOffTopic)
			result.Reason = "Off-topic or inappropriate content detected"
			v.metrics.RecordInputBlocked(ctx, RuleOffTopic, result.Reason)
			return result
		}
	}

	lower := strings.ToLower(message)
	hasContext := false
	for _, kw := range restaurantKeywords {
		if strings.Contains(lower, kw) {
			hasContext = true
			break
		}
	}

	isGreeting := false
	if wordCount(message) <= 5 {
		for _, g := range greetingTokens {
			if strings.Contains(lower, g) {
				isGreeting = true
				break
			}
		}
	}

	if !hasContext && !isGreeting && wordCount(message) > 10 {
		result := newResult(ActionWarn, RuleOffTopic)
		result.Reason = "Message may be off-topic for restaurant consultation"
		return result
	}
	return newResult(ActionAllow, RuleOffTopic)
}
