package guardrails

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// outputRule mirrors inputRule for the moderation chain. The hallucination
// rule is the only one that reads the retrieved context.
type outputRule struct {
	enabled    bool
	check      func(ctx context.Context, response string, retrievedContext []string) Result
	terminates func(Result) bool
}

// OutputModerator screens model responses before they reach the client.
type OutputModerator struct {
	cfg     Config
	metrics MetricsRecorder
	rules   []outputRule
}

func NewOutputModerator(cfg Config, metrics MetricsRecorder) *OutputModerator {
	if metrics == nil {
		metrics = noopRecorder{}
	}
	m := &OutputModerator{cfg: cfg, metrics: metrics}
	blocks := func(r Result) bool { return r.Action == ActionBlock }
	m.rules = []outputRule{
		{
			enabled: cfg.EnableToxicityFilter,
			check: func(ctx context.Context, response string, _ []string) Result {
				return m.CheckToxicity(ctx, response)
			},
			terminates: blocks,
		},
		{
			enabled: cfg.EnableHallucinationFilter,
			check:   m.CheckHallucination,
			// Hallucination results warn at most. The warning is recorded in
			// the metrics but never stops the chain; callers decide whether
			// to attach a disclaimer.
			terminates: blocks,
		},
		{
			enabled: cfg.EnableCompetitorFilter,
			check: func(ctx context.Context, response string, _ []string) Result {
				return m.CheckCompetitorMentions(ctx, response)
			},
			terminates: func(r Result) bool { return r.Action == ActionModify },
		},
	}
	return m
}

// Moderate runs the full output chain. A modify result carries the rewritten
// response in ModifiedContent.
func (m *OutputModerator) Moderate(ctx context.Context, response string, retrievedContext []string) Result {
	for _, rule := range m.rules {
		if !rule.enabled {
			continue
		}
		if result := rule.check(ctx, response, retrievedContext); rule.terminates(result) {
			return result
		}
	}
	m.metrics.RecordOutputPassed(ctx)
	return newResult(ActionAllow, RuleAllOutputChecks)
}

// CheckToxicity blocks on the first matching toxicity pattern.
func (m *OutputModerator) CheckToxicity(ctx context.Context, response string) Result {
	start := time.Now()
	defer func() { m.metrics.RecordCheckDuration(ctx, checkToxicity, time.Since(start)) }()

	for _, re := range toxicityPatterns {
		if re.MatchString(response) {
			result := newResult(ActionBlock, RuleToxicityFilter)
			result.Reason = "Potentially toxic content detected"
			m.metrics.RecordOutputBlocked(ctx, RuleToxicityFilter, result.Reason)
			return result
		}
	}
	return newResult(ActionAllow, RuleToxicityFilter)
}

// CheckHallucination scores how likely the response is to be ungrounded:
// more than two uncertainty phrases adds 0.3, a long response with no
// grounding phrase adds 0.3, and under 10% word overlap with the retrieved
// context adds 0.4. Scores at or above the configured threshold warn; the
// result confidence carries the score either way.
func (m *OutputModerator) CheckHallucination(ctx context.Context, response string, retrievedContext []string) Result {
	start := time.Now()
	defer func() { m.metrics.RecordCheckDuration(ctx, checkHallucination, time.Since(start)) }()

	lower := strings.ToLower(response)
	score := 0.0

	uncertain := 0
	for _, phrase := range hallucinationPhrases {
		if strings.Contains(lower, phrase) {
			uncertain++
		}
	}
	if uncertain > 2 {
		score += 0.3
	}

	grounded := 0
	for _, phrase := range groundedPhrases {
		if strings.Contains(lower, phrase) {
			grounded++
		}
	}
	if grounded == 0 && len(response) > 200 {
		score += 0.3
	}

	if len(retrievedContext) > 0 {
		responseWords := uniqueWords(response)
		contextWords := uniqueWords(strings.Join(retrievedContext, " "))
		overlap := 0
		for w := range responseWords {
			if _, ok := contextWords[w]; ok {
				overlap++
			}
		}
		denom := len(responseWords)
		if denom < 1 {
			denom = 1
		}
		if float64(overlap)/float64(denom) < 0.1 {
			score += 0.4
		}
	}

	if score >= m.cfg.HallucinationThreshold {
		m.metrics.RecordHallucination(ctx)
		m.metrics.RecordOutputBlocked(ctx, RuleHallucinationFilter, fmt.Sprintf("hallucination_score=%.2f", score))
		result := newResult(ActionWarn, RuleHallucinationFilter)
		result.Reason = fmt.Sprintf("Response may not be grounded in knowledge base (score: %.2f)", score)
		result.Confidence = score
		return result
	}

	result := newResult(ActionAllow, RuleHallucinationFilter)
	result.Confidence = 1.0 - score
	return result
}

// CheckCompetitorMentions rewrites competitor names to a neutral placeholder
// instead of blocking. Detection is substring-based on the lower-cased text;
// replacement is case-insensitive across the whole response.
func (m *OutputModerator) CheckCompetitorMentions(ctx context.Context, response string) Result {
	start := time.Now()
	defer func() { m.metrics.RecordCheckDuration(ctx, checkCompetitor, time.Since(start)) }()

	lower := strings.ToLower(response)
	var mentioned []string
	var indices []int
	for i, name := range competitorNames {
		if strings.Contains(lower, name) {
			mentioned = append(mentioned, name)
			indices = append(indices, i)
		}
	}

	if len(mentioned) == 0 {
		return newResult(ActionAllow, RuleCompetitorFilter)
	}

	modified := response
	for _, i := range indices {
		modified = competitorReplacements[i].ReplaceAllString(modified, competitorPlaceholder)
	}

	m.metrics.RecordOutputBlocked(ctx, RuleCompetitorFilter, fmt.Sprintf("competitors_mentioned=%d", len(mentioned)))
	result := newResult(ActionModify, RuleCompetitorFilter)
	result.Reason = "Competitor mentions filtered: " + strings.Join(mentioned, ", ")
	result.ModifiedContent = modified
	return result
}
