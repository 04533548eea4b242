package guardrails

import (
	"context"
	"math"
	"strings"
	"testing"
)

// speculativeAdvice trips every hallucination signal: several uncertainty
// phrases, no grounding phrase, over 200 characters.
const speculativeAdvice = "I think opening another branch will probably work out. " +
	"It might be worth waiting a year. Generally speaking, new places in most cases " +
	"struggle at first, and owners usually need patience before momentum builds."

func TestCheckToxicity(t *testing.T) {
	moderator := NewOutputModerator(DefaultConfig(), nil)

	tests := []struct {
		name       string
		response   string
		wantAction Action
	}{
		{"insult", "Only an idiot would open there", ActionBlock},
		{"violence", "They should attack them directly", ActionBlock},
		{"clean advice", "Focus on fresh ingredients and fast friendly staff", ActionAllow},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := moderator.CheckToxicity(context.Background(), test.response)

			if result.Action != test.wantAction {
				t.Errorf("Action: %s, want: %s", result.Action, test.wantAction)
			}
			if test.wantAction == ActionBlock && result.RuleType != RuleToxicityFilter {
				t.Errorf("RuleType: %s, want: %s", result.RuleType, RuleToxicityFilter)
			}
		})
	}
}

func TestCheckHallucination_GroundedResponse(t *testing.T) {
	moderator := NewOutputModerator(DefaultConfig(), nil)

	response := "Based on the reviews customers love the biryani and the quick service"
	retrieved := []string{"customers love the biryani and the service was quick"}

	result := moderator.CheckHallucination(context.Background(), response, retrieved)

	if result.Action != ActionAllow {
		t.Errorf("Action: %s, want: %s (reason: %s)", result.Action, ActionAllow, result.Reason)
	}
	if math.Abs(result.Confidence-1.0) > 1e-9 {
		t.Errorf("Confidence: %f, want: 1.0", result.Confidence)
	}
}

func TestCheckHallucination_UncertaintyAloneStaysUnderThreshold(t *testing.T) {
	moderator := NewOutputModerator(DefaultConfig(), nil)

	// Three uncertainty phrases score 0.3, below the default 0.5 threshold,
	// as long as the response is short and overlaps the context.
	response := "I think it might be good probably"
	retrieved := []string{"i think it might be good probably yes"}

	result := moderator.CheckHallucination(context.Background(), response, retrieved)

	if result.Action != ActionAllow {
		t.Errorf("Action: %s, want: %s (reason: %s)", result.Action, ActionAllow, result.Reason)
	}
	if math.Abs(result.Confidence-0.7) > 1e-9 {
		t.Errorf("Confidence: %f, want: 0.7", result.Confidence)
	}
}

func TestCheckHallucination_UngroundedResponseWarns(t *testing.T) {
	recorder := &fakeRecorder{}
	moderator := NewOutputModerator(DefaultConfig(), recorder)

	retrieved := []string{"zebra xylophone quartz vector"}

	result := moderator.CheckHallucination(context.Background(), speculativeAdvice, retrieved)

	if result.Action != ActionWarn {
		t.Fatalf("Action: %s, want: %s (reason: %s)", result.Action, ActionWarn, result.Reason)
	}
	if !strings.Contains(result.Reason, "may not be grounded") {
		t.Errorf("Reason: %s", result.Reason)
	}
	if result.Confidence < DefaultConfig().HallucinationThreshold {
		t.Errorf("Confidence should carry the score, got %f", result.Confidence)
	}
	if recorder.hallucinations != 1 {
		t.Errorf("Expected 1 recorded hallucination, got %d", recorder.hallucinations)
	}
}

func TestCheckCompetitorMentions(t *testing.T) {
	moderator := NewOutputModerator(DefaultConfig(), nil)

	t.Run("mentions rewritten", func(t *testing.T) {
		response := "Benchmark against KFC and McDonalds before you set prices"
		result := moderator.CheckCompetitorMentions(context.Background(), response)

		if result.Action != ActionModify {
			t.Fatalf("Action: %s, want: %s", result.Action, ActionModify)
		}
		want := "Benchmark against [competitor restaurant] and [competitor restaurant] before you set prices"
		if result.ModifiedContent != want {
			t.Errorf("ModifiedContent: '%s', want: '%s'", result.ModifiedContent, want)
		}
		if !strings.Contains(result.Reason, "kfc") || !strings.Contains(result.Reason, "mcdonalds") {
			t.Errorf("Reason should list the competitors, got '%s'", result.Reason)
		}
	})

	t.Run("no mentions", func(t *testing.T) {
		result := moderator.CheckCompetitorMentions(context.Background(), "Benchmark against other local restaurants")

		if result.Action != ActionAllow {
			t.Errorf("Action: %s, want: %s", result.Action, ActionAllow)
		}
	})
}

func TestModerate_Chain(t *testing.T) {
	t.Run("competitor filter disabled by default", func(t *testing.T) {
		recorder := &fakeRecorder{}
		moderator := NewOutputModerator(DefaultConfig(), recorder)

		response := "Benchmark against KFC for pricing"
		result := moderator.Moderate(context.Background(), response, []string{"benchmark against kfc for pricing ideas"})

		if result.Action != ActionAllow {
			t.Errorf("Action: %s, want: %s", result.Action, ActionAllow)
		}
		if result.RuleType != RuleAllOutputChecks {
			t.Errorf("RuleType: %s, want: %s", result.RuleType, RuleAllOutputChecks)
		}
		if recorder.outputPassed != 1 {
			t.Errorf("Expected 1 passed output, got %d", recorder.outputPassed)
		}
	})

	t.Run("toxicity blocks the chain", func(t *testing.T) {
		recorder := &fakeRecorder{}
		moderator := NewOutputModerator(DefaultConfig(), recorder)

		result := moderator.Moderate(context.Background(), "Only an idiot would open there", nil)

		if result.Action != ActionBlock {
			t.Errorf("Action: %s, want: %s", result.Action, ActionBlock)
		}
		if recorder.outputBlocked == 0 {
			t.Error("Expected blocked output to be recorded")
		}
	})

	t.Run("hallucination warning does not stop the chain", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.EnableCompetitorFilter = true
		recorder := &fakeRecorder{}
		moderator := NewOutputModerator(cfg, recorder)

		response := speculativeAdvice + " Compare with KFC too."
		result := moderator.Moderate(context.Background(), response, []string{"zebra xylophone quartz vector"})

		if result.Action != ActionModify {
			t.Fatalf("Action: %s, want: %s (reason: %s)", result.Action, ActionModify, result.Reason)
		}
		if recorder.hallucinations != 1 {
			t.Errorf("Expected the hallucination warning to be recorded, got %d", recorder.hallucinations)
		}
	})
}
