package guardrails

import (
	"context"

	"github.com/rs/zerolog"
)

// Engine bundles input validation and output moderation behind one facade.
// Handlers talk to the engine; the individual validators stay reachable for
// tests.
type Engine struct {
	Input  *InputValidator
	Output *OutputModerator
	logger *zerolog.Logger
}

func NewEngine(cfg Config, metrics MetricsRecorder, logger *zerolog.Logger) *Engine {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Engine{
		Input:  NewInputValidator(cfg, metrics),
		Output: NewOutputModerator(cfg, metrics),
		logger: logger,
	}
}

// ValidateInput screens a user message before retrieval or any model call.
func (e *Engine) ValidateInput(ctx context.Context, message string) Result {
	result := e.Input.Validate(ctx, message)
	if result.Action == ActionBlock {
		e.logger.Warn().
			Str("rule_type", result.RuleType).
			Str("reason", result.Reason).
			Msg("Input blocked by guardrails")
	}
	return result
}

// ModerateOutput screens a generated response against the retrieved context.
func (e *Engine) ModerateOutput(ctx context.Context, response string, retrievedContext []string) Result {
	result := e.Output.Moderate(ctx, response, retrievedContext)
	switch result.Action {
	case ActionBlock:
		e.logger.Warn().
			Str("rule_type", result.RuleType).
			Str("reason", result.Reason).
			Msg("Output blocked by guardrails")
	case ActionModify:
		e.logger.Info().
			Str("rule_type", result.RuleType).
			Str("reason", result.Reason).
			Msg("Output modified by guardrails")
	}
	return result
}

// BlockedResponse returns the client-facing replacement text for a blocking
// result, keyed on the rule that fired.
func (e *Engine) BlockedResponse(result Result) string {
	switch result.RuleType {
	case RulePIIDetection:
		return "I noticed your message contains personal information (like email, phone number, or ID). " +
			"For your privacy and security, please remove any personal details and rephrase your question. " +
			"I'm here to help with restaurant business advice!"
	case RulePromptInjection:
		return "I'm designed to help with restaurant business advice for Taste Karachi. " +
			"How can I assist you with your restaurant planning today?"
	case RuleOffTopic:
		return "I specialize in restaurant business consultation for the Karachi market. " +
			"I'd be happy to help with questions about menu planning, location strategy, " +
			"customer experience, pricing, or any other restaurant-related topics. " +
			"What would you like to know?"
	case RuleToxicityFilter:
		return "I'm here to provide helpful, professional advice for your restaurant business. " +
			"Let me know how I can assist you with Taste Karachi!"
	default:
		return "I'm sorry, but I couldn't process that request. " +
			"How can I help you with your restaurant business today?"
	}
}

// HallucinationDisclaimer is the note callers may append when a response
// warned on the hallucination check. It is never attached automatically.
func (e *Engine) HallucinationDisclaimer() string {
	return "\n\n*Note: This response is based on general knowledge. " +
		"For specific data about restaurants in Karachi, please ask about " +
		"reviews or specific restaurant features in our database.*"
}
