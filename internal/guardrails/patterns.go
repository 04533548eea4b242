package guardrails

import (
	"regexp"
	"strings"
)

// The pattern tables below are fixed configuration, compiled once at package
// load. Matching is case-insensitive throughout.

type piiPattern struct {
	name string
	re   *regexp.Regexp
}

// piiPatterns is ordered; reason strings list matched types in table order.
var piiPatterns = []piiPattern{
	{name: "email", re: regexp.MustCompile(`(?i)\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Z|a-z]{2,}\b`)},
	{name: "phone_pk", re: regexp.MustCompile(`(?i)\b(?:\+92|0)?[0-9]{10,11}\b`)},
	{name: "phone_intl", re: regexp.MustCompile(`(?i)\b\+?[1-9]\d{1,14}\b`)},
	{name: "credit_card", re: regexp.MustCompile(`(?i)\b(?:\d{4}[-\s]?){3}\d{4}\b`)},
	{name: "cnic", re: regexp.MustCompile(`(?i)\b\d{5}-\d{7}-\d{1}\b`)},
	{name: "passport", re: regexp.MustCompile(`(?i)\b[A-Z]{2}\d{7}\b`)},
}

// injectionPatterns cover instruction overrides, role overrides, jailbreak
// vocabulary and system-prompt extraction. First match wins.
var injectionPatterns = compileAll([]string{
	`ignore\s+(previous|all|above)\s+(instructions?|prompts?)`,
	`disregard\s+(previous|all|your)\s+(instructions?|programming)`,
	`forget\s+(everything|all|your)\s+(instructions?|rules)`,
	`you\s+are\s+now\s+(?:a|an)\s+\w+`,
	`pretend\s+(?:you\s+are|to\s+be)`,
	`act\s+as\s+(?:if|a|an)`,
	`new\s+instruction[s]?\s*:`,
	`system\s*(?:prompt|message)\s*:`,
	`(?:dan|developer|admin)\s*mode`,
	`jailbreak`,
	`bypass\s+(?:filter|safety|restriction)`,
	`unlock\s+(?:full|all)\s+(?:potential|capabilities)`,
	`(?:reveal|show|tell|give)\s+(?:me\s+)?(?:your|the)\s+(?:system|initial)\s+prompt`,
	`what\s+(?:are|were)\s+your\s+(?:original|initial)\s+instructions`,
	`repeat\s+(?:your|the)\s+(?:system|initial)\s+(?:prompt|message)`,
})

// offTopicPatterns are the explicit violations that block unconditionally:
// political content, illegal activity, out-of-domain advice, explicit content.
var offTopicPatterns = compileAll([]string{
	`\b(?:election|political\s+party|vote\s+for|government\s+policy)\b`,
	`\b(?:hack|crack|steal|illegal|drugs?|weapon)\b`,
	`\b(?:medical\s+advice|legal\s+advice|financial\s+investment)\b`,
	`\b(?:explicit|nsfw|adult\s+content)\b`,
})

// restaurantKeywords mark a message as on-topic when any appears as a
// substring of the lower-cased text.
var restaurantKeywords = []string{
	"restaurant", "food", "menu", "dining", "cuisine", "chef", "kitchen",
	"service", "customer", "review", "rating", "karachi", "clifton", "dha",
	"price", "delivery", "takeout", "reservation", "table", "meal",
	"breakfast", "lunch", "dinner", "cafe", "coffee", "dessert", "chinese",
	"pakistani", "thai", "biryani", "bbq", "fast food", "outdoor seating",
	"ambiance", "taste", "flavor", "spicy", "halal",
}

var greetingTokens = []string{"hi", "hello", "hey", "thanks", "thank you", "bye", "ok"}

// toxicityPatterns are a coarse lexical filter: hate-speech markers,
// discriminatory language, violence verbs aimed at people, basic profanity.
// Paraphrased toxicity will slip through; this is not a classifier.
var toxicityPatterns = compileAll([]string{
	`\b(?:hate|despise|loathe)\s+(?:all|every)\s+\w+`,
	`\b(?:inferior|superior)\s+(?:race|religion|gender)\b`,
	`\b(?:kill|murder|attack|assault|harm)\s+(?:them|people|you)\b`,
	`\b(?:f[*u]ck|sh[*i]t|damn|bastard|idiot|stupid)\b`,
})

// hallucinationPhrases signal claims made without knowledge-base support.
var hallucinationPhrases = []string{
	"i think",
	"i believe",
	"probably",
	"might be",
	"could be",
	"i'm not sure but",
	"i don't have direct access",
	"without real-time access",
	"i cannot verify",
	"based on my knowledge",
	"from my understanding",
	"generally speaking",
	"typically",
	"usually",
	"in most cases",
}

// groundedPhrases signal the response cites retrieved data.
var groundedPhrases = []string{
	"based on the reviews",
	"according to the data",
	"the reviews show",
	"customers mentioned",
	"from the database",
	"the feedback indicates",
	"reviews indicate",
	"based on customer feedback",
}

var competitorNames = []string{
	"mcdonalds",
	"mcdonald's",
	"kfc",
	"pizza hut",
	"dominos",
	"domino's",
	"burger king",
	"subway",
	"hardees",
	"hardee's",
}

const competitorPlaceholder = "[competitor restaurant]"

// competitorReplacements holds a case-insensitive literal matcher per
// competitor name, index-aligned with competitorNames.
var competitorReplacements = func() []*regexp.Regexp {
	res := make([]*regexp.Regexp, len(competitorNames))
	for i, name := range competitorNames {
		res[i] = regexp.MustCompile(`(?i)` + regexp.QuoteMeta(name))
	}
	return res
}()

func compileAll(patterns []string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		compiled = append(compiled, regexp.MustCompile(`(?i)`+p))
	}
	return compiled
}

// uniqueWords lower-cases and whitespace-tokenizes text into a word set.
func uniqueWords(text string) map[string]struct{} {
	words := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(text)) {
		words[w] = struct{}{}
	}
	return words
}

func wordCount(text string) int {
	return len(strings.Fields(text))
}
