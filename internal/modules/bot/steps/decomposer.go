package steps

import (
	"strings"

	"github.com/opendoorspartners/odp-backend/internal/modules/bot/config"
)

// AtomicFact is one (focused question, value) pair extracted from a
// multi-part answer.
type AtomicFact struct {
	Question string
	Value    string
}

// clauseTerminators end the value region inside an answer sentence.
var clauseTerminators = []string{", ", " and ", "\n", ". ", " or ", "; "}

// valueConnectors are stripped from the front of an extracted value.
var valueConnectors = []string{"is ", "are ", "would be ", ":", "-", "="}

// ExtractAtomicFacts decomposes a long multi-part answer into atomic facts.
//
// A multi-part answer embedded as a single Q&A row matches poorly against
// future single-fact queries, so each extracted value is paired with a
// narrow template question (the deal name substituted in) and stored as its
// own row. For each pattern whose topic keywords appear in the investor
// question, the answer is scanned for the earliest answer signal; the value
// is the text from just after the signal up to the nearest clause boundary.
func ExtractAtomicFacts(investorQuestion, userAnswer, dealName string) []AtomicFact {
	questionLower := strings.ToLower(investorQuestion)
	answerLower := strings.ToLower(userAnswer)

	var facts []AtomicFact
	for _, pattern := range config.FactPatterns {
		if !anySubstring(questionLower, pattern.TopicKeywords) {
			continue
		}
		signalPos, signalLen := earliestSignal(answerLower, pattern.AnswerSignals)
		if signalPos < 0 {
			continue
		}
		value := extractValue(userAnswer, signalPos+signalLen)
		if len(value) < 2 {
			continue
		}
		facts = append(facts, AtomicFact{
			Question: strings.ReplaceAll(pattern.QuestionTemplate, "{deal_name}", dealName),
			Value:    value,
		})
	}
	return facts
}

// DeriveFactKey maps a question to a snake_case fact key. The key mapping
// table wins; otherwise up to three meaningful question tokens are joined
// with underscores. Empty string when nothing meaningful remains.
func DeriveFactKey(question string) string {
	lower := strings.ToLower(question)
	for _, mapping := range config.KeyMappings {
		if anySubstring(lower, mapping.Phrases) {
			return mapping.Key
		}
	}

	var meaningful []string
	for _, w := range strings.Fields(punctRe.ReplaceAllString(lower, " ")) {
		if _, stop := factKeyStopwords[w]; stop {
			continue
		}
		meaningful = append(meaningful, w)
		if len(meaningful) == 3 {
			break
		}
	}
	return strings.Join(meaningful, "_")
}

var factKeyStopwords = map[string]struct{}{
	"what": {}, "is": {}, "are": {}, "the": {}, "a": {}, "an": {}, "of": {},
	"for": {}, "do": {}, "does": {}, "you": {}, "your": {}, "have": {},
	"on": {}, "in": {}, "to": {}, "and": {}, "we": {}, "our": {}, "us": {},
	"how": {}, "much": {}, "many": {}, "can": {}, "could": {}, "would": {},
	"please": {}, "tell": {}, "me": {}, "about": {}, "there": {}, "it": {},
	"this": {}, "that": {}, "with": {}, "details": {}, "any": {}, "be": {},
}

func anySubstring(haystack string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(haystack, needle) {
			return true
		}
	}
	return false
}

// earliestSignal returns the position of the earliest signal occurrence and
// the length of the longest signal matching at that position. Longest-match
// matters when signals overlap ("payment date" vs "payment dates").
func earliestSignal(answerLower string, signals []string) (int, int) {
	bestPos := -1
	bestLen := 0
	for _, signal := range signals {
		pos := strings.Index(answerLower, signal)
		if pos < 0 {
			continue
		}
		if bestPos == -1 || pos < bestPos || (pos == bestPos && len(signal) > bestLen) {
			bestPos = pos
			bestLen = len(signal)
		}
	}
	return bestPos, bestLen
}

func extractValue(answer string, start int) string {
	if start >= len(answer) {
		return ""
	}
	region := answer[start:]
	regionLower := strings.ToLower(region)

	end := len(region)
	for _, term := range clauseTerminators {
		if i := strings.Index(regionLower, term); i >= 0 && i < end {
			end = i
		}
	}
	value := strings.TrimSpace(region[:end])

	lower := strings.ToLower(value)
	for _, connector := range valueConnectors {
		if strings.HasPrefix(lower, connector) {
			value = strings.TrimSpace(value[len(connector):])
			break
		}
	}
	return strings.TrimSpace(strings.TrimSuffix(value, "."))
}
