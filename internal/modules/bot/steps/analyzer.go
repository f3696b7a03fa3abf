// Package steps contains the bot pipeline stages: message classification,
// query rewriting, two-tier retrieval, clarification, fact decomposition,
// prompt assembly, and the orchestrator that sequences them per request.
package steps

import (
	"regexp"
	"strings"

	"github.com/opendoorspartners/odp-backend/internal/modules/bot/config"
)

var (
	punctRe      = regexp.MustCompile(`[^\w\s]`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// HasMissingInfoSignal reports whether an LLM answer signals it could not
// confirm some facts. Any hit routes the request to the ask-the-team tier.
func HasMissingInfoSignal(answer string) bool {
	lower := strings.ToLower(answer)
	for _, signal := range config.MissingInfoSignals {
		if strings.Contains(lower, signal) {
			return true
		}
	}
	return false
}

// IsNewQuestion reports whether a message looks like a new question rather
// than a supplied answer to a pending needs_info request. Guards the
// pending-answer check so real questions are not swallowed as answers.
func IsNewQuestion(question string) bool {
	q := strings.TrimSpace(strings.ToLower(question))
	for _, starter := range config.QuestionStarters {
		if strings.HasPrefix(q, starter) {
			return true
		}
	}
	return false
}

// IsGreeting reports whether a message is pure social small talk.
//
// In order: exact match against known greeting phrases; else, if the first
// word is a greeting starter, strip social filler and check whether any
// business keywords remain. Nothing left means greeting; business words mean
// not a greeting; otherwise short messages pass as greetings.
func IsGreeting(question string) bool {
	text := punctRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(question)), " ")
	text = strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))

	if _, ok := config.GreetingPatterns[text]; ok {
		return true
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return false
	}

	if _, ok := config.GreetingStarters[words[0]]; ok {
		remaining := make([]string, 0, len(words))
		for _, w := range words {
			if _, filler := config.SocialFillerWords[w]; !filler {
				remaining = append(remaining, w)
			}
		}
		if len(remaining) == 0 {
			return true
		}
		for _, w := range remaining {
			if _, business := config.BusinessKeywords[w]; business {
				return false
			}
		}
		if len(words) <= config.GreetingMaxWordCount {
			return true
		}
	}
	return false
}
