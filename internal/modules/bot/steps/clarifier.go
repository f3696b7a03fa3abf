package steps

import (
	"context"
	"strings"

	"github.com/opendoorspartners/odp-backend/internal/modules/bot/config"
	"github.com/opendoorspartners/odp-backend/internal/platform/llm"
	"github.com/opendoorspartners/odp-backend/internal/platform/logger"
)

// Clarifier decides when a question cannot be answered without knowing
// which deal it is about, and produces the "which deal?" follow-up.
// Deal-specific numbers answered without deal context are where the model
// hallucinates, so those questions always clarify first.
type Clarifier struct {
	chat llm.ChatClient
	log  *logger.Logger
}

func NewClarifier(chat llm.ChatClient, log *logger.Logger) *Clarifier {
	return &Clarifier{chat: chat, log: log.With("service", "Clarifier")}
}

// NeedsClarification reports whether to ask which deal before answering.
// With a known deal we always proceed. Without one, general questions about
// the firm pass through, deal-specific and vague questions clarify.
func NeedsClarification(question string, chunksFound int, confidence string, hasDealContext bool) bool {
	if hasDealContext {
		return false
	}
	lower := strings.ToLower(strings.TrimSpace(question))

	for _, kw := range config.GeneralKeywords {
		if strings.Contains(lower, kw) {
			return false
		}
	}
	for _, kw := range config.DealSpecificKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return true
}

// GenerateClarifyingQuestion builds the follow-up. Deal-keyword questions
// take a fixed-template fast path with no model call.
func (c *Clarifier) GenerateClarifyingQuestion(ctx context.Context, question string, availableDeals []string) string {
	dealPrompt := "Could you let me know which deal you're asking about?"
	if len(availableDeals) > 0 {
		dealPrompt = "Are you asking about " + strings.Join(availableDeals, " or ") + "?"
	}

	lower := strings.ToLower(question)
	for _, kw := range config.DealSpecificKeywords {
		if strings.Contains(lower, kw) {
			return "Happy to help! " + dealPrompt
		}
	}

	dealsText := "our current investment opportunities"
	if len(availableDeals) > 0 {
		dealsText = strings.Join(availableDeals, " and ")
	}
	systemPrompt := strings.ReplaceAll(config.ClarificationSystemPrompt, "{deals_text}", dealsText)
	userPrompt := strings.ReplaceAll(config.ClarificationUserPrompt, "{question}", question)

	out, err := c.chat.Chat(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: systemPrompt},
		{Role: llm.RoleUser, Content: userPrompt},
	}, config.ClarificationTemperature, config.ClarificationMaxTokens)
	if err != nil {
		c.log.Warn("clarification generation failed, using template", "error", err)
		return "Happy to help! " + dealPrompt
	}
	return strings.TrimSpace(out)
}
