package steps

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/opendoorspartners/odp-backend/internal/data/repos"
	"github.com/opendoorspartners/odp-backend/internal/modules/bot/config"
	"github.com/opendoorspartners/odp-backend/internal/platform/dbctx"
	"github.com/opendoorspartners/odp-backend/internal/platform/llm"
	"github.com/opendoorspartners/odp-backend/internal/platform/logger"
)

// FactExtractor detects when a team member's message states a deal value
// ("share price is ~$378") and stores it as an approved key-value fact, so
// the next question about it is answered from the knowledge base directly.
type FactExtractor struct {
	chat  llm.ChatClient
	facts repos.DynamicFactRepo
	log   *logger.Logger
}

func NewFactExtractor(chat llm.ChatClient, facts repos.DynamicFactRepo, log *logger.Logger) *FactExtractor {
	return &FactExtractor{chat: chat, facts: facts, log: log.With("service", "FactExtractor")}
}

// StoredFact reports what ExtractAndStore persisted.
type StoredFact struct {
	Action    string
	FactKey   string
	FactValue string
	DealID    uuid.UUID
}

type extractionResult struct {
	IsFact    bool   `json:"is_fact"`
	FactKey   string `json:"fact_key"`
	FactValue string `json:"fact_value"`
}

// isObviouslyNotAFact pre-screens the message so questions and greetings
// never cost a model call.
func isObviouslyNotAFact(message string) bool {
	text := strings.ToLower(strings.TrimSpace(message))
	if len(text) < 5 {
		return true
	}
	if strings.HasSuffix(text, "?") {
		return true
	}
	if len(text) < 30 {
		for _, prefix := range config.FactExtractorSkipStarters {
			if strings.HasPrefix(text, prefix) {
				return true
			}
		}
	}
	return false
}

// ExtractAndStore checks message for a factual deal value and upserts it for
// the deal. Returns nil with no error when the message carries no fact.
// conversationContext, when set, is the preceding assistant message and helps
// the extractor resolve bare replies like "$378".
func (f *FactExtractor) ExtractAndStore(dbc dbctx.Context, message string, dealID uuid.UUID, userID, conversationContext string) (*StoredFact, error) {
	if dealID == uuid.Nil {
		return nil, nil
	}
	if isObviouslyNotAFact(message) {
		return nil, nil
	}

	userContent := message
	if conversationContext != "" {
		userContent = fmt.Sprintf("Previous bot message (context):\n%s\n\nTeam member replied:\n%s",
			conversationContext, message)
	}

	out, err := f.chat.Chat(dbc.Ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: config.FactExtractorSystemPrompt},
		{Role: llm.RoleUser, Content: userContent},
	}, config.FactExtractorTemperature, config.FactExtractorMaxTokens)
	if err != nil {
		f.log.Warn("fact extraction call failed", "error", err)
		return nil, nil
	}

	clean := strings.TrimSpace(out)
	clean = strings.TrimPrefix(clean, "```json")
	clean = strings.TrimPrefix(clean, "```")
	clean = strings.TrimSuffix(clean, "```")
	clean = strings.TrimSpace(clean)

	var extracted extractionResult
	if err := json.Unmarshal([]byte(clean), &extracted); err != nil {
		f.log.Warn("fact extraction returned unparseable output", "error", err)
		return nil, nil
	}
	if !extracted.IsFact {
		return nil, nil
	}

	factKey := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(extracted.FactKey)), " ", "_")
	factValue := strings.TrimSpace(extracted.FactValue)
	if factKey == "" || factValue == "" {
		return nil, nil
	}

	preview := message
	if len(preview) > 200 {
		preview = preview[:200]
	}
	sourceNote := fmt.Sprintf("Provided by team member via chat. Original message: %q", preview)

	action, err := f.facts.UpsertByKey(dbc, dealID, factKey, factValue, userID, sourceNote)
	if err != nil {
		f.log.Warn("fact upsert failed", "fact_key", factKey, "error", err)
		return nil, nil
	}

	f.log.Info("deal fact stored",
		"action", action, "deal_id", dealID, "fact_key", factKey)
	return &StoredFact{
		Action:    action,
		FactKey:   factKey,
		FactValue: factValue,
		DealID:    dealID,
	}, nil
}
