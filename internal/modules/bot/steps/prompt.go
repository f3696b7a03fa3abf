package steps

import (
	"strings"

	"github.com/google/uuid"

	"github.com/opendoorspartners/odp-backend/internal/modules/bot/config"
	"github.com/opendoorspartners/odp-backend/internal/platform/llm"
	"github.com/opendoorspartners/odp-backend/internal/types"
)

// Mode selects which instruction block the system prompt carries.
type Mode string

const (
	ModeGreeting Mode = "greeting"
	ModeAnswer   Mode = "answer"
	ModeAsk      Mode = "ask"
	ModeDraft    Mode = "draft"
)

// BuildSystemPrompt assembles the per-mode system prompt from the shared
// ODP identity template, the tone section, and the mode instructions.
func BuildSystemPrompt(mode Mode, toneSection string) string {
	toneSection = strings.TrimSpace(toneSection)
	if toneSection == "" {
		toneSection = config.DefaultToneRules
	}

	if mode == ModeGreeting {
		return strings.ReplaceAll(config.GreetingSystemPrompt, "{tone_section}", toneSection)
	}

	var instructions string
	switch mode {
	case ModeAsk:
		instructions = config.AskModeInstructions
	case ModeDraft:
		instructions = config.DraftModeInstructions
	default:
		instructions = config.AnswerModeInstructions
	}
	return strings.NewReplacer(
		"{tone_section}", toneSection,
		"{mode_instructions}", instructions,
	).Replace(config.SystemPromptTemplate)
}

// MergeContexts joins the two retrieval tiers. Team facts always come first
// so the model reads them before document passages.
func MergeContexts(dynamicContext, docContext string) string {
	if dynamicContext != "" && docContext != "" {
		return dynamicContext + "\n\n" + docContext
	}
	if dynamicContext != "" {
		return dynamicContext
	}
	return docContext
}

// BuildAnswerUserPrompt formats the answer-mode user turn: deal facts block,
// merged knowledge base block, an explicit no-context notice when both are
// empty, then the question footer.
func BuildAnswerUserPrompt(question, dealContext, kbContext string) string {
	var parts []string

	dealContext = strings.TrimSpace(dealContext)
	kbContext = strings.TrimSpace(kbContext)

	if dealContext != "" {
		parts = append(parts, config.AnswerSectionDeal, dealContext, "")
	}
	if kbContext != "" {
		parts = append(parts, config.AnswerSectionKB, kbContext, "")
	}
	if dealContext == "" && kbContext == "" {
		parts = append(parts, config.AnswerSectionNoKB, config.AnswerNoKBMessage, "")
	}

	footer := strings.ReplaceAll(config.AnswerFooterTemplate, "{question}", question)
	parts = append(parts, footer)
	return strings.Join(parts, "\n")
}

// BuildDraftUserPrompt formats the draft-mode user turn. The investor
// question leads so the reply addresses it directly even when the team info
// block is a long conversation summary.
func BuildDraftUserPrompt(investorQuestion, teamInfo, dealContext, kbContext string) string {
	var parts []string

	parts = append(parts, config.DraftSectionQuestion, strings.TrimSpace(investorQuestion), "")

	if teamInfo = strings.TrimSpace(teamInfo); teamInfo != "" {
		parts = append(parts, config.DraftSectionTeamInfo, teamInfo, "")
	}
	if dealContext = strings.TrimSpace(dealContext); dealContext != "" {
		parts = append(parts, config.DraftSectionDeal, dealContext, "")
	}
	if kbContext = strings.TrimSpace(kbContext); kbContext != "" {
		parts = append(parts, config.DraftSectionKB, kbContext, "")
	}

	parts = append(parts, config.DraftFooter)
	return strings.Join(parts, "\n")
}

// BuildInfoRequestPrompt formats the ask-mode user turn from the investor
// question and the partial answer the model already produced.
func BuildInfoRequestPrompt(originalQuestion, partialAnswer string) string {
	return strings.NewReplacer(
		"{original_question}", originalQuestion,
		"{partial_answer}", partialAnswer,
	).Replace(config.InfoRequestUserPrompt)
}

// BuildHistoryMessages converts stored conversation rows into LLM turns.
// Only the most recent maxMessages survive, and long assistant turns are
// truncated so history never crowds out the context blocks.
func BuildHistoryMessages(history []*types.ConversationMessage, maxMessages, truncateAt int) []llm.Message {
	if len(history) > maxMessages {
		history = history[len(history)-maxMessages:]
	}
	out := make([]llm.Message, 0, len(history))
	for _, msg := range history {
		content := strings.TrimSpace(msg.Content)
		if content == "" {
			continue
		}
		switch msg.Role {
		case types.RoleUser:
			out = append(out, llm.Message{Role: llm.RoleUser, Content: content})
		case types.RoleAssistant:
			if len(content) > truncateAt {
				content = content[:truncateAt] + "..."
			}
			out = append(out, llm.Message{Role: llm.RoleAssistant, Content: content})
		}
	}
	return out
}

// BuildConversationSummary flattens the conversation into plain text for
// draft generation, with the team's freshly supplied answer appended last.
func BuildConversationSummary(history []*types.ConversationMessage, latestUserAnswer string) string {
	if len(history) == 0 {
		return latestUserAnswer
	}

	lines := []string{"Conversation context:"}
	for _, msg := range history {
		content := strings.TrimSpace(msg.Content)
		if content == "" {
			continue
		}
		label := "Investor"
		if msg.Role == types.RoleAssistant {
			label = "ODP Team"
			if len(content) > config.AssistantMessageDraftLength {
				content = content[:config.AssistantMessageDraftLength] + "..."
			}
		}
		lines = append(lines, "\n["+label+"]: "+content)
	}
	if latestUserAnswer != "" {
		lines = append(lines, "\n[ODP Team - answer provided]: "+latestUserAnswer)
	}
	return strings.Join(lines, "\n")
}

// GetPendingQuestion returns the investor question stored on the most recent
// assistant message when that message requested more information. Greeting
// replies do not clear the pending state; any other assistant message does.
func GetPendingQuestion(history []*types.ConversationMessage) string {
	for i := len(history) - 1; i >= 0; i-- {
		msg := history[i]
		if msg.Role != types.RoleAssistant {
			continue
		}
		if meta, ok := types.ParseMessageMetadata(msg.Metadata); ok {
			if meta.Type == types.ResponseGreeting {
				continue
			}
			if meta.Type == types.ResponseNeedsInfo && meta.InvestorQuestion != "" {
				return meta.InvestorQuestion
			}
		}
		return ""
	}
	return ""
}

// ResolveInvestorQuestion finds the original investor question for a draft.
// A substantive current question wins, then the question saved when the
// assistant asked which deal, then the first substantive user message.
func ResolveInvestorQuestion(history []*types.ConversationMessage, currentQuestion string) string {
	if trimmed := strings.TrimSpace(currentQuestion); len(trimmed) > 20 {
		return trimmed
	}

	for i := len(history) - 1; i >= 0; i-- {
		msg := history[i]
		if msg.Role != types.RoleAssistant {
			continue
		}
		if meta, ok := types.ParseMessageMetadata(msg.Metadata); ok {
			if meta.Type == types.ResponseClarification && meta.OriginalQuestion != "" {
				return meta.OriginalQuestion
			}
		}
		break
	}

	for _, msg := range history {
		if msg.Role == types.RoleUser {
			if content := strings.TrimSpace(msg.Content); len(content) > 20 {
				return content
			}
		}
	}
	return currentQuestion
}

// DealFromHistory scans newest to oldest and returns the first deal
// association found.
func DealFromHistory(history []*types.ConversationMessage) *uuid.UUID {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].DealID != nil {
			return history[i].DealID
		}
	}
	return nil
}
