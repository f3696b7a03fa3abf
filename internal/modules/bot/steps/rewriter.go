package steps

import (
	"context"
	"strings"

	"github.com/opendoorspartners/odp-backend/internal/modules/bot/config"
	"github.com/opendoorspartners/odp-backend/internal/platform/llm"
	"github.com/opendoorspartners/odp-backend/internal/platform/logger"
	"github.com/opendoorspartners/odp-backend/internal/types"
)

// Rewriter resolves pronouns and elliptical follow-ups against recent
// conversation turns so the retrieval query is self-contained.
type Rewriter struct {
	chat llm.ChatClient
	log  *logger.Logger
}

func NewRewriter(chat llm.ChatClient, log *logger.Logger) *Rewriter {
	return &Rewriter{chat: chat, log: log.With("service", "Rewriter")}
}

// needsRewrite gates the LLM call. First turns and questions that already
// name a company are searched as-is.
func needsRewrite(question string, history []*types.ConversationMessage) bool {
	if len(history) < 2 {
		return false
	}
	lower := strings.ToLower(question)

	for _, w := range config.VagueWords {
		if strings.Contains(lower, w) {
			return true
		}
	}

	mentionsCompany := false
	for _, name := range config.CompanyNames {
		if strings.Contains(lower, name) {
			mentionsCompany = true
			break
		}
	}

	words := strings.Fields(lower)
	if len(words) < 4 && !mentionsCompany {
		return true
	}
	if len(words) <= 5 && !mentionsCompany {
		for _, p := range config.MetricOnlyPatterns {
			if strings.Contains(lower, p) {
				return true
			}
		}
	}
	return false
}

// Rewrite returns a standalone version of question, or the original when no
// rewrite is needed or the model call fails.
func (r *Rewriter) Rewrite(ctx context.Context, question string, history []*types.ConversationMessage) string {
	if !needsRewrite(question, history) {
		return question
	}

	start := 0
	if len(history) > config.RewriterHistoryTurns {
		start = len(history) - config.RewriterHistoryTurns
	}
	var lines []string
	for _, msg := range history[start:] {
		content := msg.Content
		if msg.Role == types.RoleAssistant && len(content) > config.RewriterAssistantTruncateLength {
			content = content[:config.RewriterAssistantTruncateLength] + "..."
		}
		label := "User"
		if msg.Role == types.RoleAssistant {
			label = "Assistant"
		}
		lines = append(lines, label+": "+content)
	}

	userPrompt := strings.NewReplacer(
		"{history_text}", strings.Join(lines, "\n"),
		"{current_question}", question,
	).Replace(config.QueryRewriterUserTemplate)

	out, err := r.chat.Chat(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: config.QueryRewriterSystemPrompt},
		{Role: llm.RoleUser, Content: userPrompt},
	}, config.QueryRewriterTemperature, config.QueryRewriterMaxTokens)
	if err != nil {
		r.log.Warn("query rewrite failed, using original", "error", err)
		return question
	}

	rewritten := strings.TrimSpace(out)
	rewritten = strings.Trim(rewritten, `"'`)
	if rewritten == "" {
		return question
	}
	if rewritten != question {
		r.log.Info("query rewritten", "original", question, "rewritten", rewritten)
	}
	return rewritten
}
