package steps

import (
	"context"
	"strings"

	"github.com/opendoorspartners/odp-backend/internal/modules/bot/config"
	"github.com/opendoorspartners/odp-backend/internal/platform/llm"
	"github.com/opendoorspartners/odp-backend/internal/platform/logger"
)

// Generator runs the model calls for every response mode. All deal data
// arrives through the prompts at call time, nothing is hardcoded here.
type Generator struct {
	chat llm.ChatClient
	log  *logger.Logger
}

func NewGenerator(chat llm.ChatClient, log *logger.Logger) *Generator {
	return &Generator{chat: chat, log: log.With("service", "Generator")}
}

// GenerateGreeting returns a short social reply with no deal content.
func (g *Generator) GenerateGreeting(ctx context.Context, question, toneSection string) (string, error) {
	out, err := g.chat.Chat(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: BuildSystemPrompt(ModeGreeting, toneSection)},
		{Role: llm.RoleUser, Content: question},
	}, config.GreetingTemperature, config.GreetingMaxTokens)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// GenerateAnswer produces the grounded answer. History turns are injected
// between the system prompt and the context-bearing user turn.
func (g *Generator) GenerateAnswer(ctx context.Context, question, kbContext, dealContext, toneSection string, history []llm.Message) (string, error) {
	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{
		Role:    llm.RoleSystem,
		Content: BuildSystemPrompt(ModeAnswer, toneSection),
	})
	messages = append(messages, history...)
	messages = append(messages, llm.Message{
		Role:    llm.RoleUser,
		Content: BuildAnswerUserPrompt(question, dealContext, kbContext),
	})

	out, err := g.chat.Chat(ctx, messages, config.AnswerTemperature, config.AnswerMaxTokens)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// GenerateInfoRequest turns a partial answer into a numbered request for the
// specific facts the answer could not confirm.
func (g *Generator) GenerateInfoRequest(ctx context.Context, originalQuestion, partialAnswer, toneSection string) (string, error) {
	out, err := g.chat.Chat(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: BuildSystemPrompt(ModeAsk, toneSection)},
		{Role: llm.RoleUser, Content: BuildInfoRequestPrompt(originalQuestion, partialAnswer)},
	}, config.InfoRequestTemperature, config.InfoRequestMaxTokens)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// GenerateDraft writes the email reply to the investor question using team
// info, deal context, and knowledge base passages.
func (g *Generator) GenerateDraft(ctx context.Context, investorQuestion, teamInfo, dealContext, kbContext, toneSection string) (string, error) {
	out, err := g.chat.Chat(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: BuildSystemPrompt(ModeDraft, toneSection)},
		{Role: llm.RoleUser, Content: BuildDraftUserPrompt(investorQuestion, teamInfo, dealContext, kbContext)},
	}, config.DraftTemperature, config.DraftMaxTokens)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}
