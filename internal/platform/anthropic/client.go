package anthropic

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/opendoorspartners/odp-backend/internal/platform/apierr"
	"github.com/opendoorspartners/odp-backend/internal/platform/llm"
	"github.com/opendoorspartners/odp-backend/internal/platform/logger"
)

// Client adapts the Anthropic Messages API to llm.ChatClient. Anthropic has
// no embedding endpoint, so this provider only swaps the chat side; the
// embedding client stays on OpenAI.
type Client struct {
	log   *logger.Logger
	msgs  *sdk.MessageService
	model string
}

func NewClient(log *logger.Logger) (*Client, error) {
	apiKey := os.Getenv("ANTHROPIC_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("missing ANTHROPIC_API_KEY")
	}
	model := os.Getenv("ANTHROPIC_MODEL")
	if model == "" {
		model = "claude-sonnet-4-20250514"
	}
	ac := sdk.NewClient(option.WithAPIKey(apiKey))
	return &Client{
		log:   log.With("service", "AnthropicClient"),
		msgs:  &ac.Messages,
		model: model,
	}, nil
}

func (c *Client) Chat(ctx context.Context, messages []llm.Message, temperature float64, maxTokens int) (string, error) {
	system, turns := SplitMessages(messages)
	if len(turns) == 0 {
		return "", apierr.New(http.StatusInternalServerError, apierr.CodeLLMFailed, fmt.Errorf("no user/assistant turns"))
	}
	if maxTokens <= 0 {
		maxTokens = 1024
	}

	params := sdk.MessageNewParams{
		Model:       sdk.Model(c.model),
		MaxTokens:   int64(maxTokens),
		Temperature: sdk.Float(temperature),
		Messages:    toParams(turns),
	}
	// Anthropic ignores empty system strings, only pass when present.
	if system != "" {
		params.System = []sdk.TextBlockParam{{Text: system}}
	}

	msg, err := c.msgs.New(ctx, params)
	if err != nil {
		return "", apierr.New(http.StatusBadGateway, apierr.CodeLLMFailed, err)
	}
	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	out := strings.TrimSpace(b.String())
	if out == "" {
		return "", apierr.New(http.StatusBadGateway, apierr.CodeLLMFailed, fmt.Errorf("empty completion"))
	}
	return out, nil
}

// SplitMessages converts the flat pipeline message slice into Anthropic's
// shape: leading system messages become the top-level system string, and a
// system message appearing mid-conversation is prepended to the next user
// turn so no instruction is silently dropped.
func SplitMessages(messages []llm.Message) (string, []llm.Message) {
	var systemParts []string
	turns := make([]llm.Message, 0, len(messages))
	pendingSystem := ""

	leading := true
	for _, m := range messages {
		switch m.Role {
		case llm.RoleSystem:
			if leading {
				systemParts = append(systemParts, m.Content)
			} else {
				if pendingSystem != "" {
					pendingSystem += "\n\n"
				}
				pendingSystem += m.Content
			}
		case llm.RoleUser:
			leading = false
			content := m.Content
			if pendingSystem != "" {
				content = pendingSystem + "\n\n" + content
				pendingSystem = ""
			}
			turns = append(turns, llm.Message{Role: llm.RoleUser, Content: content})
		case llm.RoleAssistant:
			leading = false
			turns = append(turns, m)
		}
	}
	return strings.Join(systemParts, "\n\n"), turns
}

func toParams(turns []llm.Message) []sdk.MessageParam {
	out := make([]sdk.MessageParam, 0, len(turns))
	for _, t := range turns {
		if t.Role == llm.RoleAssistant {
			out = append(out, sdk.NewAssistantMessage(sdk.NewTextBlock(t.Content)))
		} else {
			out = append(out, sdk.NewUserMessage(sdk.NewTextBlock(t.Content)))
		}
	}
	return out
}
