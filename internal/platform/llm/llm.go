package llm

import "context"

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is the provider-neutral chat turn used across the bot pipeline.
// Providers that take the system prompt out-of-band (Anthropic) split the
// messages themselves; callers always build a flat ordered slice.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatClient is implemented by every LLM provider adapter.
type ChatClient interface {
	Chat(ctx context.Context, messages []Message, temperature float64, maxTokens int) (string, error)
}

// EmbeddingClient maps text to fixed-dimension vectors. Embeddings are
// always served by OpenAI regardless of the chat provider: switching
// embedding models would invalidate every stored vector.
type EmbeddingClient interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}
