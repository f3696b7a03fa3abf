package config

// Retrieval defaults.
const (
	DefaultTopK         = 5
	SimilarityThreshold = 0.5

	// Max messages returned by GET /bot/conversation/:session_id.
	ConversationMessagesLimit = 10
)

// Confidence tiers from average cosine similarity of retrieved chunks.
const (
	ConfidenceHighThreshold   = 0.85
	ConfidenceMediumThreshold = 0.70
)

// History windowing: how many recent turns are injected into LLM context.
const (
	HistoryMessagesForAnswer = 6
	HistoryMessagesForDraft  = 10
)

// Source preview length in the API sources array.
const SourcePreviewMaxLength = 200

// Assistant messages longer than these are truncated before re-entering
// LLM history.
const (
	AssistantMessageTruncateLength = 600
	AssistantMessageDraftLength    = 800
)

// Per-call LLM temperature and token settings. No temperatures or max_tokens
// belong in service files.
const (
	GreetingTemperature = 0.5
	GreetingMaxTokens   = 80

	AnswerTemperature = 0.2
	AnswerMaxTokens   = 900

	InfoRequestTemperature = 0.2
	InfoRequestMaxTokens   = 400

	DraftTemperature = 0.3
	DraftMaxTokens   = 1200

	ClarificationTemperature = 0.5
	ClarificationMaxTokens   = 80

	QueryRewriterTemperature = 0.1
	QueryRewriterMaxTokens   = 1500

	FactExtractorTemperature = 0.0
	FactExtractorMaxTokens   = 100
)

// Rewriter history window: last turns shown to the rewriter, with long
// assistant turns cut to this many characters.
const (
	RewriterHistoryTurns            = 6
	RewriterAssistantTruncateLength = 200
)
