package steps

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/opendoorspartners/odp-backend/internal/data/repos"
	"github.com/opendoorspartners/odp-backend/internal/modules/bot/config"
	"github.com/opendoorspartners/odp-backend/internal/platform/apierr"
	"github.com/opendoorspartners/odp-backend/internal/platform/dbctx"
	"github.com/opendoorspartners/odp-backend/internal/platform/llm"
	"github.com/opendoorspartners/odp-backend/internal/platform/logger"
	"github.com/opendoorspartners/odp-backend/internal/types"
)

// History rows loaded per request. The answer prompt sees fewer turns; the
// extra rows feed pending-question and deal detection.
const (
	askHistoryLimit   = 10
	draftHistoryLimit = 20
)

// AskResponse is the wire shape every bot operation returns, tagged by
// ResponseType.
type AskResponse struct {
	ResponseType       string     `json:"response_type"`
	Answer             string     `json:"answer,omitempty"`
	PartialAnswer      string     `json:"partial_answer,omitempty"`
	InfoRequest        string     `json:"info_request,omitempty"`
	ClarifyingQuestion string     `json:"clarifying_question,omitempty"`
	AvailableDocuments []string   `json:"available_documents,omitempty"`
	DraftEmail         string     `json:"draft_email,omitempty"`
	InvestorQuestion   string     `json:"investor_question,omitempty"`
	Sources            []Source   `json:"sources"`
	Confidence         string     `json:"confidence,omitempty"`
	ChunksFound        int        `json:"chunks_found"`
	SessionID          string     `json:"session_id"`
	ActiveDealID       *uuid.UUID `json:"active_deal_id"`
	ShowDraftButton    bool       `json:"show_draft_button"`
}

// Pipeline is the request orchestrator. One Ask call walks the full
// sequence: session, history, deal detection, rewrite, both retrieval tiers,
// clarification, generation, persistence. A request is sequential; only the
// database is shared across requests.
type Pipeline struct {
	conversations repos.ConversationRepo
	messages      repos.MessageRepo
	documents     repos.DocumentRepo
	chunks        repos.ChunkRepo
	dealCtx       *DealContext
	dynamicKB     *DynamicKB
	rewriter      *Rewriter
	clarifier     *Clarifier
	generator     *Generator
	factExtractor *FactExtractor
	embedder      llm.EmbeddingClient
	log           *logger.Logger
}

func NewPipeline(
	conversations repos.ConversationRepo,
	messages repos.MessageRepo,
	documents repos.DocumentRepo,
	chunks repos.ChunkRepo,
	dealCtx *DealContext,
	dynamicKB *DynamicKB,
	rewriter *Rewriter,
	clarifier *Clarifier,
	generator *Generator,
	factExtractor *FactExtractor,
	embedder llm.EmbeddingClient,
	log *logger.Logger,
) *Pipeline {
	return &Pipeline{
		conversations: conversations,
		messages:      messages,
		documents:     documents,
		chunks:        chunks,
		dealCtx:       dealCtx,
		dynamicKB:     dynamicKB,
		rewriter:      rewriter,
		clarifier:     clarifier,
		generator:     generator,
		factExtractor: factExtractor,
		embedder:      embedder,
		log:           log.With("service", "Pipeline"),
	}
}

// searchStatic embeds the query and runs the chunk similarity search. Empty
// on embedding failure, matching the repo's empty-on-error contract.
func (p *Pipeline) searchStatic(dbc dbctx.Context, question string, dealID *uuid.UUID) []repos.ChunkHit {
	embedding, err := p.embedder.Embed(dbc.Ctx, question)
	if err != nil {
		p.log.Warn("query embedding failed", "error", err)
		return []repos.ChunkHit{}
	}
	return p.chunks.SearchSimilar(dbc, embedding, dealID, config.DefaultTopK, config.SimilarityThreshold)
}

// Ask answers one user question end to end.
func (p *Pipeline) Ask(ctx context.Context, question, userID, sessionID string, dealID *uuid.UUID) (*AskResponse, error) {
	dbc := dbctx.Context{Ctx: ctx}

	conversation, err := p.conversations.GetOrCreate(dbc, sessionID, userID)
	if err != nil {
		return nil, apierr.New(http.StatusInternalServerError, apierr.CodeQueryFailed, err)
	}

	history, err := p.messages.History(dbc, conversation.ID, askHistoryLimit)
	if err != nil {
		p.log.Warn("history load failed", "error", err)
		history = nil
	}

	deals := p.dealCtx.ListActiveDeals(dbc)

	// Deal priority: explicit arg, then mention in the question, then the
	// most recent deal in history. Question beats history so switching
	// deals mid-thread takes effect immediately.
	activeDeal := dealID
	if activeDeal == nil {
		activeDeal = p.dealCtx.DetectDeal(question, deals)
	}
	if activeDeal == nil {
		activeDeal = DealFromHistory(history)
	}

	if _, err := p.messages.Append(dbc, conversation.ID, types.RoleUser, question, activeDeal, nil); err != nil {
		return nil, apierr.New(http.StatusInternalServerError, apierr.CodeQueryFailed, err)
	}

	// Greetings short-circuit before the pending-needs-info check so
	// "Hello" after an info request is never stored as a deal fact.
	if IsGreeting(question) {
		return p.respondGreeting(dbc, conversation, question, activeDeal)
	}

	if pending := GetPendingQuestion(history); pending != "" &&
		activeDeal != nil && !IsNewQuestion(question) {
		return p.answerSupplied(dbc, conversation, pending, question, userID, *activeDeal, history)
	}

	// Standalone team statements ("share price is now ~$378") enrich the
	// dynamic KB even without a pending info request. The extractor's
	// pre-screen keeps questions and greetings out.
	if activeDeal != nil && !IsNewQuestion(question) {
		lastBot := ""
		if last, err := p.messages.LastAssistant(dbc, conversation.ID); err == nil && last != nil {
			lastBot = last.Content
		}
		if _, err := p.factExtractor.ExtractAndStore(dbc, question, *activeDeal, userID, lastBot); err != nil {
			p.log.Warn("fact extraction failed", "error", err)
		}
	}

	searchQuery := p.rewriter.Rewrite(ctx, question, history)

	dynamicContext := p.dynamicKB.Search(dbc, searchQuery, activeDeal, config.DefaultTopK, config.SimilarityThreshold)

	hits := p.searchStatic(dbc, searchQuery, activeDeal)

	// First question naming a deal only present in documents: adopt the
	// deal the chunks came from.
	if activeDeal == nil {
		for _, hit := range hits {
			if hit.DealID != uuid.Nil {
				adopted := hit.DealID
				activeDeal = &adopted
				break
			}
		}
	}

	confidence := CalculateConfidence(hits)

	if NeedsClarification(question, len(hits), confidence, activeDeal != nil) {
		return p.respondClarification(dbc, conversation, question, activeDeal, deals)
	}

	docContext := BuildChunkContext(hits)
	kbContext := MergeContexts(dynamicContext, docContext)

	dealContext := ""
	if activeDeal != nil {
		dealContext = p.dealCtx.BuildDealContext(dbc, *activeDeal)
	}
	toneSection := p.dealCtx.ToneRules(dbc, activeDeal)

	historyMessages := BuildHistoryMessages(history, config.HistoryMessagesForAnswer, config.AssistantMessageTruncateLength)

	answer, err := p.generator.GenerateAnswer(ctx, question, kbContext, dealContext, toneSection, historyMessages)
	if err != nil {
		return nil, apierr.New(http.StatusBadGateway, apierr.CodeQueryFailed, err)
	}

	sources := ExtractSources(hits)

	if HasMissingInfoSignal(answer) {
		return p.respondNeedsInfo(dbc, conversation, question, answer, toneSection, activeDeal, history, sources, confidence, len(hits))
	}

	meta := types.MessageMetadata{
		Type:       types.ResponseAnswer,
		Sources:    sourceNames(sources),
		Confidence: confidence,
	}
	if _, err := p.messages.Append(dbc, conversation.ID, types.RoleAssistant, answer, activeDeal, meta.ToJSON()); err != nil {
		p.log.Warn("assistant message persist failed", "error", err)
	}

	return &AskResponse{
		ResponseType:    types.ResponseAnswer,
		Answer:          answer,
		Sources:         sources,
		Confidence:      confidence,
		ChunksFound:     len(hits),
		SessionID:       conversation.SessionID,
		ActiveDealID:    activeDeal,
		ShowDraftButton: true,
	}, nil
}

func (p *Pipeline) respondGreeting(dbc dbctx.Context, conversation *types.Conversation, question string, activeDeal *uuid.UUID) (*AskResponse, error) {
	toneSection := p.dealCtx.ToneRules(dbc, activeDeal)
	reply, err := p.generator.GenerateGreeting(dbc.Ctx, question, toneSection)
	if err != nil {
		return nil, apierr.New(http.StatusBadGateway, apierr.CodeQueryFailed, err)
	}

	meta := types.MessageMetadata{Type: types.ResponseGreeting}
	if _, err := p.messages.Append(dbc, conversation.ID, types.RoleAssistant, reply, activeDeal, meta.ToJSON()); err != nil {
		p.log.Warn("assistant message persist failed", "error", err)
	}

	return &AskResponse{
		ResponseType: types.ResponseAnswer,
		Answer:       reply,
		Sources:      []Source{},
		SessionID:    conversation.SessionID,
		ActiveDealID: activeDeal,
	}, nil
}

func (p *Pipeline) respondClarification(dbc dbctx.Context, conversation *types.Conversation, question string, activeDeal *uuid.UUID, deals []*types.Deal) (*AskResponse, error) {
	docNames, err := p.documents.ListNames(dbc, activeDeal)
	if err != nil {
		p.log.Warn("document name lookup failed", "error", err)
		docNames = nil
	}

	clarifyingQ := p.clarifier.GenerateClarifyingQuestion(dbc.Ctx, question, DealNames(deals))

	meta := types.MessageMetadata{
		Type:               types.ResponseClarification,
		OriginalQuestion:   question,
		AvailableDocuments: docNames,
	}
	if _, err := p.messages.Append(dbc, conversation.ID, types.RoleAssistant, clarifyingQ, activeDeal, meta.ToJSON()); err != nil {
		p.log.Warn("assistant message persist failed", "error", err)
	}

	return &AskResponse{
		ResponseType:       types.ResponseClarification,
		ClarifyingQuestion: clarifyingQ,
		AvailableDocuments: docNames,
		Sources:            []Source{},
		SessionID:          conversation.SessionID,
		ActiveDealID:       activeDeal,
	}, nil
}

func (p *Pipeline) respondNeedsInfo(dbc dbctx.Context, conversation *types.Conversation, question, answer, toneSection string, activeDeal *uuid.UUID, history []*types.ConversationMessage, sources []Source, confidence string, chunksFound int) (*AskResponse, error) {
	investorQuestion := ResolveInvestorQuestion(history, question)

	request, err := p.generator.GenerateInfoRequest(dbc.Ctx, investorQuestion, answer, toneSection)
	if err != nil {
		return nil, apierr.New(http.StatusBadGateway, apierr.CodeQueryFailed, err)
	}

	combined := answer + "\n\n---\n" + request
	meta := types.MessageMetadata{
		Type:             types.ResponseNeedsInfo,
		InvestorQuestion: investorQuestion,
		Sources:          sourceNames(sources),
		Confidence:       confidence,
	}
	if _, err := p.messages.Append(dbc, conversation.ID, types.RoleAssistant, combined, activeDeal, meta.ToJSON()); err != nil {
		p.log.Warn("assistant message persist failed", "error", err)
	}

	return &AskResponse{
		ResponseType:     types.ResponseNeedsInfo,
		PartialAnswer:    answer,
		InfoRequest:      request,
		InvestorQuestion: investorQuestion,
		Sources:          sources,
		Confidence:       confidence,
		ChunksFound:      chunksFound,
		SessionID:        conversation.SessionID,
		ActiveDealID:     activeDeal,
	}, nil
}

// answerSupplied handles the team replying to a pending info request: store
// the answer in the dynamic KB, re-search both tiers with the original
// investor question, and draft the email reply.
func (p *Pipeline) answerSupplied(dbc dbctx.Context, conversation *types.Conversation, investorQuestion, userAnswer, userID string, dealID uuid.UUID, history []*types.ConversationMessage) (*AskResponse, error) {
	dealName := ""
	if deal, err := p.dealCtx.deals.GetByID(dbc, dealID); err == nil && deal != nil {
		dealName = deal.Name
	}

	if err := p.dynamicKB.StoreWithDecomposition(dbc, dealID, dealName, investorQuestion, userAnswer, userID); err != nil {
		p.log.Warn("dynamic KB store failed", "error", err)
	}

	dynamicContext := p.dynamicKB.Search(dbc, investorQuestion, &dealID, config.DefaultTopK, config.SimilarityThreshold)
	hits := p.searchStatic(dbc, investorQuestion, &dealID)
	kbContext := MergeContexts(dynamicContext, BuildChunkContext(hits))

	dealContext := p.dealCtx.BuildDealContext(dbc, dealID)
	toneSection := p.dealCtx.ToneRules(dbc, &dealID)
	teamInfo := BuildConversationSummary(trimHistory(history, config.HistoryMessagesForDraft), userAnswer)

	draft, err := p.generator.GenerateDraft(dbc.Ctx, investorQuestion, teamInfo, dealContext, kbContext, toneSection)
	if err != nil {
		return nil, apierr.New(http.StatusBadGateway, apierr.CodeDraftFailed, err)
	}

	activeDeal := dealID
	meta := types.MessageMetadata{
		Type:             types.ResponseDraftEmail,
		InvestorQuestion: investorQuestion,
		Trigger:          "user_supplied_answer",
	}
	if _, err := p.messages.Append(dbc, conversation.ID, types.RoleAssistant, draft, &activeDeal, meta.ToJSON()); err != nil {
		p.log.Warn("assistant message persist failed", "error", err)
	}

	return &AskResponse{
		ResponseType:     types.ResponseDraftEmail,
		DraftEmail:       draft,
		InvestorQuestion: investorQuestion,
		Sources:          ExtractSources(hits),
		ChunksFound:      len(hits),
		SessionID:        conversation.SessionID,
		ActiveDealID:     &activeDeal,
	}, nil
}

// GenerateDraft is the manual entry point behind the draft button. It
// resolves the investor question from the session and drafts the reply from
// everything known so far.
func (p *Pipeline) GenerateDraft(ctx context.Context, sessionID, userID string) (*AskResponse, error) {
	dbc := dbctx.Context{Ctx: ctx}

	conversation, err := p.conversations.GetBySessionID(dbc, sessionID)
	if err != nil {
		return nil, apierr.New(http.StatusInternalServerError, apierr.CodeDraftFailed, err)
	}
	if conversation == nil {
		return nil, apierr.Msg(http.StatusNotFound, apierr.CodeNoConversation, "no conversation found for session")
	}

	history, err := p.messages.History(dbc, conversation.ID, draftHistoryLimit)
	if err != nil {
		return nil, apierr.New(http.StatusInternalServerError, apierr.CodeDraftFailed, err)
	}

	investorQuestion := ResolveInvestorQuestion(history, "")
	if investorQuestion == "" {
		return nil, apierr.Msg(http.StatusBadRequest, apierr.CodeNoQuestion, "no investor question found in conversation")
	}

	activeDeal := DealFromHistory(history)
	if activeDeal == nil {
		deals := p.dealCtx.ListActiveDeals(dbc)
		activeDeal = p.dealCtx.DetectDeal(investorQuestion, deals)
	}

	dynamicContext := p.dynamicKB.Search(dbc, investorQuestion, activeDeal, config.DefaultTopK, config.SimilarityThreshold)
	hits := p.searchStatic(dbc, investorQuestion, activeDeal)
	kbContext := MergeContexts(dynamicContext, BuildChunkContext(hits))

	dealContext := ""
	if activeDeal != nil {
		dealContext = p.dealCtx.BuildDealContext(dbc, *activeDeal)
	}
	toneSection := p.dealCtx.ToneRules(dbc, activeDeal)
	teamInfo := BuildConversationSummary(trimHistory(history, config.HistoryMessagesForDraft), "")

	draft, err := p.generator.GenerateDraft(ctx, investorQuestion, teamInfo, dealContext, kbContext, toneSection)
	if err != nil {
		return nil, apierr.New(http.StatusBadGateway, apierr.CodeDraftFailed, err)
	}

	meta := types.MessageMetadata{
		Type:             types.ResponseDraftEmail,
		InvestorQuestion: investorQuestion,
		Trigger:          "generate_draft_button",
	}
	if _, err := p.messages.Append(dbc, conversation.ID, types.RoleAssistant, draft, activeDeal, meta.ToJSON()); err != nil {
		p.log.Warn("assistant message persist failed", "error", err)
	}

	return &AskResponse{
		ResponseType:     types.ResponseDraftEmail,
		DraftEmail:       draft,
		InvestorQuestion: investorQuestion,
		Sources:          ExtractSources(hits),
		ChunksFound:      len(hits),
		SessionID:        conversation.SessionID,
		ActiveDealID:     activeDeal,
	}, nil
}

func trimHistory(history []*types.ConversationMessage, max int) []*types.ConversationMessage {
	if len(history) > max {
		return history[len(history)-max:]
	}
	return history
}

func sourceNames(sources []Source) []string {
	names := make([]string, 0, len(sources))
	for _, s := range sources {
		names = append(names, s.DocumentName)
	}
	return names
}
