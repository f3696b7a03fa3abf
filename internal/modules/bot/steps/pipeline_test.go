package steps

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/opendoorspartners/odp-backend/internal/data/repos"
	"github.com/opendoorspartners/odp-backend/internal/modules/bot/config"
	"github.com/opendoorspartners/odp-backend/internal/platform/apierr"
	"github.com/opendoorspartners/odp-backend/internal/platform/dbctx"
	"github.com/opendoorspartners/odp-backend/internal/types"
)

func TestAskSimpleAnswer(t *testing.T) {
	f := newPipelineFixture(t)
	deal := f.addDeal("SpaceX", "SPX")
	f.chunks.hits = []repos.ChunkHit{
		{ChunkText: "The minimum ticket is $25K.", DocName: "SpaceX Deck.pdf", Similarity: 0.92, DealID: deal.ID},
	}
	f.chat.replies = []string{"The minimum ticket for SpaceX is $25K."}

	resp, err := f.p.Ask(context.Background(), "What is the minimum ticket for SpaceX?", "u1", "s1", nil)
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}

	if resp.ResponseType != types.ResponseAnswer {
		t.Fatalf("response_type = %q, want answer", resp.ResponseType)
	}
	if !resp.ShowDraftButton {
		t.Errorf("show_draft_button = false, want true")
	}
	if resp.Confidence != "high" {
		t.Errorf("confidence = %q, want high", resp.Confidence)
	}
	if resp.ChunksFound != 1 || len(resp.Sources) != 1 {
		t.Errorf("chunks_found = %d, sources = %d, want 1 and 1", resp.ChunksFound, len(resp.Sources))
	}
	if resp.ActiveDealID == nil || *resp.ActiveDealID != deal.ID {
		t.Errorf("active_deal_id = %v, want %v", resp.ActiveDealID, deal.ID)
	}
	if len(f.chat.calls) != 1 {
		t.Fatalf("chat calls = %d, want 1", len(f.chat.calls))
	}
	if f.chat.temps[0] != config.AnswerTemperature {
		t.Errorf("answer temperature = %v, want %v", f.chat.temps[0], config.AnswerTemperature)
	}

	assistant := f.msgs.lastByRole(types.RoleAssistant)
	if assistant == nil {
		t.Fatal("no assistant message persisted")
	}
	meta, ok := types.ParseMessageMetadata(assistant.Metadata)
	if !ok || meta.Type != types.ResponseAnswer {
		t.Fatalf("assistant metadata = %+v, want type answer", meta)
	}
	if len(meta.Sources) != 1 || meta.Sources[0] != "SpaceX Deck.pdf" {
		t.Errorf("metadata sources = %v", meta.Sources)
	}
	if assistant.DealID == nil || *assistant.DealID != deal.ID {
		t.Errorf("assistant deal_id = %v", assistant.DealID)
	}
}

func TestAskGreetingShortCircuits(t *testing.T) {
	f := newPipelineFixture(t)
	f.addDeal("SpaceX", "SPX")
	f.chat.replies = []string{"Hello! How can we help today?"}

	resp, err := f.p.Ask(context.Background(), "Hello", "u1", "s1", nil)
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}

	if resp.ResponseType != types.ResponseAnswer {
		t.Fatalf("response_type = %q, want answer", resp.ResponseType)
	}
	if resp.ShowDraftButton {
		t.Error("greeting should not offer the draft button")
	}
	if len(f.chat.calls) != 1 {
		t.Fatalf("chat calls = %d, want 1 (greeting only)", len(f.chat.calls))
	}
	if f.chat.temps[0] != config.GreetingTemperature {
		t.Errorf("greeting temperature = %v, want %v", f.chat.temps[0], config.GreetingTemperature)
	}
	if len(f.facts.created) != 0 || len(f.facts.upserts) != 0 {
		t.Error("greeting must not write dynamic facts")
	}

	meta, ok := types.ParseMessageMetadata(f.msgs.lastByRole(types.RoleAssistant).Metadata)
	if !ok || meta.Type != types.ResponseGreeting {
		t.Fatalf("assistant metadata = %+v, want type greeting", meta)
	}
}

func TestAskClarifiesWithoutDealContext(t *testing.T) {
	f := newPipelineFixture(t)
	f.addDeal("SpaceX", "SPX")
	f.addDeal("Anthropic", "ANT")
	f.docs.names = []string{"SpaceX Deck.pdf", "Anthropic Terms.pdf"}

	resp, err := f.p.Ask(context.Background(), "What is the minimum ticket?", "u1", "s1", nil)
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}

	if resp.ResponseType != types.ResponseClarification {
		t.Fatalf("response_type = %q, want needs_clarification", resp.ResponseType)
	}
	want := "Happy to help! Are you asking about SpaceX or Anthropic?"
	if resp.ClarifyingQuestion != want {
		t.Errorf("clarifying_question = %q, want %q", resp.ClarifyingQuestion, want)
	}
	// Deal-keyword questions take the template fast path, no model call.
	if len(f.chat.calls) != 0 {
		t.Errorf("chat calls = %d, want 0", len(f.chat.calls))
	}
	if len(resp.AvailableDocuments) != 2 {
		t.Errorf("available_documents = %v", resp.AvailableDocuments)
	}

	meta, ok := types.ParseMessageMetadata(f.msgs.lastByRole(types.RoleAssistant).Metadata)
	if !ok || meta.Type != types.ResponseClarification {
		t.Fatalf("assistant metadata = %+v, want type needs_clarification", meta)
	}
	if meta.OriginalQuestion != "What is the minimum ticket?" {
		t.Errorf("metadata original_question = %q", meta.OriginalQuestion)
	}
}

func TestAskMissingInfoRoutesToNeedsInfo(t *testing.T) {
	f := newPipelineFixture(t)
	f.addDeal("SpaceX", "SPX")
	f.chat.replies = []string{
		"We don't have the payment dates in our knowledge base.",
		"Could you provide:\n1. The payment dates for SpaceX",
	}

	question := "What are the payment dates for SpaceX?"
	resp, err := f.p.Ask(context.Background(), question, "u1", "s1", nil)
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}

	if resp.ResponseType != types.ResponseNeedsInfo {
		t.Fatalf("response_type = %q, want needs_info", resp.ResponseType)
	}
	if resp.PartialAnswer == "" || resp.InfoRequest == "" {
		t.Fatalf("partial_answer = %q, info_request = %q, want both set", resp.PartialAnswer, resp.InfoRequest)
	}
	if resp.InvestorQuestion != question {
		t.Errorf("investor_question = %q, want %q", resp.InvestorQuestion, question)
	}
	if len(f.chat.calls) != 2 {
		t.Fatalf("chat calls = %d, want 2 (answer + info request)", len(f.chat.calls))
	}

	assistant := f.msgs.lastByRole(types.RoleAssistant)
	wantContent := resp.PartialAnswer + "\n\n---\n" + resp.InfoRequest
	if assistant.Content != wantContent {
		t.Errorf("persisted content = %q, want combined partial answer and request", assistant.Content)
	}
	meta, _ := types.ParseMessageMetadata(assistant.Metadata)
	if meta.Type != types.ResponseNeedsInfo || meta.InvestorQuestion != question {
		t.Errorf("metadata = %+v", meta)
	}
}

func TestAskSuppliedAnswerDraftsEmail(t *testing.T) {
	f := newPipelineFixture(t)
	deal := f.addDeal("SpaceX", "SPX")
	dbc := dbctx.Context{Ctx: context.Background()}

	conversation, err := f.convos.GetOrCreate(dbc, "s1", "u1")
	if err != nil {
		t.Fatalf("seed conversation: %v", err)
	}
	question := "What are the payment dates for SpaceX?"
	dealID := deal.ID
	if _, err := f.msgs.Append(dbc, conversation.ID, types.RoleUser, question, &dealID, nil); err != nil {
		t.Fatalf("seed user message: %v", err)
	}
	pendingMeta := types.MessageMetadata{Type: types.ResponseNeedsInfo, InvestorQuestion: question}
	if _, err := f.msgs.Append(dbc, conversation.ID, types.RoleAssistant,
		"We don't have that yet.\n\n---\nCould you provide the payment dates?", &dealID, pendingMeta.ToJSON()); err != nil {
		t.Fatalf("seed assistant message: %v", err)
	}

	f.chat.replies = []string{"Hi [Investor Name],\n\nThe payment dates are March 1 and Sept 1.\n\nBest,\nODP Team"}

	resp, err := f.p.Ask(context.Background(), "Payment dates are March 1 and Sept 1", "team1", "s1", nil)
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}

	if resp.ResponseType != types.ResponseDraftEmail {
		t.Fatalf("response_type = %q, want draft_email", resp.ResponseType)
	}
	if resp.InvestorQuestion != question {
		t.Errorf("investor_question = %q, want %q", resp.InvestorQuestion, question)
	}
	if resp.DraftEmail == "" {
		t.Error("draft_email is empty")
	}

	// The team answer lands as a full Q&A row plus one decomposed shard.
	if len(f.facts.created) != 2 {
		t.Fatalf("dynamic fact rows = %d, want 2: %+v", len(f.facts.created), f.facts.created)
	}
	full, shard := f.facts.created[0], f.facts.created[1]
	if full.Question != question || full.Answer != "Payment dates are March 1 and Sept 1" {
		t.Errorf("full Q&A row = %+v", full)
	}
	if full.FactKey != "" {
		t.Errorf("full row fact_key = %q, want empty when shards exist", full.FactKey)
	}
	if shard.Question != "What are the payment dates for SpaceX?" || shard.Answer != "March 1" {
		t.Errorf("shard row = %+v", shard)
	}
	if full.ApprovalStatus != types.ApprovalApproved || shard.ApprovalStatus != types.ApprovalApproved {
		t.Error("stored facts must be approved")
	}

	meta, _ := types.ParseMessageMetadata(f.msgs.lastByRole(types.RoleAssistant).Metadata)
	if meta.Type != types.ResponseDraftEmail || meta.Trigger != "user_supplied_answer" {
		t.Errorf("metadata = %+v", meta)
	}
}

func TestAskGreetingPreservesPendingInfoRequest(t *testing.T) {
	f := newPipelineFixture(t)
	deal := f.addDeal("SpaceX", "SPX")
	dbc := dbctx.Context{Ctx: context.Background()}

	conversation, err := f.convos.GetOrCreate(dbc, "s1", "u1")
	if err != nil {
		t.Fatalf("seed conversation: %v", err)
	}
	question := "What are the payment dates for SpaceX?"
	dealID := deal.ID
	pendingMeta := types.MessageMetadata{Type: types.ResponseNeedsInfo, InvestorQuestion: question}
	if _, err := f.msgs.Append(dbc, conversation.ID, types.RoleUser, question, &dealID, nil); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := f.msgs.Append(dbc, conversation.ID, types.RoleAssistant,
		"Could you provide the payment dates?", &dealID, pendingMeta.ToJSON()); err != nil {
		t.Fatalf("seed: %v", err)
	}

	// Greeting turn: no fact write, no draft.
	f.chat.replies = []string{"Hello! Ready when you are."}
	resp, err := f.p.Ask(context.Background(), "Hello", "team1", "s1", nil)
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if resp.ResponseType != types.ResponseAnswer {
		t.Fatalf("response_type = %q, want answer", resp.ResponseType)
	}
	if len(f.facts.created) != 0 || len(f.facts.upserts) != 0 {
		t.Fatal("greeting must not write dynamic facts")
	}

	// The next team message still counts as the supplied answer.
	f.chat.replies = append(f.chat.replies, "Hi [Investor Name],\n\nThe dates are March 1 and Sept 1.\n\nBest,\nODP Team")
	resp, err = f.p.Ask(context.Background(), "Payment dates are March 1 and Sept 1", "team1", "s1", nil)
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if resp.ResponseType != types.ResponseDraftEmail {
		t.Fatalf("response_type = %q, want draft_email after the greeting detour", resp.ResponseType)
	}
	if resp.InvestorQuestion != question {
		t.Errorf("investor_question = %q, want %q", resp.InvestorQuestion, question)
	}
}

func TestAskNewQuestionBypassesPendingInfoRequest(t *testing.T) {
	f := newPipelineFixture(t)
	deal := f.addDeal("SpaceX", "SPX")
	dbc := dbctx.Context{Ctx: context.Background()}

	conversation, err := f.convos.GetOrCreate(dbc, "s1", "u1")
	if err != nil {
		t.Fatalf("seed conversation: %v", err)
	}
	dealID := deal.ID
	pendingMeta := types.MessageMetadata{Type: types.ResponseNeedsInfo, InvestorQuestion: "What are the payment dates for SpaceX?"}
	if _, err := f.msgs.Append(dbc, conversation.ID, types.RoleAssistant,
		"Could you provide the payment dates?", &dealID, pendingMeta.ToJSON()); err != nil {
		t.Fatalf("seed: %v", err)
	}

	f.chat.replies = []string{"The current share price is ~$378 per the latest team update."}
	resp, err := f.p.Ask(context.Background(), "What is the current share price?", "u1", "s1", nil)
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}

	// A fresh question runs the normal pipeline instead of being swallowed
	// as the supplied answer.
	if resp.ResponseType != types.ResponseAnswer {
		t.Fatalf("response_type = %q, want answer", resp.ResponseType)
	}
	if len(f.facts.created) != 0 {
		t.Error("new question must not be stored as a team answer")
	}
}

func TestAskAdoptsDealFromChunkResults(t *testing.T) {
	f := newPipelineFixture(t)
	deal := f.addDeal("SpaceX", "SPX")
	f.chunks.hits = []repos.ChunkHit{
		{ChunkText: "Revenue grew 40% year over year.", DocName: "SpaceX Deck.pdf", Similarity: 0.88, DealID: deal.ID},
	}
	f.chat.replies = []string{"Revenue grew 40% year over year per the deck."}

	resp, err := f.p.Ask(context.Background(), "Tell me about the growth numbers in the deck", "u1", "s1", nil)
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}

	if resp.ResponseType != types.ResponseAnswer {
		t.Fatalf("response_type = %q, want answer", resp.ResponseType)
	}
	if resp.ActiveDealID == nil || *resp.ActiveDealID != deal.ID {
		t.Fatalf("active_deal_id = %v, want adopted %v", resp.ActiveDealID, deal.ID)
	}
	assistant := f.msgs.lastByRole(types.RoleAssistant)
	if assistant.DealID == nil || *assistant.DealID != deal.ID {
		t.Errorf("assistant deal_id = %v, want %v", assistant.DealID, deal.ID)
	}
}

func TestGenerateDraftManual(t *testing.T) {
	f := newPipelineFixture(t)
	deal := f.addDeal("SpaceX", "SPX")
	dbc := dbctx.Context{Ctx: context.Background()}

	conversation, err := f.convos.GetOrCreate(dbc, "s1", "u1")
	if err != nil {
		t.Fatalf("seed conversation: %v", err)
	}
	question := "What is the lock-up period for SpaceX?"
	dealID := deal.ID
	if _, err := f.msgs.Append(dbc, conversation.ID, types.RoleUser, question, &dealID, nil); err != nil {
		t.Fatalf("seed user message: %v", err)
	}

	f.chat.replies = []string{"Hi [Investor Name],\n\nThe lock-up is 12 months.\n\nBest,\nODP Team"}

	resp, err := f.p.GenerateDraft(context.Background(), "s1", "u1")
	if err != nil {
		t.Fatalf("GenerateDraft: %v", err)
	}
	if resp.ResponseType != types.ResponseDraftEmail || resp.DraftEmail == "" {
		t.Fatalf("resp = %+v, want draft_email", resp)
	}
	if resp.InvestorQuestion != question {
		t.Errorf("investor_question = %q, want %q", resp.InvestorQuestion, question)
	}

	meta, _ := types.ParseMessageMetadata(f.msgs.lastByRole(types.RoleAssistant).Metadata)
	if meta.Trigger != "generate_draft_button" {
		t.Errorf("metadata trigger = %q, want generate_draft_button", meta.Trigger)
	}
}

func TestGenerateDraftMissingConversation(t *testing.T) {
	f := newPipelineFixture(t)

	_, err := f.p.GenerateDraft(context.Background(), "unknown-session", "u1")
	var apiErr *apierr.Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *apierr.Error", err)
	}
	if apiErr.Status != 404 || apiErr.Code != apierr.CodeNoConversation {
		t.Errorf("err = %d %s, want 404 %s", apiErr.Status, apiErr.Code, apierr.CodeNoConversation)
	}
}

func TestGenerateDraftNoQuestionInConversation(t *testing.T) {
	f := newPipelineFixture(t)
	dbc := dbctx.Context{Ctx: context.Background()}
	if _, err := f.convos.GetOrCreate(dbc, "s1", "u1"); err != nil {
		t.Fatalf("seed conversation: %v", err)
	}

	_, err := f.p.GenerateDraft(context.Background(), "s1", "u1")
	var apiErr *apierr.Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *apierr.Error", err)
	}
	if apiErr.Status != 400 || apiErr.Code != apierr.CodeNoQuestion {
		t.Errorf("err = %d %s, want 400 %s", apiErr.Status, apiErr.Code, apierr.CodeNoQuestion)
	}
}

func TestAskUserMessagePersistedBeforeResponse(t *testing.T) {
	f := newPipelineFixture(t)
	f.chat.replies = []string{"Hello! How can we help?"}

	if _, err := f.p.Ask(context.Background(), "Hello", "u1", "s1", nil); err != nil {
		t.Fatalf("Ask: %v", err)
	}
	user := f.msgs.lastByRole(types.RoleUser)
	if user == nil || user.Content != "Hello" {
		t.Fatalf("user message not persisted: %+v", user)
	}
	if user.ConversationID == uuid.Nil {
		t.Error("user message has no conversation id")
	}
	if f.msgs.rows[0].Role != types.RoleUser {
		t.Errorf("first persisted row role = %q, want user", f.msgs.rows[0].Role)
	}
}
