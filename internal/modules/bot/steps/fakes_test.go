package steps

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/opendoorspartners/odp-backend/internal/data/repos"
	"github.com/opendoorspartners/odp-backend/internal/platform/dbctx"
	"github.com/opendoorspartners/odp-backend/internal/platform/llm"
	"github.com/opendoorspartners/odp-backend/internal/platform/logger"
	"github.com/opendoorspartners/odp-backend/internal/types"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("dev")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

// fakeChat replays scripted replies in order and records every call.
type fakeChat struct {
	replies []string
	err     error
	calls   [][]llm.Message
	temps   []float64
}

func (c *fakeChat) Chat(_ context.Context, messages []llm.Message, temperature float64, _ int) (string, error) {
	c.calls = append(c.calls, messages)
	c.temps = append(c.temps, temperature)
	if c.err != nil {
		return "", c.err
	}
	if len(c.calls) > len(c.replies) {
		return "", fmt.Errorf("unscripted chat call %d", len(c.calls))
	}
	return c.replies[len(c.calls)-1], nil
}

type fakeEmbedder struct {
	err   error
	calls []string
}

func (e *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	e.calls = append(e.calls, text)
	if e.err != nil {
		return nil, e.err
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

func (e *fakeEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	if e.err != nil {
		return nil, e.err
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		e.calls = append(e.calls, text)
		out[i] = []float32{0.1, 0.2, 0.3}
	}
	return out, nil
}

type fakeConversationRepo struct {
	bySession map[string]*types.Conversation
}

func (r *fakeConversationRepo) GetOrCreate(_ dbctx.Context, sessionID, userID string) (*types.Conversation, error) {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	if c, ok := r.bySession[sessionID]; ok {
		return c, nil
	}
	c := &types.Conversation{ID: uuid.New(), SessionID: sessionID, UserID: userID}
	r.bySession[sessionID] = c
	return c, nil
}

func (r *fakeConversationRepo) GetBySessionID(_ dbctx.Context, sessionID string) (*types.Conversation, error) {
	return r.bySession[sessionID], nil
}

func (r *fakeConversationRepo) ListByUser(_ dbctx.Context, userID string, _ int) ([]*types.Conversation, error) {
	var out []*types.Conversation
	for _, c := range r.bySession {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeConversationRepo) Delete(_ dbctx.Context, _ uuid.UUID) error { return nil }

type fakeMessageRepo struct {
	rows []*types.ConversationMessage
}

func (r *fakeMessageRepo) Append(_ dbctx.Context, conversationID uuid.UUID, role, content string, dealID *uuid.UUID, metadata datatypes.JSON) (*types.ConversationMessage, error) {
	msg := &types.ConversationMessage{
		ID:             uuid.New(),
		ConversationID: conversationID,
		Role:           role,
		Content:        content,
		DealID:         dealID,
		Metadata:       metadata,
		CreatedAt:      time.Now(),
	}
	r.rows = append(r.rows, msg)
	return msg, nil
}

func (r *fakeMessageRepo) History(_ dbctx.Context, conversationID uuid.UUID, limit int) ([]*types.ConversationMessage, error) {
	var out []*types.ConversationMessage
	for _, msg := range r.rows {
		if msg.ConversationID == conversationID {
			out = append(out, msg)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func (r *fakeMessageRepo) LastAssistant(_ dbctx.Context, conversationID uuid.UUID) (*types.ConversationMessage, error) {
	for i := len(r.rows) - 1; i >= 0; i-- {
		if r.rows[i].ConversationID == conversationID && r.rows[i].Role == types.RoleAssistant {
			return r.rows[i], nil
		}
	}
	return nil, nil
}

func (r *fakeMessageRepo) CountByConversation(_ dbctx.Context, conversationID uuid.UUID) (int64, error) {
	var n int64
	for _, msg := range r.rows {
		if msg.ConversationID == conversationID {
			n++
		}
	}
	return n, nil
}

// lastByRole returns the newest persisted message with the given role.
func (r *fakeMessageRepo) lastByRole(role string) *types.ConversationMessage {
	for i := len(r.rows) - 1; i >= 0; i-- {
		if r.rows[i].Role == role {
			return r.rows[i]
		}
	}
	return nil
}

type fakeDocumentRepo struct {
	names []string
}

func (r *fakeDocumentRepo) ListNames(_ dbctx.Context, _ *uuid.UUID) ([]string, error) {
	return r.names, nil
}

type fakeChunkRepo struct {
	hits []repos.ChunkHit
}

func (r *fakeChunkRepo) SearchSimilar(_ dbctx.Context, _ []float32, _ *uuid.UUID, _ int, _ float64) []repos.ChunkHit {
	return r.hits
}

type upsertCall struct {
	dealID     uuid.UUID
	factKey    string
	factValue  string
	by         string
	sourceNote string
}

type fakeFactRepo struct {
	qaHits  []repos.QAHit
	kvFacts []*types.DealDynamicFact
	created []*types.DealDynamicFact
	upserts []upsertCall
}

func (r *fakeFactRepo) SearchQA(_ dbctx.Context, _ []float32, _ *uuid.UUID, _ int, _ float64) []repos.QAHit {
	return r.qaHits
}

func (r *fakeFactRepo) ListApprovedKV(_ dbctx.Context, _ uuid.UUID) ([]*types.DealDynamicFact, error) {
	return r.kvFacts, nil
}

func (r *fakeFactRepo) Create(_ dbctx.Context, rows []*types.DealDynamicFact) error {
	r.created = append(r.created, rows...)
	return nil
}

func (r *fakeFactRepo) UpsertByKey(_ dbctx.Context, dealID uuid.UUID, factKey, factValue, by, sourceNote string) (string, error) {
	r.upserts = append(r.upserts, upsertCall{dealID: dealID, factKey: factKey, factValue: factValue, by: by, sourceNote: sourceNote})
	return repos.UpsertCreated, nil
}

type fakeDealRepo struct {
	deals []*types.Deal
	terms map[uuid.UUID]*types.DealTerm
}

func (r *fakeDealRepo) ListActive(_ dbctx.Context) ([]*types.Deal, error) {
	return r.deals, nil
}

func (r *fakeDealRepo) GetByID(_ dbctx.Context, id uuid.UUID) (*types.Deal, error) {
	for _, deal := range r.deals {
		if deal.ID == id {
			return deal, nil
		}
	}
	return nil, fmt.Errorf("deal not found")
}

func (r *fakeDealRepo) GetTerm(_ dbctx.Context, dealID uuid.UUID) (*types.DealTerm, error) {
	return r.terms[dealID], nil
}

type fakeToneRepo struct {
	globals []*types.ToneRule
	byDeal  map[uuid.UUID][]*types.ToneRule
}

func (r *fakeToneRepo) ListActiveGlobal(_ dbctx.Context) ([]*types.ToneRule, error) {
	return r.globals, nil
}

func (r *fakeToneRepo) ListActiveForDeal(_ dbctx.Context, dealID uuid.UUID) ([]*types.ToneRule, error) {
	return r.byDeal[dealID], nil
}

// pipelineFixture wires a Pipeline over in-memory fakes.
type pipelineFixture struct {
	chat   *fakeChat
	emb    *fakeEmbedder
	convos *fakeConversationRepo
	msgs   *fakeMessageRepo
	docs   *fakeDocumentRepo
	chunks *fakeChunkRepo
	facts  *fakeFactRepo
	deals  *fakeDealRepo
	tones  *fakeToneRepo
	p      *Pipeline
}

func newPipelineFixture(t *testing.T) *pipelineFixture {
	t.Helper()
	log := testLogger(t)

	f := &pipelineFixture{
		chat:   &fakeChat{},
		emb:    &fakeEmbedder{},
		convos: &fakeConversationRepo{bySession: map[string]*types.Conversation{}},
		msgs:   &fakeMessageRepo{},
		docs:   &fakeDocumentRepo{},
		chunks: &fakeChunkRepo{},
		facts:  &fakeFactRepo{},
		deals:  &fakeDealRepo{terms: map[uuid.UUID]*types.DealTerm{}},
		tones:  &fakeToneRepo{byDeal: map[uuid.UUID][]*types.ToneRule{}},
	}

	dealCtx := NewDealContext(f.deals, f.tones, f.facts, nil, log)
	f.p = NewPipeline(
		f.convos, f.msgs, f.docs, f.chunks,
		dealCtx,
		NewDynamicKB(f.facts, f.emb, log),
		NewRewriter(f.chat, log),
		NewClarifier(f.chat, log),
		NewGenerator(f.chat, log),
		NewFactExtractor(f.chat, f.facts, log),
		f.emb, log,
	)
	return f
}

func (f *pipelineFixture) addDeal(name, code string) *types.Deal {
	deal := &types.Deal{ID: uuid.New(), Name: name, Code: code, Status: true}
	f.deals.deals = append(f.deals.deals, deal)
	return deal
}
