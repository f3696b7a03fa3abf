package steps

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/opendoorspartners/odp-backend/internal/data/repos"
	"github.com/opendoorspartners/odp-backend/internal/modules/bot/config"
	"github.com/opendoorspartners/odp-backend/internal/platform/dbctx"
	"github.com/opendoorspartners/odp-backend/internal/types"
)

func TestDynamicKBSearch(t *testing.T) {
	facts := &fakeFactRepo{
		qaHits: []repos.QAHit{
			{Question: "What is the minimum ticket?", Answer: "$25K", Similarity: 0.9},
		},
		kvFacts: []*types.DealDynamicFact{
			{FactKey: "share_price", FactValue: "~$378"},
		},
	}
	kb := NewDynamicKB(facts, &fakeEmbedder{}, testLogger(t))

	dealID := uuid.New()
	got := kb.Search(dbctx.Context{Ctx: context.Background()}, "minimum ticket?", &dealID, 5, 0.5)

	if !strings.HasPrefix(got, config.DynamicKBHeader+"\n\n") {
		t.Fatalf("team-facts header missing:\n%s", got)
	}
	if !strings.Contains(got, "Q: What is the minimum ticket?\nA: $25K") {
		t.Errorf("Q&A block missing:\n%s", got)
	}
	if !strings.Contains(got, "Share Price: ~$378") {
		t.Errorf("key-value block missing:\n%s", got)
	}
}

func TestDynamicKBSearchEmpty(t *testing.T) {
	kb := NewDynamicKB(&fakeFactRepo{}, &fakeEmbedder{}, testLogger(t))
	if got := kb.Search(dbctx.Context{Ctx: context.Background()}, "anything", nil, 5, 0.5); got != "" {
		t.Fatalf("got %q, want empty when nothing matches", got)
	}
}

func TestStoreWithDecompositionFallbackKey(t *testing.T) {
	facts := &fakeFactRepo{}
	kb := NewDynamicKB(facts, &fakeEmbedder{}, testLogger(t))

	// The answer yields no atomic facts, so the Q&A row also carries a
	// key-value fallback derived from the question.
	err := kb.StoreWithDecomposition(dbctx.Context{Ctx: context.Background()},
		uuid.New(), "SpaceX",
		"Do you have dropbox folder access?",
		"Yes, ask ops for the shared link",
		"team1")
	if err != nil {
		t.Fatalf("StoreWithDecomposition: %v", err)
	}

	if len(facts.created) != 1 {
		t.Fatalf("rows = %d, want 1: %+v", len(facts.created), facts.created)
	}
	row := facts.created[0]
	if row.Question != "Do you have dropbox folder access?" || row.Answer != "Yes, ask ops for the shared link" {
		t.Errorf("row = %+v", row)
	}
	if row.FactKey != "dropbox_folder_access" || row.FactValue != "Yes, ask ops for the shared link" {
		t.Errorf("fallback key-value wrong: key=%q value=%q", row.FactKey, row.FactValue)
	}
	if row.ApprovalStatus != types.ApprovalApproved {
		t.Errorf("approval_status = %q", row.ApprovalStatus)
	}
}

func TestStoreQA(t *testing.T) {
	facts := &fakeFactRepo{}
	emb := &fakeEmbedder{}
	kb := NewDynamicKB(facts, emb, testLogger(t))

	dealID := uuid.New()
	if err := kb.StoreQA(dbctx.Context{Ctx: context.Background()}, dealID, "What is the carry?", "20%", "team1"); err != nil {
		t.Fatalf("StoreQA: %v", err)
	}
	if len(facts.created) != 1 {
		t.Fatalf("rows = %d, want 1", len(facts.created))
	}
	if facts.created[0].DealID != dealID || facts.created[0].CreatedBy != "team1" {
		t.Errorf("row = %+v", facts.created[0])
	}
	// Question and answer are embedded together.
	if len(emb.calls) != 1 || emb.calls[0] != "What is the carry? 20%" {
		t.Errorf("embed calls = %v", emb.calls)
	}
}
