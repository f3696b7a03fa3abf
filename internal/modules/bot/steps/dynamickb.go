package steps

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"

	"github.com/opendoorspartners/odp-backend/internal/data/repos"
	"github.com/opendoorspartners/odp-backend/internal/modules/bot/config"
	"github.com/opendoorspartners/odp-backend/internal/platform/dbctx"
	"github.com/opendoorspartners/odp-backend/internal/platform/llm"
	"github.com/opendoorspartners/odp-backend/internal/platform/logger"
	"github.com/opendoorspartners/odp-backend/internal/types"
)

// DynamicKB is the team-supplied facts tier. It is searched before the
// document tier and its block is placed above document passages in every
// prompt so team corrections override document values.
type DynamicKB struct {
	facts    repos.DynamicFactRepo
	embedder llm.EmbeddingClient
	log      *logger.Logger
}

func NewDynamicKB(facts repos.DynamicFactRepo, embedder llm.EmbeddingClient, log *logger.Logger) *DynamicKB {
	return &DynamicKB{
		facts:    facts,
		embedder: embedder,
		log:      log.With("service", "DynamicKB"),
	}
}

// Search runs both passes over the dynamic facts table: vector similarity
// over Q&A rows, then key-value rows for the deal. The combined block is
// prefixed with the team-facts header the answer prompt keys on. Empty
// string when nothing matches or on any error.
func (s *DynamicKB) Search(dbc dbctx.Context, question string, dealID *uuid.UUID, topK int, threshold float64) string {
	embedding, err := s.embedder.Embed(dbc.Ctx, question)
	if err != nil {
		s.log.Warn("dynamic KB embedding failed", "error", err)
		return ""
	}

	var parts []string
	for _, hit := range s.facts.SearchQA(dbc, embedding, dealID, topK, threshold) {
		parts = append(parts, fmt.Sprintf("Q: %s\nA: %s", hit.Question, hit.Answer))
	}

	if dealID != nil && *dealID != uuid.Nil {
		kvFacts, err := s.facts.ListApprovedKV(dbc, *dealID)
		if err != nil {
			s.log.Warn("dynamic KB key-value lookup failed", "error", err)
		}
		for _, fact := range kvFacts {
			parts = append(parts, fmt.Sprintf("%s: %s", titleCase(fact.FactKey), fact.FactValue))
		}
	}

	if len(parts) == 0 {
		return ""
	}
	return config.DynamicKBHeader + "\n\n" + strings.Join(parts, "\n\n")
}

// StoreQA persists one approved Q&A row. The embedding covers question and
// answer together for richer matching.
func (s *DynamicKB) StoreQA(dbc dbctx.Context, dealID uuid.UUID, question, answer, by string) error {
	embedding, err := s.embedder.Embed(dbc.Ctx, question+" "+answer)
	if err != nil {
		return err
	}
	row := &types.DealDynamicFact{
		DealID:         dealID,
		Question:       question,
		Answer:         answer,
		Embedding:      pgvector.NewVector(embedding),
		ApprovalStatus: types.ApprovalApproved,
		CreatedBy:      by,
	}
	return s.facts.Create(dbc, []*types.DealDynamicFact{row})
}

// StoreWithDecomposition persists a team answer three ways: the full Q&A
// pair, one narrowly embedded row per atomic fact extracted from the answer,
// and when decomposition yields nothing, a single key-value fallback row.
// Future single-fact queries then match the focused shards precisely instead
// of the diluted multi-part embedding.
func (s *DynamicKB) StoreWithDecomposition(dbc dbctx.Context, dealID uuid.UUID, dealName, investorQuestion, userAnswer, by string) error {
	atomic := ExtractAtomicFacts(investorQuestion, userAnswer, dealName)

	texts := make([]string, 0, len(atomic)+1)
	texts = append(texts, investorQuestion+" "+userAnswer)
	for _, fact := range atomic {
		texts = append(texts, fact.Question+" "+fact.Value)
	}
	embeddings, err := s.embedder.EmbedBatch(dbc.Ctx, texts)
	if err != nil {
		return err
	}
	if len(embeddings) != len(texts) {
		return fmt.Errorf("embedding count mismatch: got %d want %d", len(embeddings), len(texts))
	}

	rows := make([]*types.DealDynamicFact, 0, len(atomic)+1)
	rows = append(rows, &types.DealDynamicFact{
		DealID:         dealID,
		Question:       investorQuestion,
		Answer:         userAnswer,
		Embedding:      pgvector.NewVector(embeddings[0]),
		ApprovalStatus: types.ApprovalApproved,
		CreatedBy:      by,
	})
	for i, fact := range atomic {
		rows = append(rows, &types.DealDynamicFact{
			DealID:         dealID,
			Question:       fact.Question,
			Answer:         fact.Value,
			Embedding:      pgvector.NewVector(embeddings[i+1]),
			ApprovalStatus: types.ApprovalApproved,
			CreatedBy:      by,
		})
	}

	if len(atomic) == 0 {
		if key := DeriveFactKey(investorQuestion); key != "" {
			rows[0].FactKey = key
			rows[0].FactValue = userAnswer
		}
	}

	if err := s.facts.Create(dbc, rows); err != nil {
		return err
	}
	s.log.Info("stored team answer",
		"deal_id", dealID, "atomic_facts", len(atomic))
	return nil
}
