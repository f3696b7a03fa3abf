package steps

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/opendoorspartners/odp-backend/internal/data/repos"
	"github.com/opendoorspartners/odp-backend/internal/modules/bot/config"
	"github.com/opendoorspartners/odp-backend/internal/platform/cache"
	"github.com/opendoorspartners/odp-backend/internal/platform/dbctx"
	"github.com/opendoorspartners/odp-backend/internal/platform/logger"
	"github.com/opendoorspartners/odp-backend/internal/types"
)

const (
	cacheKeyActiveDeals = "odp:deals:active"
	cacheKeyToneGlobal  = "odp:tone:global"
	cacheKeyTonePrefix  = "odp:tone:deal:"
)

// DealContext loads deal registry data: active deals for detection, tone
// rules, and the structured deal block injected into prompts. Nothing here
// hardcodes a deal name or number; everything comes from the database.
type DealContext struct {
	deals repos.DealRepo
	tones repos.ToneRuleRepo
	facts repos.DynamicFactRepo
	cache *cache.Cache
	log   *logger.Logger
}

func NewDealContext(deals repos.DealRepo, tones repos.ToneRuleRepo, facts repos.DynamicFactRepo, c *cache.Cache, log *logger.Logger) *DealContext {
	return &DealContext{
		deals: deals,
		tones: tones,
		facts: facts,
		cache: c,
		log:   log.With("service", "DealContext"),
	}
}

// ListActiveDeals returns all active deals, serving from cache when warm.
// Empty slice on error so a registry failure never aborts the request.
func (s *DealContext) ListActiveDeals(dbc dbctx.Context) []*types.Deal {
	if raw, ok := s.cache.Get(dbc.Ctx, cacheKeyActiveDeals); ok {
		var cached []*types.Deal
		if err := json.Unmarshal([]byte(raw), &cached); err == nil {
			return cached
		}
	}
	deals, err := s.deals.ListActive(dbc)
	if err != nil {
		s.log.Warn("failed to load active deals", "error", err)
		return []*types.Deal{}
	}
	if encoded, err := json.Marshal(deals); err == nil {
		s.cache.Set(dbc.Ctx, cacheKeyActiveDeals, string(encoded))
	}
	return deals
}

// DetectDeal finds the first deal whose name or code appears in text.
// Catches deal switches when the user names a different deal mid-session.
func (s *DealContext) DetectDeal(text string, deals []*types.Deal) *uuid.UUID {
	lower := strings.ToLower(text)
	for _, deal := range deals {
		if strings.Contains(lower, strings.ToLower(deal.Name)) ||
			strings.Contains(lower, strings.ToLower(deal.Code)) {
			s.log.Debug("deal detected in text", "deal", deal.Name)
			id := deal.ID
			return &id
		}
	}
	return nil
}

func DealNames(deals []*types.Deal) []string {
	names := make([]string, 0, len(deals))
	for _, deal := range deals {
		names = append(names, deal.Name)
	}
	return names
}

// BuildDealContext assembles the structured deal block for the prompt:
// the ACTIVE DEAL line, deal terms from the deck, and approved key-value
// facts with their as-of dates. Empty string when the deal is unknown.
func (s *DealContext) BuildDealContext(dbc dbctx.Context, dealID uuid.UUID) string {
	deal, err := s.deals.GetByID(dbc, dealID)
	if err != nil {
		s.log.Warn("failed to load deal", "error", err)
		return ""
	}

	var parts []string
	parts = append(parts, fmt.Sprintf("ACTIVE DEAL: %s (code: %s)", deal.Name, deal.Code))
	parts = append(parts, "")

	if term, err := s.deals.GetTerm(dbc, dealID); err == nil && term != nil {
		parts = append(parts, "── DEAL TERMS ──")
		if term.SecurityType != "" {
			parts = append(parts, "Security Type: "+term.SecurityType)
		}
		if term.Valuation != "" {
			parts = append(parts, "Valuation: "+term.Valuation)
		}
		if term.RoundType != "" {
			parts = append(parts, "Round Type: "+term.RoundType)
		}
		if term.StructureSummary != "" {
			parts = append(parts, "Structure: "+term.StructureSummary)
		}
		if term.FeeSummary != "" {
			parts = append(parts, "Fees: "+term.FeeSummary)
		}
		parts = append(parts, "")
	}

	kvFacts, err := s.facts.ListApprovedKV(dbc, dealID)
	if err != nil {
		s.log.Warn("failed to load key-value facts", "error", err)
		kvFacts = nil
	}
	if len(kvFacts) > 0 {
		parts = append(parts, "── CURRENT DEAL FACTS ──")
		for _, fact := range kvFacts {
			value := fact.FactValue
			if fact.AsOfDate != nil {
				value += fmt.Sprintf(" (as of %s)", fact.AsOfDate.Format("2006-01-02"))
			}
			parts = append(parts, fmt.Sprintf("%s: %s", titleCase(fact.FactKey), value))
		}
		parts = append(parts, "")
	}

	return strings.Join(parts, "\n")
}

// ToneRules renders active tone and compliance rules as "- [TYPE] text"
// lines: globals first (priority desc), then deal-scoped. Falls back to the
// minimal default when the table is empty or unreadable.
func (s *DealContext) ToneRules(dbc dbctx.Context, dealID *uuid.UUID) string {
	cacheKey := cacheKeyToneGlobal
	if dealID != nil {
		cacheKey = cacheKeyTonePrefix + dealID.String()
	}
	if cached, ok := s.cache.Get(dbc.Ctx, cacheKey); ok {
		return cached
	}

	globals, err := s.tones.ListActiveGlobal(dbc)
	if err != nil {
		s.log.Warn("failed to load global tone rules", "error", err)
		return config.DefaultToneRules
	}
	rules := globals
	if dealID != nil {
		dealRules, err := s.tones.ListActiveForDeal(dbc, *dealID)
		if err != nil {
			s.log.Warn("failed to load deal tone rules", "error", err)
		} else {
			rules = append(rules, dealRules...)
		}
	}

	if len(rules) == 0 {
		return config.DefaultToneRules
	}
	lines := make([]string, 0, len(rules))
	for _, rule := range rules {
		lines = append(lines, fmt.Sprintf("- [%s] %s", strings.ToUpper(rule.RuleType), rule.RuleText))
	}
	rendered := strings.Join(lines, "\n")
	s.cache.Set(dbc.Ctx, cacheKey, rendered)
	return rendered
}

func titleCase(snakeKey string) string {
	words := strings.Split(strings.ReplaceAll(snakeKey, "_", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
