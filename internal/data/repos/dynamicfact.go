package repos

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	"github.com/opendoorspartners/odp-backend/internal/platform/dbctx"
	"github.com/opendoorspartners/odp-backend/internal/platform/logger"
	"github.com/opendoorspartners/odp-backend/internal/types"
)

// QAHit is one dynamic KB similarity result.
type QAHit struct {
	Question   string  `gorm:"column:question"`
	Answer     string  `gorm:"column:answer"`
	Similarity float64 `gorm:"column:similarity"`
}

const (
	UpsertCreated = "created"
	UpsertUpdated = "updated"
)

type DynamicFactRepo interface {
	SearchQA(dbc dbctx.Context, embedding []float32, dealID *uuid.UUID, topK int, threshold float64) []QAHit
	ListApprovedKV(dbc dbctx.Context, dealID uuid.UUID) ([]*types.DealDynamicFact, error)
	Create(dbc dbctx.Context, rows []*types.DealDynamicFact) error
	UpsertByKey(dbc dbctx.Context, dealID uuid.UUID, factKey, factValue, by, sourceNote string) (string, error)
}

type dynamicFactRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDynamicFactRepo(db *gorm.DB, log *logger.Logger) DynamicFactRepo {
	return &dynamicFactRepo{db: db, log: log.With("repo", "DynamicFactRepo")}
}

// SearchQA runs cosine similarity over approved Q&A rows. Only rows with an
// embedding participate. Empty slice on any error.
func (r *dynamicFactRepo) SearchQA(dbc dbctx.Context, embedding []float32, dealID *uuid.UUID, topK int, threshold float64) []QAHit {
	if len(embedding) == 0 {
		return []QAHit{}
	}
	if topK <= 0 {
		topK = 5
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	vec := pgvector.NewVector(embedding)

	var rows []QAHit
	var err error
	if dealID != nil && *dealID != uuid.Nil {
		err = txx.WithContext(dbc.Ctx).Raw(`
			SELECT
				question,
				answer,
				1 - (embedding <=> ?) AS similarity
			FROM odp_deal_dynamic_fact
			WHERE deal_id = ?
			  AND approval_status = ?
			  AND embedding IS NOT NULL
			  AND question <> ''
			  AND answer <> ''
			  AND (1 - (embedding <=> ?)) >= ?
			ORDER BY embedding <=> ?
			LIMIT ?`,
			vec, *dealID, types.ApprovalApproved, vec, threshold, vec, topK,
		).Scan(&rows).Error
	} else {
		err = txx.WithContext(dbc.Ctx).Raw(`
			SELECT
				question,
				answer,
				1 - (embedding <=> ?) AS similarity
			FROM odp_deal_dynamic_fact
			WHERE approval_status = ?
			  AND embedding IS NOT NULL
			  AND question <> ''
			  AND answer <> ''
			  AND (1 - (embedding <=> ?)) >= ?
			ORDER BY embedding <=> ?
			LIMIT ?`,
			vec, types.ApprovalApproved, vec, threshold, vec, topK,
		).Scan(&rows).Error
	}
	if err != nil {
		r.log.Warn("dynamic fact similarity search failed", "error", err)
		return []QAHit{}
	}
	if rows == nil {
		rows = []QAHit{}
	}
	return rows
}

// ListApprovedKV returns approved key-value facts for a deal ordered by
// fact_key.
func (r *dynamicFactRepo) ListApprovedKV(dbc dbctx.Context, dealID uuid.UUID) ([]*types.DealDynamicFact, error) {
	if dealID == uuid.Nil {
		return []*types.DealDynamicFact{}, nil
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out []*types.DealDynamicFact
	if err := txx.WithContext(dbc.Ctx).
		Model(&types.DealDynamicFact{}).
		Where("deal_id = ? AND approval_status = ? AND fact_key <> '' AND fact_value <> ''",
			dealID, types.ApprovalApproved).
		Order("fact_key ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *dynamicFactRepo) Create(dbc dbctx.Context, rows []*types.DealDynamicFact) error {
	if len(rows) == 0 {
		return nil
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	return txx.WithContext(dbc.Ctx).Create(&rows).Error
}

// UpsertByKey inserts or updates the (deal_id, fact_key) row. Updates refresh
// the value, re-approve the row, and stamp the audit fields.
func (r *dynamicFactRepo) UpsertByKey(dbc dbctx.Context, dealID uuid.UUID, factKey, factValue, by, sourceNote string) (string, error) {
	if dealID == uuid.Nil {
		return "", fmt.Errorf("missing deal_id")
	}
	if factKey == "" || factValue == "" {
		return "", fmt.Errorf("missing fact_key or fact_value")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	now := time.Now().UTC()

	var existing types.DealDynamicFact
	err := txx.WithContext(dbc.Ctx).
		Where("deal_id = ? AND fact_key = ?", dealID, factKey).
		Take(&existing).Error
	if err == nil {
		updates := map[string]interface{}{
			"fact_value":      factValue,
			"approval_status": types.ApprovalApproved,
			"approved_by":     by,
			"approved_at":     now,
			"as_of_date":      now,
			"source_note":     sourceNote,
		}
		if uerr := txx.WithContext(dbc.Ctx).
			Model(&types.DealDynamicFact{}).
			Where("id = ?", existing.ID).
			Updates(updates).Error; uerr != nil {
			return "", uerr
		}
		return UpsertUpdated, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	row := &types.DealDynamicFact{
		DealID:         dealID,
		FactKey:        factKey,
		FactValue:      factValue,
		ApprovalStatus: types.ApprovalApproved,
		CreatedBy:      by,
		ApprovedBy:     by,
		ApprovedAt:     &now,
		AsOfDate:       &now,
		SourceNote:     sourceNote,
	}
	if cerr := txx.WithContext(dbc.Ctx).Create(row).Error; cerr != nil {
		return "", cerr
	}
	return UpsertCreated, nil
}
