package repos

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/opendoorspartners/odp-backend/internal/platform/dbctx"
	"github.com/opendoorspartners/odp-backend/internal/platform/logger"
	"github.com/opendoorspartners/odp-backend/internal/types"
)

type ToneRuleRepo interface {
	ListActiveGlobal(dbc dbctx.Context) ([]*types.ToneRule, error)
	ListActiveForDeal(dbc dbctx.Context, dealID uuid.UUID) ([]*types.ToneRule, error)
}

type toneRuleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewToneRuleRepo(db *gorm.DB, log *logger.Logger) ToneRuleRepo {
	return &toneRuleRepo{db: db, log: log.With("repo", "ToneRuleRepo")}
}

func (r *toneRuleRepo) ListActiveGlobal(dbc dbctx.Context) ([]*types.ToneRule, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out []*types.ToneRule
	if err := txx.WithContext(dbc.Ctx).
		Model(&types.ToneRule{}).
		Where("is_active = ? AND scope = ?", true, types.ToneScopeGlobal).
		Order("priority DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *toneRuleRepo) ListActiveForDeal(dbc dbctx.Context, dealID uuid.UUID) ([]*types.ToneRule, error) {
	if dealID == uuid.Nil {
		return []*types.ToneRule{}, nil
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out []*types.ToneRule
	if err := txx.WithContext(dbc.Ctx).
		Model(&types.ToneRule{}).
		Where("is_active = ? AND scope = ? AND deal_id = ?", true, types.ToneScopeDeal, dealID).
		Order("priority DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
