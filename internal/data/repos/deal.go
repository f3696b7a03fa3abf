package repos

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/opendoorspartners/odp-backend/internal/platform/dbctx"
	"github.com/opendoorspartners/odp-backend/internal/platform/logger"
	"github.com/opendoorspartners/odp-backend/internal/types"
)

type DealRepo interface {
	ListActive(dbc dbctx.Context) ([]*types.Deal, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Deal, error)
	GetTerm(dbc dbctx.Context, dealID uuid.UUID) (*types.DealTerm, error)
}

type dealRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDealRepo(db *gorm.DB, log *logger.Logger) DealRepo {
	return &dealRepo{db: db, log: log.With("repo", "DealRepo")}
}

func (r *dealRepo) ListActive(dbc dbctx.Context) ([]*types.Deal, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out []*types.Deal
	if err := txx.WithContext(dbc.Ctx).
		Model(&types.Deal{}).
		Where("status = ?", true).
		Order("name ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *dealRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Deal, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("missing id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out types.Deal
	if err := txx.WithContext(dbc.Ctx).
		Where("id = ?", id).
		Take(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *dealRepo) GetTerm(dbc dbctx.Context, dealID uuid.UUID) (*types.DealTerm, error) {
	if dealID == uuid.Nil {
		return nil, fmt.Errorf("missing deal_id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out types.DealTerm
	err := txx.WithContext(dbc.Ctx).
		Where("deal_id = ?", dealID).
		Take(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}
