package repos

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/opendoorspartners/odp-backend/internal/platform/dbctx"
	"github.com/opendoorspartners/odp-backend/internal/platform/logger"
	"github.com/opendoorspartners/odp-backend/internal/types"
)

type DocumentRepo interface {
	// ListNames returns document names for the deal, or for all deals when
	// dealID is nil. Used by the clarifier to tell the user what exists.
	ListNames(dbc dbctx.Context, dealID *uuid.UUID) ([]string, error)
}

type documentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDocumentRepo(db *gorm.DB, log *logger.Logger) DocumentRepo {
	return &documentRepo{db: db, log: log.With("repo", "DocumentRepo")}
}

func (r *documentRepo) ListNames(dbc dbctx.Context, dealID *uuid.UUID) ([]string, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	q := txx.WithContext(dbc.Ctx).Model(&types.DealDocument{})
	if dealID != nil && *dealID != uuid.Nil {
		q = q.Where("deal_id = ?", *dealID)
	}
	var names []string
	if err := q.Order("name ASC").Pluck("name", &names).Error; err != nil {
		return nil, err
	}
	return names, nil
}
