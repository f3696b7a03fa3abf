package repos

import (
	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	"github.com/opendoorspartners/odp-backend/internal/platform/dbctx"
	"github.com/opendoorspartners/odp-backend/internal/platform/logger"
)

// ChunkHit is one static KB search result.
type ChunkHit struct {
	ChunkText  string    `gorm:"column:chunk_text"`
	DocName    string    `gorm:"column:doc_name"`
	Similarity float64   `gorm:"column:similarity"`
	ChunkID    uuid.UUID `gorm:"column:chunk_id"`
	ChunkIndex int       `gorm:"column:chunk_index"`
	PageNumber *int      `gorm:"column:page_number"`
	DealID     uuid.UUID `gorm:"column:deal_id"`
}

type ChunkRepo interface {
	SearchSimilar(dbc dbctx.Context, embedding []float32, dealID *uuid.UUID, topK int, threshold float64) []ChunkHit
}

type chunkRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewChunkRepo(db *gorm.DB, log *logger.Logger) ChunkRepo {
	return &chunkRepo{db: db, log: log.With("repo", "ChunkRepo")}
}

// SearchSimilar runs a cosine similarity search over document chunks.
// dealID nil searches every deal. Returns an empty slice on any error so a
// failed search never aborts the request.
func (r *chunkRepo) SearchSimilar(dbc dbctx.Context, embedding []float32, dealID *uuid.UUID, topK int, threshold float64) []ChunkHit {
	if len(embedding) == 0 {
		return []ChunkHit{}
	}
	if topK <= 0 {
		topK = 5
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	vec := pgvector.NewVector(embedding)

	var rows []ChunkHit
	var err error
	if dealID != nil && *dealID != uuid.Nil {
		err = txx.WithContext(dbc.Ctx).Raw(`
			SELECT
				dc.chunk_text,
				dd.name AS doc_name,
				1 - (dc.embedding <=> ?) AS similarity,
				dc.id AS chunk_id,
				dc.chunk_index,
				dc.page_number,
				dc.deal_id
			FROM odp_deal_document_chunk dc
			JOIN odp_deal_document dd ON dc.doc_id = dd.id
			WHERE dc.deal_id = ?
			  AND dc.embedding IS NOT NULL
			  AND (1 - (dc.embedding <=> ?)) >= ?
			ORDER BY dc.embedding <=> ?
			LIMIT ?`,
			vec, *dealID, vec, threshold, vec, topK,
		).Scan(&rows).Error
	} else {
		err = txx.WithContext(dbc.Ctx).Raw(`
			SELECT
				dc.chunk_text,
				dd.name AS doc_name,
				1 - (dc.embedding <=> ?) AS similarity,
				dc.id AS chunk_id,
				dc.chunk_index,
				dc.page_number,
				dc.deal_id
			FROM odp_deal_document_chunk dc
			JOIN odp_deal_document dd ON dc.doc_id = dd.id
			WHERE dc.embedding IS NOT NULL
			  AND (1 - (dc.embedding <=> ?)) >= ?
			ORDER BY dc.embedding <=> ?
			LIMIT ?`,
			vec, vec, threshold, vec, topK,
		).Scan(&rows).Error
	}
	if err != nil {
		r.log.Warn("chunk similarity search failed", "error", err)
		return []ChunkHit{}
	}
	if rows == nil {
		rows = []ChunkHit{}
	}
	return rows
}
