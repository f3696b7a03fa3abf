package types

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

// EmbeddingDim matches text-embedding-3-small. Changing the embedding model
// invalidates every stored vector.
const EmbeddingDim = 1536

// DealDocumentChunk is one text chunk of a deal document with its vector
// embedding for similarity search.
type DealDocumentChunk struct {
	ID         uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	DocID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"doc_id"`
	Document   *DealDocument   `gorm:"constraint:OnDelete:CASCADE;foreignKey:DocID;references:ID" json:"document,omitempty"`
	DealID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"deal_id"`
	Deal       *Deal           `gorm:"constraint:OnDelete:CASCADE;foreignKey:DealID;references:ID" json:"deal,omitempty"`
	ChunkText  string          `gorm:"column:chunk_text;not null" json:"chunk_text"`
	ChunkIndex int             `gorm:"column:chunk_index;not null" json:"chunk_index"`
	PageNumber *int            `gorm:"column:page_number" json:"page_number,omitempty"`
	Embedding  pgvector.Vector `gorm:"type:vector(1536);column:embedding" json:"-"`
	Metadata   datatypes.JSON  `gorm:"column:metadata;type:jsonb" json:"metadata,omitempty"`
	CreatedAt  time.Time       `gorm:"not null;default:now()" json:"created_at"`
}

func (DealDocumentChunk) TableName() string { return "odp_deal_document_chunk" }
