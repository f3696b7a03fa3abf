package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	DocTypeDeck      = "deck"
	DocTypeFAQ       = "faq"
	DocTypeEmail     = "email"
	DocTypeTermSheet = "term_sheet"
)

// DealDocument is a source file uploaded for a deal (deck, FAQ, term sheet).
// Its text lives in DealDocumentChunk rows.
type DealDocument struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	DealID      uuid.UUID `gorm:"type:uuid;not null;index" json:"deal_id"`
	Deal        *Deal     `gorm:"constraint:OnDelete:CASCADE;foreignKey:DealID;references:ID" json:"deal,omitempty"`
	Name        string    `gorm:"column:name;not null" json:"name"`
	DocType     string    `gorm:"column:doc_type;not null" json:"doc_type"`
	StoragePath string    `gorm:"column:storage_path;not null" json:"storage_path"`
	Version     string    `gorm:"column:version" json:"version"`
	UploadedAt  time.Time `gorm:"not null;default:now()" json:"uploaded_at"`
}

func (DealDocument) TableName() string { return "odp_deal_document" }
