package types

import (
	"time"

	"github.com/google/uuid"
)

// DealTerm holds the structured deck facts for a deal, one row per deal.
// Values are kept as raw strings so the bot quotes exactly what the deck says.
type DealTerm struct {
	ID               uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	DealID           uuid.UUID  `gorm:"type:uuid;not null;index" json:"deal_id"`
	Deal             *Deal      `gorm:"constraint:OnDelete:CASCADE;foreignKey:DealID;references:ID" json:"deal,omitempty"`
	SecurityType     string     `gorm:"column:security_type" json:"security_type"`
	Valuation        string     `gorm:"column:valuation" json:"valuation"`
	RoundType        string     `gorm:"column:round_type" json:"round_type"`
	StructureSummary string     `gorm:"column:structure_summary" json:"structure_summary"`
	FeeSummary       string     `gorm:"column:fee_summary" json:"fee_summary"`
	SourceDocID      *uuid.UUID `gorm:"type:uuid;column:source_doc_id" json:"source_doc_id,omitempty"`
	SourcePage       string     `gorm:"column:source_page" json:"source_page"`
	CreatedAt        time.Time  `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt        time.Time  `gorm:"not null;default:now()" json:"updated_at"`
}

func (DealTerm) TableName() string { return "odp_deal_term" }
