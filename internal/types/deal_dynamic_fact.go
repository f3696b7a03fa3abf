package types

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

const (
	ApprovalApproved = "approved"
	ApprovalPending  = "pending"
)

// DealDynamicFact stores team-supplied knowledge captured during chat.
// A row can hold a Q&A pair (question + answer, searched by embedding), a
// key-value fact (fact_key + fact_value, looked up by key), or both when a
// factual value was extracted from an answer. The embedding covers
// "question + answer" for richer matching.
type DealDynamicFact struct {
	ID             uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	DealID         uuid.UUID       `gorm:"type:uuid;not null;index" json:"deal_id"`
	Deal           *Deal           `gorm:"constraint:OnDelete:CASCADE;foreignKey:DealID;references:ID" json:"deal,omitempty"`
	Question       string          `gorm:"column:question" json:"question"`
	Answer         string          `gorm:"column:answer" json:"answer"`
	FactKey        string          `gorm:"column:fact_key;index" json:"fact_key"`
	FactValue      string          `gorm:"column:fact_value" json:"fact_value"`
	Embedding      pgvector.Vector `gorm:"type:vector(1536);column:embedding" json:"-"`
	ApprovalStatus string          `gorm:"column:approval_status;not null;default:approved" json:"approval_status"`
	SourceNote     string          `gorm:"column:source_note" json:"source_note"`
	CreatedBy      string          `gorm:"column:created_by" json:"created_by"`
	ApprovedBy     string          `gorm:"column:approved_by" json:"approved_by"`
	ApprovedAt     *time.Time      `gorm:"column:approved_at" json:"approved_at,omitempty"`
	AsOfDate       *time.Time      `gorm:"column:as_of_date" json:"as_of_date,omitempty"`
	CreatedAt      time.Time       `gorm:"not null;default:now()" json:"created_at"`
}

func (DealDynamicFact) TableName() string { return "odp_deal_dynamic_fact" }
