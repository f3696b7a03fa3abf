package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	ToneScopeGlobal = "global"
	ToneScopeDeal   = "deal"
)

// ToneRule is a tone, compliance, do-not-say, or disclaimer rule injected
// into every LLM system prompt. Rules live in the DB so the team can update
// them without a deploy.
type ToneRule struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Scope     string     `gorm:"column:scope;not null" json:"scope"`
	DealID    *uuid.UUID `gorm:"type:uuid;column:deal_id;index" json:"deal_id,omitempty"`
	Deal      *Deal      `gorm:"constraint:OnDelete:CASCADE;foreignKey:DealID;references:ID" json:"deal,omitempty"`
	RuleType  string     `gorm:"column:rule_type;not null" json:"rule_type"`
	RuleText  string     `gorm:"column:rule_text;not null" json:"rule_text"`
	Priority  int        `gorm:"column:priority;not null;default:1" json:"priority"`
	IsActive  bool       `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt time.Time  `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time  `gorm:"not null;default:now()" json:"updated_at"`
}

func (ToneRule) TableName() string { return "odp_tone_rule" }
