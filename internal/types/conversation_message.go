package types

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Assistant response types recorded in message metadata.
const (
	ResponseAnswer        = "answer"
	ResponseNeedsInfo     = "needs_info"
	ResponseClarification = "needs_clarification"
	ResponseDraftEmail    = "draft_email"
	ResponseGreeting      = "greeting"
)

// MessageMetadata is the typed shape of the metadata JSON column on
// assistant messages. Fields besides Type apply only to certain types:
// InvestorQuestion is set on needs_info turns, OriginalQuestion and
// AvailableDocuments on needs_clarification turns, Trigger on draft_email
// turns.
type MessageMetadata struct {
	Type               string   `json:"type"`
	InvestorQuestion   string   `json:"investor_question,omitempty"`
	OriginalQuestion   string   `json:"original_question,omitempty"`
	Sources            []string `json:"sources,omitempty"`
	Confidence         string   `json:"confidence,omitempty"`
	AvailableDocuments []string `json:"available_documents,omitempty"`
	Trigger            string   `json:"trigger,omitempty"`
}

func (m MessageMetadata) ToJSON() datatypes.JSON {
	raw, err := json.Marshal(m)
	if err != nil {
		return nil
	}
	return datatypes.JSON(raw)
}

func ParseMessageMetadata(raw datatypes.JSON) (MessageMetadata, bool) {
	var m MessageMetadata
	if len(raw) == 0 {
		return m, false
	}
	if err := json.Unmarshal(raw, &m); err != nil {
		return MessageMetadata{}, false
	}
	return m, m.Type != ""
}

// ConversationMessage is one user or assistant turn in a conversation.
type ConversationMessage struct {
	ID             uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ConversationID uuid.UUID      `gorm:"type:uuid;not null;index" json:"conversation_id"`
	Conversation   *Conversation  `gorm:"constraint:OnDelete:CASCADE;foreignKey:ConversationID;references:ID" json:"conversation,omitempty"`
	Role           string         `gorm:"column:role;not null" json:"role"`
	Content        string         `gorm:"column:content;not null" json:"content"`
	DealID         *uuid.UUID     `gorm:"type:uuid;column:deal_id" json:"deal_id,omitempty"`
	Metadata       datatypes.JSON `gorm:"column:metadata;type:jsonb" json:"metadata,omitempty"`
	CreatedAt      time.Time      `gorm:"not null;default:now()" json:"created_at"`
}

func (ConversationMessage) TableName() string { return "odp_conversation_message" }
