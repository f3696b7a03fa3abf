package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Conversation is one chat session, identified by the client-supplied
// session_id.
type Conversation struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	SessionID   string         `gorm:"column:session_id;uniqueIndex;not null" json:"session_id"`
	UserID      string         `gorm:"column:user_id;index" json:"user_id"`
	ContextData datatypes.JSON `gorm:"column:context_data;type:jsonb" json:"context_data,omitempty"`
	CreatedAt   time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (Conversation) TableName() string { return "odp_conversation" }
