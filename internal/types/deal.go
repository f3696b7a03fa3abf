package types

import (
	"time"

	"github.com/google/uuid"
)

// Deal is an ODP investment deal. Only active deals are visible to the bot.
type Deal struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name      string    `gorm:"column:name;not null" json:"name"`
	Code      string    `gorm:"column:code;uniqueIndex;not null" json:"code"`
	Status    bool      `gorm:"column:status;not null;default:true" json:"status"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Deal) TableName() string { return "odp_deal" }
