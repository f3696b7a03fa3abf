package repos

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/opendoorspartners/odp-backend/internal/platform/dbctx"
	"github.com/opendoorspartners/odp-backend/internal/platform/logger"
	"github.com/opendoorspartners/odp-backend/internal/types"
)

type MessageRepo interface {
	Append(dbc dbctx.Context, conversationID uuid.UUID, role, content string, dealID *uuid.UUID, metadata datatypes.JSON) (*types.ConversationMessage, error)
	// History returns the limit most recent messages, oldest first.
	History(dbc dbctx.Context, conversationID uuid.UUID, limit int) ([]*types.ConversationMessage, error)
	LastAssistant(dbc dbctx.Context, conversationID uuid.UUID) (*types.ConversationMessage, error)
	CountByConversation(dbc dbctx.Context, conversationID uuid.UUID) (int64, error)
}

type messageRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMessageRepo(db *gorm.DB, log *logger.Logger) MessageRepo {
	return &messageRepo{db: db, log: log.With("repo", "MessageRepo")}
}

func (r *messageRepo) Append(dbc dbctx.Context, conversationID uuid.UUID, role, content string, dealID *uuid.UUID, metadata datatypes.JSON) (*types.ConversationMessage, error) {
	if conversationID == uuid.Nil {
		return nil, fmt.Errorf("missing conversation_id")
	}
	if role != types.RoleUser && role != types.RoleAssistant {
		return nil, fmt.Errorf("invalid role %q", role)
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	row := &types.ConversationMessage{
		ConversationID: conversationID,
		Role:           role,
		Content:        content,
		DealID:         dealID,
		Metadata:       metadata,
	}
	if err := txx.WithContext(dbc.Ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *messageRepo) History(dbc dbctx.Context, conversationID uuid.UUID, limit int) ([]*types.ConversationMessage, error) {
	if conversationID == uuid.Nil {
		return []*types.ConversationMessage{}, nil
	}
	if limit <= 0 || limit > 200 {
		limit = 10
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var recent []*types.ConversationMessage
	if err := txx.WithContext(dbc.Ctx).
		Model(&types.ConversationMessage{}).
		Where("conversation_id = ?", conversationID).
		Order("created_at DESC").
		Limit(limit).
		Find(&recent).Error; err != nil {
		return nil, err
	}
	// Reverse so the LLM receives oldest first.
	out := make([]*types.ConversationMessage, 0, len(recent))
	for i := len(recent) - 1; i >= 0; i-- {
		out = append(out, recent[i])
	}
	return out, nil
}

func (r *messageRepo) LastAssistant(dbc dbctx.Context, conversationID uuid.UUID) (*types.ConversationMessage, error) {
	if conversationID == uuid.Nil {
		return nil, nil
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out types.ConversationMessage
	err := txx.WithContext(dbc.Ctx).
		Where("conversation_id = ? AND role = ?", conversationID, types.RoleAssistant).
		Order("created_at DESC").
		Take(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *messageRepo) CountByConversation(dbc dbctx.Context, conversationID uuid.UUID) (int64, error) {
	if conversationID == uuid.Nil {
		return 0, nil
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var n int64
	if err := txx.WithContext(dbc.Ctx).
		Model(&types.ConversationMessage{}).
		Where("conversation_id = ?", conversationID).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
