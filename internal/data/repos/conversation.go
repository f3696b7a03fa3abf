package repos

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/opendoorspartners/odp-backend/internal/platform/dbctx"
	"github.com/opendoorspartners/odp-backend/internal/platform/logger"
	"github.com/opendoorspartners/odp-backend/internal/types"
)

type ConversationRepo interface {
	// GetOrCreate returns the conversation for sessionID, creating it when
	// absent. An empty sessionID generates a fresh one. Idempotent.
	GetOrCreate(dbc dbctx.Context, sessionID, userID string) (*types.Conversation, error)
	GetBySessionID(dbc dbctx.Context, sessionID string) (*types.Conversation, error)
	ListByUser(dbc dbctx.Context, userID string, limit int) ([]*types.Conversation, error)
	// Delete removes the conversation and, via FK cascade, its messages.
	Delete(dbc dbctx.Context, conversationID uuid.UUID) error
}

type conversationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewConversationRepo(db *gorm.DB, log *logger.Logger) ConversationRepo {
	return &conversationRepo{db: db, log: log.With("repo", "ConversationRepo")}
}

func (r *conversationRepo) GetOrCreate(dbc dbctx.Context, sessionID, userID string) (*types.Conversation, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	if sessionID != "" {
		var existing types.Conversation
		err := txx.WithContext(dbc.Ctx).
			Where("session_id = ?", sessionID).
			Take(&existing).Error
		if err == nil {
			return &existing, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	row := &types.Conversation{SessionID: sessionID, UserID: userID}
	if err := txx.WithContext(dbc.Ctx).Create(row).Error; err != nil {
		return nil, err
	}
	r.log.Info("new conversation created", "session_id", sessionID)
	return row, nil
}

func (r *conversationRepo) GetBySessionID(dbc dbctx.Context, sessionID string) (*types.Conversation, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("missing session_id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out types.Conversation
	err := txx.WithContext(dbc.Ctx).
		Where("session_id = ?", sessionID).
		Take(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *conversationRepo) ListByUser(dbc dbctx.Context, userID string, limit int) ([]*types.Conversation, error) {
	if userID == "" {
		return nil, fmt.Errorf("missing user_id")
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out []*types.Conversation
	if err := txx.WithContext(dbc.Ctx).
		Model(&types.Conversation{}).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *conversationRepo) Delete(dbc dbctx.Context, conversationID uuid.UUID) error {
	if conversationID == uuid.Nil {
		return fmt.Errorf("missing conversation_id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	return txx.WithContext(dbc.Ctx).
		Where("id = ?", conversationID).
		Delete(&types.Conversation{}).Error
}
