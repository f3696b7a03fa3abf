package services

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/opendoorspartners/odp-backend/internal/data/repos"
	"github.com/opendoorspartners/odp-backend/internal/modules/bot/config"
	"github.com/opendoorspartners/odp-backend/internal/modules/bot/steps"
	"github.com/opendoorspartners/odp-backend/internal/platform/apierr"
	"github.com/opendoorspartners/odp-backend/internal/platform/dbctx"
	"github.com/opendoorspartners/odp-backend/internal/platform/logger"
)

// MessageDTO is one conversation turn as returned by the history endpoint.
type MessageDTO struct {
	Role      string         `json:"role"`
	Content   string         `json:"content"`
	DealID    *uuid.UUID     `json:"deal_id,omitempty"`
	Metadata  datatypes.JSON `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// ConversationHistory is the history endpoint payload.
type ConversationHistory struct {
	SessionID string       `json:"session_id"`
	Messages  []MessageDTO `json:"messages"`
	Total     int          `json:"total"`
}

// SessionDTO summarizes one conversation for the sessions listing.
type SessionDTO struct {
	SessionID    string    `json:"session_id"`
	MessageCount int64     `json:"message_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserSessions is the sessions endpoint payload.
type UserSessions struct {
	UserID   string       `json:"user_id"`
	Sessions []SessionDTO `json:"sessions"`
	Total    int          `json:"total"`
}

// BotService fronts the question pipeline and conversation management so
// handlers stay thin.
type BotService interface {
	Ask(ctx context.Context, question, userID, sessionID string, dealID *uuid.UUID) (*steps.AskResponse, error)
	GenerateDraft(ctx context.Context, sessionID, userID string) (*steps.AskResponse, error)
	GetConversationHistory(ctx context.Context, sessionID string, limit int) (*ConversationHistory, error)
	ClearConversation(ctx context.Context, sessionID string) (bool, error)
	GetUserSessions(ctx context.Context, userID string) (*UserSessions, error)
}

type botService struct {
	pipeline      *steps.Pipeline
	conversations repos.ConversationRepo
	messages      repos.MessageRepo
	log           *logger.Logger
}

func NewBotService(pipeline *steps.Pipeline, conversations repos.ConversationRepo, messages repos.MessageRepo, log *logger.Logger) BotService {
	return &botService{
		pipeline:      pipeline,
		conversations: conversations,
		messages:      messages,
		log:           log.With("service", "BotService"),
	}
}

func (s *botService) Ask(ctx context.Context, question, userID, sessionID string, dealID *uuid.UUID) (*steps.AskResponse, error) {
	return s.pipeline.Ask(ctx, question, userID, sessionID, dealID)
}

func (s *botService) GenerateDraft(ctx context.Context, sessionID, userID string) (*steps.AskResponse, error) {
	return s.pipeline.GenerateDraft(ctx, sessionID, userID)
}

func (s *botService) GetConversationHistory(ctx context.Context, sessionID string, limit int) (*ConversationHistory, error) {
	if limit <= 0 {
		limit = config.ConversationMessagesLimit
	}
	dbc := dbctx.Context{Ctx: ctx}

	conversation, err := s.conversations.GetBySessionID(dbc, sessionID)
	if err != nil {
		return nil, apierr.New(http.StatusInternalServerError, apierr.CodeInternal, err)
	}
	if conversation == nil {
		return &ConversationHistory{SessionID: sessionID, Messages: []MessageDTO{}}, nil
	}

	rows, err := s.messages.History(dbc, conversation.ID, limit)
	if err != nil {
		return nil, apierr.New(http.StatusInternalServerError, apierr.CodeInternal, err)
	}

	messages := make([]MessageDTO, 0, len(rows))
	for _, row := range rows {
		messages = append(messages, MessageDTO{
			Role:      row.Role,
			Content:   row.Content,
			DealID:    row.DealID,
			Metadata:  row.Metadata,
			CreatedAt: row.CreatedAt,
		})
	}
	return &ConversationHistory{
		SessionID: sessionID,
		Messages:  messages,
		Total:     len(messages),
	}, nil
}

func (s *botService) ClearConversation(ctx context.Context, sessionID string) (bool, error) {
	dbc := dbctx.Context{Ctx: ctx}

	conversation, err := s.conversations.GetBySessionID(dbc, sessionID)
	if err != nil {
		return false, apierr.New(http.StatusInternalServerError, apierr.CodeInternal, err)
	}
	if conversation == nil {
		return false, nil
	}
	if err := s.conversations.Delete(dbc, conversation.ID); err != nil {
		return false, apierr.New(http.StatusInternalServerError, apierr.CodeInternal, err)
	}
	s.log.Info("conversation cleared", "session_id", sessionID)
	return true, nil
}

func (s *botService) GetUserSessions(ctx context.Context, userID string) (*UserSessions, error) {
	dbc := dbctx.Context{Ctx: ctx}

	rows, err := s.conversations.ListByUser(dbc, userID, 0)
	if err != nil {
		return nil, apierr.New(http.StatusInternalServerError, apierr.CodeInternal, err)
	}

	sessions := make([]SessionDTO, 0, len(rows))
	for _, row := range rows {
		count, err := s.messages.CountByConversation(dbc, row.ID)
		if err != nil {
			count = 0
		}
		sessions = append(sessions, SessionDTO{
			SessionID:    row.SessionID,
			MessageCount: count,
			CreatedAt:    row.CreatedAt,
			UpdatedAt:    row.UpdatedAt,
		})
	}
	return &UserSessions{
		UserID:   userID,
		Sessions: sessions,
		Total:    len(sessions),
	}, nil
}
