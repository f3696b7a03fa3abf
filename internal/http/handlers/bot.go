package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/opendoorspartners/odp-backend/internal/http/response"
	"github.com/opendoorspartners/odp-backend/internal/platform/apierr"
	"github.com/opendoorspartners/odp-backend/internal/services"
)

type BotHandler struct {
	bot services.BotService
}

func NewBotHandler(bot services.BotService) *BotHandler {
	return &BotHandler{bot: bot}
}

func errMissingField(field string) error {
	return fmt.Errorf("missing required field: %s", field)
}

type askReq struct {
	Question  string `json:"question"`
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id"`
}

type draftReq struct {
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id"`
}

// POST /bot/ask
func (h *BotHandler) Ask(c *gin.Context) {
	h.ask(c, nil)
}

// POST /bot/ask/:deal_id
func (h *BotHandler) AskDeal(c *gin.Context) {
	dealID, err := uuid.Parse(c.Param("deal_id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, apierr.CodeValidation, err)
		return
	}
	h.ask(c, &dealID)
}

func (h *BotHandler) ask(c *gin.Context, dealID *uuid.UUID) {
	var req askReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, apierr.CodeValidation, err)
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		response.RespondError(c, http.StatusBadRequest, apierr.CodeValidation, errMissingField("question"))
		return
	}
	if strings.TrimSpace(req.UserID) == "" {
		response.RespondError(c, http.StatusBadRequest, apierr.CodeValidation, errMissingField("user_id"))
		return
	}

	resp, err := h.bot.Ask(c.Request.Context(), req.Question, req.UserID, req.SessionID, dealID)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, resp)
}

// POST /bot/generate-draft
func (h *BotHandler) GenerateDraft(c *gin.Context) {
	var req draftReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, apierr.CodeValidation, err)
		return
	}
	if strings.TrimSpace(req.SessionID) == "" {
		response.RespondError(c, http.StatusBadRequest, apierr.CodeValidation, errMissingField("session_id"))
		return
	}
	if strings.TrimSpace(req.UserID) == "" {
		response.RespondError(c, http.StatusBadRequest, apierr.CodeValidation, errMissingField("user_id"))
		return
	}

	resp, err := h.bot.GenerateDraft(c.Request.Context(), req.SessionID, req.UserID)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, resp)
}

// GET /bot/conversation/:session_id?limit=N
func (h *BotHandler) GetConversation(c *gin.Context) {
	sessionID := c.Param("session_id")
	limit := 0
	if v := strings.TrimSpace(c.Query("limit")); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}

	history, err := h.bot.GetConversationHistory(c.Request.Context(), sessionID, limit)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, history)
}

// DELETE /bot/conversation/:session_id
func (h *BotHandler) ClearConversation(c *gin.Context) {
	sessionID := c.Param("session_id")

	cleared, err := h.bot.ClearConversation(c.Request.Context(), sessionID)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"session_id": sessionID, "cleared": cleared})
}

// GET /bot/sessions/:user_id
func (h *BotHandler) GetUserSessions(c *gin.Context) {
	userID := c.Param("user_id")

	sessions, err := h.bot.GetUserSessions(c.Request.Context(), userID)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, sessions)
}
