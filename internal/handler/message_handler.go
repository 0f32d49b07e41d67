package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/openacademy/messaging-backend/internal/common"
	"github.com/openacademy/messaging-backend/internal/domain"
	"github.com/openacademy/messaging-backend/internal/middleware"
	"github.com/openacademy/messaging-backend/internal/service"
)

// MessageHandler handles message HTTP requests
type MessageHandler struct {
	service service.MessageService
}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler(service service.MessageService) *MessageHandler {
	return &MessageHandler{service: service}
}

// Send handles POST /api/v1/conversations/:id/messages
// @Summary Send a message in a conversation
// @Tags messages
// @Accept json
// @Produce json
// @Param id path int true "conversation id"
// @Param request body domain.SendMessageRequest true "message content"
// @Success 201 {object} common.APIResponse{data=domain.MessageResponse}
// @Router /conversations/{id}/messages [post]
func (h *MessageHandler) Send(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		common.ErrorResponse(c, http.StatusUnauthorized, "authentication required", nil)
		return
	}
	convID, ok := parseConversationID(c)
	if !ok {
		return
	}

	var req domain.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	result, err := h.service.Append(convID, userID, req.Content)
	if err != nil {
		common.FromDomainError(c, err)
		return
	}

	middleware.CountMessageSent()
	common.CreatedResponse(c, result)
}

// List handles GET /api/v1/conversations/:id/messages
// @Summary Page through a conversation's messages
// @Tags messages
// @Produce json
// @Param id path int true "conversation id"
// @Param cursor query string false "opaque pagination cursor"
// @Param limit query int false "page size (default 50, max 100)"
// @Param order query string false "asc or desc (default desc)"
// @Success 200 {object} common.APIResponse{data=[]domain.MessageResponse}
// @Router /conversations/{id}/messages [get]
func (h *MessageHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		common.ErrorResponse(c, http.StatusUnauthorized, "authentication required", nil)
		return
	}
	convID, ok := parseConversationID(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	ascending := c.DefaultQuery("order", "desc") == "asc"
	cursor := c.Query("cursor")

	result, meta, err := h.service.List(convID, userID, cursor, limit, ascending)
	if err != nil {
		common.FromDomainError(c, err)
		return
	}

	common.SuccessResponse(c, result, meta)
}

// Edit handles PUT /api/v1/messages/:id
// @Summary Edit a sent message (sender only)
// @Tags messages
// @Accept json
// @Produce json
// @Param id path int true "message id"
// @Param request body domain.EditMessageRequest true "new content"
// @Success 200 {object} common.APIResponse{data=domain.MessageResponse}
// @Router /messages/{id} [put]
func (h *MessageHandler) Edit(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		common.ErrorResponse(c, http.StatusUnauthorized, "authentication required", nil)
		return
	}

	msgID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid message id", err)
		return
	}

	var req domain.EditMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	result, err := h.service.Edit(msgID, userID, req.Content)
	if err != nil {
		common.FromDomainError(c, err)
		return
	}

	common.SuccessResponse(c, result, nil)
}

// MarkRead handles PUT /api/v1/conversations/:id/read
// @Summary Mark every message addressed to the caller as read
// @Tags messages
// @Param id path int true "conversation id"
// @Router /conversations/{id}/read [put]
func (h *MessageHandler) MarkRead(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		common.ErrorResponse(c, http.StatusUnauthorized, "authentication required", nil)
		return
	}
	convID, ok := parseConversationID(c)
	if !ok {
		return
	}

	if err := h.service.MarkConversationRead(convID, userID); err != nil {
		common.FromDomainError(c, err)
		return
	}

	common.SuccessResponse(c, gin.H{"success": true}, nil)
}

// MarkAllRead handles PUT /api/v1/conversations/read-all
// @Summary Mark every conversation as read for the caller
// @Tags messages
// @Router /conversations/read-all [put]
func (h *MessageHandler) MarkAllRead(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		common.ErrorResponse(c, http.StatusUnauthorized, "authentication required", nil)
		return
	}

	if err := h.service.MarkAllRead(userID); err != nil {
		common.FromDomainError(c, err)
		return
	}

	common.SuccessResponse(c, gin.H{"success": true}, nil)
}
