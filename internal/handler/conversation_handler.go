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

// ConversationHandler handles conversation HTTP requests
type ConversationHandler struct {
	service service.ConversationService
}

// NewConversationHandler creates a new ConversationHandler
func NewConversationHandler(service service.ConversationService) *ConversationHandler {
	return &ConversationHandler{service: service}
}

func parseConversationID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid conversation id", err)
		return 0, false
	}
	return id, true
}

// Start handles POST /api/v1/conversations
// @Summary Resolve or create the conversation with another user
// @Tags conversations
// @Accept json
// @Produce json
// @Param request body domain.StartConversationRequest true "recipient"
// @Success 200 {object} common.APIResponse{data=domain.ConversationResponse}
// @Router /conversations [post]
func (h *ConversationHandler) Start(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		common.ErrorResponse(c, http.StatusUnauthorized, "authentication required", nil)
		return
	}

	var req domain.StartConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	result, err := h.service.ResolveOrCreate(userID, req.RecipientID)
	if err != nil {
		common.FromDomainError(c, err)
		return
	}

	common.SuccessResponse(c, result, nil)
}

// List handles GET /api/v1/conversations
// @Summary List the caller's conversations, most recent first
// @Tags conversations
// @Produce json
// @Param include_archived query bool false "include archived conversations"
// @Success 200 {object} common.APIResponse{data=[]domain.ConversationResponse}
// @Router /conversations [get]
func (h *ConversationHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		common.ErrorResponse(c, http.StatusUnauthorized, "authentication required", nil)
		return
	}

	includeArchived := c.Query("include_archived") == "true"

	result, err := h.service.List(userID, includeArchived)
	if err != nil {
		common.FromDomainError(c, err)
		return
	}

	common.SuccessResponse(c, result, nil)
}

// Archive handles PUT /api/v1/conversations/:id/archive
// @Summary Archive a conversation for the caller
// @Tags conversations
// @Router /conversations/{id}/archive [put]
func (h *ConversationHandler) Archive(c *gin.Context) {
	h.setActive(c, false)
}

// Unarchive handles DELETE /api/v1/conversations/:id/archive
// @Summary Restore an archived conversation for the caller
// @Tags conversations
// @Router /conversations/{id}/archive [delete]
func (h *ConversationHandler) Unarchive(c *gin.Context) {
	h.setActive(c, true)
}

func (h *ConversationHandler) setActive(c *gin.Context, active bool) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		common.ErrorResponse(c, http.StatusUnauthorized, "authentication required", nil)
		return
	}
	id, ok := parseConversationID(c)
	if !ok {
		return
	}

	if err := h.service.SetActive(id, userID, active); err != nil {
		common.FromDomainError(c, err)
		return
	}

	common.SuccessResponse(c, gin.H{"is_active": active}, nil)
}

// UnreadTotal handles GET /api/v1/conversations/unread-count
// @Summary Total unread messages across all conversations (inbox badge)
// @Tags conversations
// @Produce json
// @Router /conversations/unread-count [get]
func (h *ConversationHandler) UnreadTotal(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		common.ErrorResponse(c, http.StatusUnauthorized, "authentication required", nil)
		return
	}

	total, err := h.service.UnreadTotal(userID)
	if err != nil {
		common.FromDomainError(c, err)
		return
	}

	common.SuccessResponse(c, gin.H{"unread_count": total}, nil)
}
