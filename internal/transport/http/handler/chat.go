package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tenantrag/internal/app"
	"tenantrag/internal/transport/http/response"
)

type ChatHandler struct {
	ragService *app.RAGService
}

func NewChatHandler(ragService *app.RAGService) *ChatHandler {
	return &ChatHandler{ragService: ragService}
}

type AskRequest struct {
	Question       string `json:"question" binding:"required"`
	SessionID      string `json:"session_id"`
	OrganizationID string `json:"organization_id" binding:"required"`
	WorkspaceID    string `json:"workspace_id" binding:"required"`
	FileID         string `json:"file_id"`
	TopK           int    `json:"top_k"`
}

func (h *ChatHandler) Ask(c *gin.Context) {
	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	result, err := h.ragService.Ask(c.Request.Context(), app.AskInput{
		SessionID:      req.SessionID,
		Question:       req.Question,
		OrganizationID: req.OrganizationID,
		WorkspaceID:    req.WorkspaceID,
		FileID:         req.FileID,
		TopK:           req.TopK,
	})
	if err != nil {
		writeRAGError(c, err, "ask failed")
		return
	}
	response.OK(c, result)
}

func (h *ChatHandler) History(c *gin.Context) {
	sessionID := c.Param("session_id")
	if sessionID == "" {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "session id is required")
		return
	}

	limit := 0
	if s := c.Query("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			limit = n
		}
	}

	messages, err := h.ragService.GetHistory(c.Request.Context(), sessionID, limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "get history failed")
		return
	}
	response.OK(c, messages)
}
