package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"tenantrag/internal/app"
	"tenantrag/internal/chunker"
	"tenantrag/internal/rag"
	"tenantrag/internal/transport/http/response"
)

type DocumentHandler struct {
	ragService    *app.RAGService
	tenantService *app.TenantService
}

func NewDocumentHandler(ragService *app.RAGService, tenantService *app.TenantService) *DocumentHandler {
	return &DocumentHandler{
		ragService:    ragService,
		tenantService: tenantService,
	}
}

// UploadDocumentRequest accepts either plain text in "content" or flat
// JSON sections in "file", mirroring the upload payload shape.
type UploadDocumentRequest struct {
	FileID         string            `json:"file_id" binding:"required"`
	Filename       string            `json:"filename"`
	OrganizationID string            `json:"organization_id" binding:"required"`
	WorkspaceID    string            `json:"workspace_id" binding:"required"`
	Content        string            `json:"content"`
	File           []chunker.Section `json:"file"`
}

type DeleteDocumentRequest struct {
	FileID         string `json:"file_id" binding:"required"`
	OrganizationID string `json:"organization_id" binding:"required"`
	WorkspaceID    string `json:"workspace_id" binding:"required"`
}

func (h *DocumentHandler) Upload(c *gin.Context) {
	var req UploadDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	result, err := h.ragService.UploadDocument(c.Request.Context(), uploadInput(req))
	if err != nil {
		writeRAGError(c, err, "upload failed")
		return
	}
	response.OK(c, result)
}

func (h *DocumentHandler) Update(c *gin.Context) {
	var req UploadDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	result, err := h.ragService.UpdateDocument(c.Request.Context(), uploadInput(req))
	if err != nil {
		writeRAGError(c, err, "update failed")
		return
	}
	response.OK(c, result)
}

func (h *DocumentHandler) Delete(c *gin.Context) {
	var req DeleteDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	if err := h.ragService.DeleteDocument(c.Request.Context(), req.OrganizationID, req.WorkspaceID, req.FileID); err != nil {
		writeRAGError(c, err, "delete failed")
		return
	}
	response.OK(c, gin.H{"deleted_file_id": req.FileID})
}

func (h *DocumentHandler) List(c *gin.Context) {
	organizationID := c.Param("organization_id")
	workspaceID := c.Param("workspace_id")
	if organizationID == "" || workspaceID == "" {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "organization id and workspace id are required")
		return
	}

	docs, err := h.tenantService.ListDocuments(organizationID, workspaceID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list documents failed")
		return
	}
	response.OK(c, docs)
}

func uploadInput(req UploadDocumentRequest) app.UploadInput {
	return app.UploadInput{
		FileID:         req.FileID,
		Filename:       req.Filename,
		OrganizationID: req.OrganizationID,
		WorkspaceID:    req.WorkspaceID,
		Content:        req.Content,
		Sections:       req.File,
	}
}

// writeRAGError maps the error taxonomy to HTTP statuses: invalid input
// and unusable content are the caller's fault, a degraded state gets its
// own code so operators can tell it from an ordinary store failure.
func writeRAGError(c *gin.Context, err error, fallback string) {
	var validationErr *rag.ValidationError
	var contentErr *rag.ContentError
	var warn *rag.ConsistencyWarning
	var storeErr *rag.StoreError

	switch {
	case errors.As(err, &validationErr):
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, validationErr.Error())
	case errors.As(err, &contentErr):
		response.Error(c, http.StatusBadRequest, response.CodeInvalidContent, contentErr.Error())
	case errors.As(err, &warn):
		response.Error(c, http.StatusInternalServerError, response.CodeDegradedState, warn.Error())
	case errors.As(err, &storeErr):
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, storeErr.Error())
	default:
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, fallback)
	}
}
