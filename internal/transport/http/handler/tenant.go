package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tenantrag/internal/app"
	"tenantrag/internal/transport/http/response"
)

type TenantHandler struct {
	tenantService *app.TenantService
}

func NewTenantHandler(tenantService *app.TenantService) *TenantHandler {
	return &TenantHandler{tenantService: tenantService}
}

func (h *TenantHandler) ListOrganizations(c *gin.Context) {
	orgs, err := h.tenantService.ListOrganizations()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list organizations failed")
		return
	}
	response.OK(c, orgs)
}

func (h *TenantHandler) ListWorkspaces(c *gin.Context) {
	organizationID := c.Param("organization_id")
	if organizationID == "" {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "organization id is required")
		return
	}

	workspaces, err := h.tenantService.ListWorkspaces(organizationID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list workspaces failed")
		return
	}
	response.OK(c, workspaces)
}
