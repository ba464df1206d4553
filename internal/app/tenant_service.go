package app

import (
	"tenantrag/internal/model"
	"tenantrag/internal/repository"
)

// TenantService exposes the read side of the tenant hierarchy.
type TenantService struct {
	orgRepo *repository.OrganizationRepository
	wsRepo  *repository.WorkspaceRepository
	docRepo *repository.DocumentRepository
}

func NewTenantService(
	orgRepo *repository.OrganizationRepository,
	wsRepo *repository.WorkspaceRepository,
	docRepo *repository.DocumentRepository,
) *TenantService {
	return &TenantService{
		orgRepo: orgRepo,
		wsRepo:  wsRepo,
		docRepo: docRepo,
	}
}

func (s *TenantService) ListOrganizations() ([]model.Organization, error) {
	return s.orgRepo.List()
}

func (s *TenantService) ListWorkspaces(organizationID string) ([]model.Workspace, error) {
	return s.wsRepo.ListByOrganizationID(organizationID)
}

// ListDocuments returns the workspace's documents, newest upload first.
func (s *TenantService) ListDocuments(organizationID, workspaceID string) ([]model.Document, error) {
	return s.docRepo.ListByScope(organizationID, workspaceID)
}
