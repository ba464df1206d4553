package repository

import "tenantrag/internal/model"

// TenantStore composes the tenant-hierarchy repositories behind the
// operations the indexing pipeline needs. Parent records are created on
// demand so an upload referencing a new organization or workspace never
// fails on a missing row.
type TenantStore struct {
	orgs       *OrganizationRepository
	workspaces *WorkspaceRepository
	documents  *DocumentRepository
}

func NewTenantStore(orgs *OrganizationRepository, workspaces *WorkspaceRepository, documents *DocumentRepository) *TenantStore {
	return &TenantStore{
		orgs:       orgs,
		workspaces: workspaces,
		documents:  documents,
	}
}

func (s *TenantStore) EnsureOrganization(organizationID string) error {
	return s.orgs.EnsureExists(organizationID)
}

func (s *TenantStore) EnsureWorkspace(organizationID, workspaceID string) error {
	return s.workspaces.EnsureExists(workspaceID, organizationID)
}

// RecordDocument ensures the parent organization and workspace exist, then
// upserts the document record.
func (s *TenantStore) RecordDocument(doc *model.Document) error {
	if err := s.orgs.EnsureExists(doc.OrganizationID); err != nil {
		return err
	}
	if err := s.workspaces.EnsureExists(doc.WorkspaceID, doc.OrganizationID); err != nil {
		return err
	}
	return s.documents.Upsert(doc)
}

func (s *TenantStore) DeleteDocument(fileID, organizationID, workspaceID string) error {
	return s.documents.DeleteByScope(fileID, organizationID, workspaceID)
}
