package repository

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tenantrag/internal/model"
)

type WorkspaceRepository struct {
	db *gorm.DB
}

func NewWorkspaceRepository(db *gorm.DB) *WorkspaceRepository {
	return &WorkspaceRepository{db: db}
}

// EnsureExists creates the workspace if absent. The parent organization
// must exist already.
func (r *WorkspaceRepository) EnsureExists(id, organizationID string) error {
	ws := model.Workspace{ID: id, OrganizationID: organizationID}
	if err := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&ws).Error; err != nil {
		return fmt.Errorf("ensure workspace failed: %w", err)
	}
	return nil
}

func (r *WorkspaceRepository) ListByOrganizationID(organizationID string) ([]model.Workspace, error) {
	var list []model.Workspace
	if err := r.db.Where("organization_id = ?", organizationID).Order("created_at DESC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list workspaces failed: %w", err)
	}
	return list, nil
}
