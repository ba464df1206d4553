package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tenantrag/internal/model"
)

type DocumentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// Upsert inserts the document record, or refreshes it when a record for
// the file id already exists (update flow). The scope columns are assigned
// too: file ids are global, so a re-upload under a different organization
// or workspace moves the record to where its chunks now live.
func (r *DocumentRepository) Upsert(doc *model.Document) error {
	if err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "file_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"filename", "organization_id", "workspace_id", "upload_timestamp"}),
	}).Create(doc).Error; err != nil {
		return fmt.Errorf("upsert document failed: %w", err)
	}
	return nil
}

func (r *DocumentRepository) GetByScope(fileID, organizationID, workspaceID string) (*model.Document, error) {
	var doc model.Document
	err := r.db.Where("file_id = ? AND organization_id = ? AND workspace_id = ?",
		fileID, organizationID, workspaceID).First(&doc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get document failed: %w", err)
	}
	return &doc, nil
}

func (r *DocumentRepository) ListByScope(organizationID, workspaceID string) ([]model.Document, error) {
	var list []model.Document
	err := r.db.Where("organization_id = ? AND workspace_id = ?", organizationID, workspaceID).
		Order("upload_timestamp DESC").Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("list documents failed: %w", err)
	}
	return list, nil
}

// DeleteByScope removes the record; deleting a missing record is a no-op
// success.
func (r *DocumentRepository) DeleteByScope(fileID, organizationID, workspaceID string) error {
	err := r.db.Where("file_id = ? AND organization_id = ? AND workspace_id = ?",
		fileID, organizationID, workspaceID).Delete(&model.Document{}).Error
	if err != nil {
		return fmt.Errorf("delete document failed: %w", err)
	}
	return nil
}
