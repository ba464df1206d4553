package repository

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tenantrag/internal/model"
)

type OrganizationRepository struct {
	db *gorm.DB
}

func NewOrganizationRepository(db *gorm.DB) *OrganizationRepository {
	return &OrganizationRepository{db: db}
}

// EnsureExists creates the organization if absent. Safe to call
// concurrently for the same id; an existing row is not an error.
func (r *OrganizationRepository) EnsureExists(id string) error {
	org := model.Organization{ID: id}
	if err := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&org).Error; err != nil {
		return fmt.Errorf("ensure organization failed: %w", err)
	}
	return nil
}

func (r *OrganizationRepository) List() ([]model.Organization, error) {
	var list []model.Organization
	if err := r.db.Order("created_at DESC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list organizations failed: %w", err)
	}
	return list, nil
}
