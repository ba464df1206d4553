package model

import "time"

// Workspace is scoped to exactly one Organization. A workspace id is only
// meaningful paired with its organization id; the pair is the scoping key
// for every downstream operation.
type Workspace struct {
	ID             string       `gorm:"primaryKey;size:64" json:"id"`
	OrganizationID string       `gorm:"size:64;not null;index" json:"organization_id"`
	Organization   Organization `gorm:"foreignKey:OrganizationID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt      time.Time    `json:"created_at"`
}
