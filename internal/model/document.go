package model

import "time"

// Document tracks existence and metadata of an uploaded file. Its content
// lives in the vector index, never here; the record and the chunk set must
// be kept in lockstep by the indexing pipeline.
type Document struct {
	FileID          string       `gorm:"primaryKey;size:64;column:file_id" json:"file_id"`
	Filename        string       `gorm:"size:256;not null" json:"filename"`
	OrganizationID  string       `gorm:"size:64;not null;index" json:"organization_id"`
	Organization    Organization `gorm:"foreignKey:OrganizationID;constraint:OnDelete:CASCADE" json:"-"`
	WorkspaceID     string       `gorm:"size:64;not null;index" json:"workspace_id"`
	Workspace       Workspace    `gorm:"foreignKey:WorkspaceID;constraint:OnDelete:CASCADE" json:"-"`
	UploadTimestamp time.Time    `gorm:"autoCreateTime" json:"upload_timestamp"`
}
