package model

import "time"

// Organization is the top level of the tenant hierarchy. IDs are opaque
// strings chosen by the caller; organizations are created implicitly on
// first reference.
type Organization struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	CreatedAt time.Time `json:"created_at"`
}
