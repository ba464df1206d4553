package vectorindex

import "fmt"

// Payload field names as stored in Qdrant. The core fields are always set
// by the indexing pipeline; filename and heading are display metadata
// carried when the source provides them.
const (
	FieldText           = "text"
	FieldFileID         = "file_id"
	FieldOrganizationID = "organization_id"
	FieldWorkspaceID    = "workspace_id"
	FieldFilename       = "filename"
	FieldHeading        = "heading"
)

var payloadFields = map[string]struct{}{
	FieldText:           {},
	FieldFileID:         {},
	FieldOrganizationID: {},
	FieldWorkspaceID:    {},
	FieldFilename:       {},
	FieldHeading:        {},
}

// ChunkPayload is the fixed metadata schema attached to every stored chunk.
type ChunkPayload struct {
	Text           string `json:"text"`
	FileID         string `json:"file_id"`
	OrganizationID string `json:"organization_id"`
	WorkspaceID    string `json:"workspace_id"`
	Filename       string `json:"filename,omitempty"`
	Heading        string `json:"heading,omitempty"`
}

// Record pairs an embedding vector with its chunk payload for upsert.
type Record struct {
	Vector  []float32
	Payload ChunkPayload
}

// ScoredChunk is a search hit: the stored payload plus its cosine
// similarity to the query vector.
type ScoredChunk struct {
	Payload ChunkPayload
	Score   float32
}

// CollectionName derives the per-tenant collection name from the scoping
// pair. The mapping is deterministic; every read and write for a tenant
// goes through it.
func CollectionName(organizationID, workspaceID string) string {
	return fmt.Sprintf("org_%s_workspace_%s", organizationID, workspaceID)
}
