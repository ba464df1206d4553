// Package rag implements the retrieval-augmented generation core: the
// indexing pipeline that turns uploads into tenant-scoped vector
// collections, the retriever that pulls relevant chunks back out, and the
// composer that formats them into a grounded prompt.
package rag

import (
	"context"
	"log"

	"tenantrag/internal/chunker"
	"tenantrag/internal/model"
	"tenantrag/internal/vectorindex"
)

// Embedder is the external embedding capability. Batch and single calls
// must produce identical vectors for identical text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// VectorIndex is the per-tenant chunk store (see internal/vectorindex for
// the Qdrant implementation).
type VectorIndex interface {
	EnsureCollection(ctx context.Context, organizationID, workspaceID string) error
	Upsert(ctx context.Context, organizationID, workspaceID string, records []vectorindex.Record) error
	Search(ctx context.Context, organizationID, workspaceID string, vector []float32, limit uint64, filter *vectorindex.Filter) ([]vectorindex.ScoredChunk, error)
	DeleteByFilter(ctx context.Context, organizationID, workspaceID string, filter *vectorindex.Filter) error
}

// TenantStore records document existence and metadata; content never
// passes through it.
type TenantStore interface {
	RecordDocument(doc *model.Document) error
	DeleteDocument(fileID, organizationID, workspaceID string) error
}

// Document is an upload to index. Exactly one of Content (plain text) or
// Sections (flat JSON items) carries the body.
type Document struct {
	FileID         string
	OrganizationID string
	WorkspaceID    string
	Filename       string
	Content        string
	Sections       []chunker.Section
}

// Pipeline orchestrates chunk → embed → tag → upsert → record for one
// document at a time. Concurrent modification of the same (organization,
// workspace, file id) is not serialized here; callers needing strict
// consistency must serialize updates per document themselves.
type Pipeline struct {
	chunker        *chunker.Chunker
	embedder       Embedder
	index          VectorIndex
	store          TenantStore
	embedBatchSize int
}

func NewPipeline(ch *chunker.Chunker, embedder Embedder, index VectorIndex, store TenantStore, embedBatchSize int) *Pipeline {
	if embedBatchSize <= 0 {
		embedBatchSize = 10
	}
	return &Pipeline{
		chunker:        ch,
		embedder:       embedder,
		index:          index,
		store:          store,
		embedBatchSize: embedBatchSize,
	}
}

// Index runs the full pipeline for a new document and returns the number
// of chunks written. On a partial failure it deletes any chunks already
// written for the file id before reporting the error; if that cleanup
// fails too, the error is a ConsistencyWarning.
func (p *Pipeline) Index(ctx context.Context, doc Document) (int, error) {
	if err := validateDocument(doc); err != nil {
		return 0, err
	}

	chunks := p.split(doc)
	if len(chunks) == 0 {
		return 0, &ContentError{Msg: "document produced zero chunks"}
	}

	if err := p.index.EnsureCollection(ctx, doc.OrganizationID, doc.WorkspaceID); err != nil {
		return 0, &StoreError{Op: "ensure collection", Err: err}
	}

	records, err := p.embedChunks(ctx, doc, chunks)
	if err != nil {
		return 0, &StoreError{Op: "embed chunks", Err: err}
	}

	if err := p.index.Upsert(ctx, doc.OrganizationID, doc.WorkspaceID, records); err != nil {
		// A batch may have landed partially; remove whatever made it in.
		return 0, p.compensate(ctx, doc, "upsert chunks", err)
	}

	record := &model.Document{
		FileID:         doc.FileID,
		Filename:       doc.Filename,
		OrganizationID: doc.OrganizationID,
		WorkspaceID:    doc.WorkspaceID,
	}
	if err := p.store.RecordDocument(record); err != nil {
		// Chunks are in the index but the tenant store has no record;
		// roll the chunks back rather than leave them orphaned.
		return 0, p.compensate(ctx, doc, "record document", err)
	}

	return len(records), nil
}

// Update replaces a document's chunks with ones derived from new content.
// Old chunks are deleted first; if that deletion fails the update aborts
// with the old chunks intact, and new chunks are never written on top.
func (p *Pipeline) Update(ctx context.Context, doc Document) (int, error) {
	if err := validateDocument(doc); err != nil {
		return 0, err
	}

	filter := vectorindex.FileFilter(doc.FileID)
	if err := p.index.DeleteByFilter(ctx, doc.OrganizationID, doc.WorkspaceID, filter); err != nil {
		return 0, &StoreError{Op: "delete existing chunks", Err: err}
	}

	return p.Index(ctx, doc)
}

// Delete removes a document's chunks and then its tenant store record, in
// that order. If the vector deletion fails the record is preserved: never
// delete metadata for content that still exists. A missing document is a
// no-op success on both sides.
func (p *Pipeline) Delete(ctx context.Context, organizationID, workspaceID, fileID string) error {
	if organizationID == "" || workspaceID == "" || fileID == "" {
		return validationErrorf("organization id, workspace id and file id are required")
	}

	filter := vectorindex.FileFilter(fileID)
	if err := p.index.DeleteByFilter(ctx, organizationID, workspaceID, filter); err != nil {
		return &StoreError{Op: "delete chunks", Err: err}
	}

	if err := p.store.DeleteDocument(fileID, organizationID, workspaceID); err != nil {
		// Chunks are gone but the record remains; flag for reconciliation.
		return &ConsistencyWarning{Op: "delete document record", Err: err, CleanupErr: nil}
	}
	return nil
}

func (p *Pipeline) split(doc Document) []chunker.Chunk {
	if len(doc.Sections) > 0 {
		return p.chunker.SplitSections(doc.Sections)
	}
	return p.chunker.SplitText(doc.Content)
}

func (p *Pipeline) embedChunks(ctx context.Context, doc Document, chunks []chunker.Chunk) ([]vectorindex.Record, error) {
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	// Embed in batches to stay under provider limits.
	var vectors [][]float32
	for start := 0; start < len(texts); start += p.embedBatchSize {
		end := start + p.embedBatchSize
		if end > len(texts) {
			end = len(texts)
		}
		batch, err := p.embedder.EmbedBatch(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		vectors = append(vectors, batch...)
	}

	records := make([]vectorindex.Record, len(chunks))
	for i := range chunks {
		records[i] = vectorindex.Record{
			Vector: vectors[i],
			Payload: vectorindex.ChunkPayload{
				Text:           chunks[i].Text,
				FileID:         doc.FileID,
				OrganizationID: doc.OrganizationID,
				WorkspaceID:    doc.WorkspaceID,
				Filename:       doc.Filename,
				Heading:        chunks[i].Heading,
			},
		}
	}
	return records, nil
}

// compensate deletes the chunks written for doc's file id after op failed
// with cause. The deletion gets one immediate retry; if both attempts fail
// the caller receives a ConsistencyWarning instead of a plain StoreError.
func (p *Pipeline) compensate(ctx context.Context, doc Document, op string, cause error) error {
	filter := vectorindex.FileFilter(doc.FileID)
	cleanupErr := p.index.DeleteByFilter(ctx, doc.OrganizationID, doc.WorkspaceID, filter)
	if cleanupErr != nil {
		cleanupErr = p.index.DeleteByFilter(ctx, doc.OrganizationID, doc.WorkspaceID, filter)
	}
	if cleanupErr != nil {
		log.Printf("compensating delete for file %s failed: %v", doc.FileID, cleanupErr)
		return &ConsistencyWarning{Op: op, Err: cause, CleanupErr: cleanupErr}
	}
	return &StoreError{Op: op, Err: cause}
}

func validateDocument(doc Document) error {
	switch {
	case doc.FileID == "":
		return validationErrorf("file id is required")
	case doc.OrganizationID == "":
		return validationErrorf("organization id is required")
	case doc.WorkspaceID == "":
		return validationErrorf("workspace id is required")
	case doc.Content == "" && len(doc.Sections) == 0:
		return validationErrorf("document content is required")
	}
	return nil
}
