package rag

import (
	"context"

	"tenantrag/internal/vectorindex"
)

// Retriever embeds a query and returns the most similar chunks from the
// tenant's collection, optionally restricted to a single document. An
// empty result is a valid outcome, not an error.
type Retriever struct {
	embedder    Embedder
	index       VectorIndex
	defaultTopK int
}

func NewRetriever(embedder Embedder, index VectorIndex, defaultTopK int) *Retriever {
	if defaultTopK <= 0 {
		defaultTopK = 3
	}
	return &Retriever{
		embedder:    embedder,
		index:       index,
		defaultTopK: defaultTopK,
	}
}

// Retrieve returns up to k chunks in descending similarity order with
// their payload metadata intact. A non-empty fileID restricts results to
// that document's chunks.
func (r *Retriever) Retrieve(ctx context.Context, query, organizationID, workspaceID string, k int, fileID string) ([]vectorindex.ScoredChunk, error) {
	if query == "" {
		return nil, validationErrorf("query is required")
	}
	if organizationID == "" || workspaceID == "" {
		return nil, validationErrorf("organization id and workspace id are required")
	}
	if k <= 0 {
		k = r.defaultTopK
	}

	vector, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, &StoreError{Op: "embed query", Err: err}
	}

	var filter *vectorindex.Filter
	if fileID != "" {
		filter = vectorindex.FileFilter(fileID)
	}

	chunks, err := r.index.Search(ctx, organizationID, workspaceID, vector, uint64(k), filter)
	if err != nil {
		return nil, &StoreError{Op: "search chunks", Err: err}
	}
	return chunks, nil
}
