package vectorindex

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Index persists and queries chunk vectors, one Qdrant collection per
// (organization, workspace) pair. The underlying client is long-lived and
// shared across tenants; isolation comes from the collection naming plus
// the payload tags.
type Index struct {
	client     *qdrant.Client
	vectorSize uint64
	timeout    time.Duration
}

func NewIndex(client *qdrant.Client, vectorSize int) *Index {
	return &Index{
		client:     client,
		vectorSize: uint64(vectorSize),
		timeout:    30 * time.Second,
	}
}

// EnsureCollection creates the tenant collection if absent, with cosine
// distance and the configured dimensionality. Idempotent: an existing
// collection, including one created by a concurrent caller between the
// exists check and the create, is success.
func (i *Index) EnsureCollection(ctx context.Context, organizationID, workspaceID string) error {
	ctx, cancel := context.WithTimeout(ctx, i.timeout)
	defer cancel()

	name := CollectionName(organizationID, workspaceID)
	exists, err := i.client.CollectionExists(ctx, name)
	if err != nil {
		return fmt.Errorf("check collection %s failed: %w", name, err)
	}
	if exists {
		return nil
	}

	err = i.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: name,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     i.vectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		if st, ok := status.FromError(err); ok && st.Code() == codes.AlreadyExists {
			return nil
		}
		return fmt.Errorf("create collection %s failed: %w", name, err)
	}
	return nil
}

// Upsert appends chunk records to the tenant collection. It does not
// deduplicate by content; callers replacing a document must delete its
// chunks first.
func (i *Index) Upsert(ctx context.Context, organizationID, workspaceID string, records []Record) error {
	if len(records) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, i.timeout)
	defer cancel()

	points := make([]*qdrant.PointStruct, len(records))
	for n, rec := range records {
		points[n] = &qdrant.PointStruct{
			Id:      qdrant.NewIDUUID(uuid.New().String()),
			Vectors: qdrant.NewVectors(rec.Vector...),
			Payload: payloadValues(rec.Payload),
		}
	}

	name := CollectionName(organizationID, workspaceID)
	wait := true
	_, err := i.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: name,
		Points:         points,
		Wait:           &wait,
	})
	if err != nil {
		return fmt.Errorf("upsert %d points into %s failed: %w", len(points), name, err)
	}
	return nil
}

// Search returns up to limit chunks ranked by descending cosine similarity,
// optionally restricted by a payload filter. A collection that was never
// created means nothing was ever indexed for the tenant, so the result is
// empty, not an error.
func (i *Index) Search(ctx context.Context, organizationID, workspaceID string, vector []float32, limit uint64, filter *Filter) ([]ScoredChunk, error) {
	ctx, cancel := context.WithTimeout(ctx, i.timeout)
	defer cancel()

	name := CollectionName(organizationID, workspaceID)
	results, err := i.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: name,
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(limit),
		WithPayload:    qdrant.NewWithPayload(true),
		Filter:         qdrantFilter(filter),
	})
	if err != nil {
		if isMissingCollection(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("search %s failed: %w", name, err)
	}

	chunks := make([]ScoredChunk, len(results))
	for n, point := range results {
		chunks[n] = ScoredChunk{
			Payload: payloadFromValues(point.Payload),
			Score:   point.Score,
		}
	}
	return chunks, nil
}

// DeleteByFilter removes all chunks matching the filter from the tenant
// collection. Zero matches is success; a missing collection (nothing was
// ever indexed for this tenant) is likewise treated as a no-op.
func (i *Index) DeleteByFilter(ctx context.Context, organizationID, workspaceID string, filter *Filter) error {
	ctx, cancel := context.WithTimeout(ctx, i.timeout)
	defer cancel()

	name := CollectionName(organizationID, workspaceID)
	wait := true
	_, err := i.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: name,
		Wait:           &wait,
		Points: &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Filter{
				Filter: qdrantFilter(filter),
			},
		},
	})
	if err != nil {
		if isMissingCollection(err) {
			return nil
		}
		return fmt.Errorf("delete points from %s failed: %w", name, err)
	}
	return nil
}

// isMissingCollection reports whether err is Qdrant saying the collection
// does not exist. Reads and deletes against a tenant that never indexed
// anything hit this, and both treat it as an empty collection.
func isMissingCollection(err error) bool {
	st, ok := status.FromError(err)
	return ok && st.Code() == codes.NotFound
}

func payloadValues(p ChunkPayload) map[string]*qdrant.Value {
	values := map[string]*qdrant.Value{
		FieldText:           qdrant.NewValueString(p.Text),
		FieldFileID:         qdrant.NewValueString(p.FileID),
		FieldOrganizationID: qdrant.NewValueString(p.OrganizationID),
		FieldWorkspaceID:    qdrant.NewValueString(p.WorkspaceID),
	}
	if p.Filename != "" {
		values[FieldFilename] = qdrant.NewValueString(p.Filename)
	}
	if p.Heading != "" {
		values[FieldHeading] = qdrant.NewValueString(p.Heading)
	}
	return values
}

func payloadFromValues(values map[string]*qdrant.Value) ChunkPayload {
	get := func(field string) string {
		if v, ok := values[field]; ok {
			return v.GetStringValue()
		}
		return ""
	}
	return ChunkPayload{
		Text:           get(FieldText),
		FileID:         get(FieldFileID),
		OrganizationID: get(FieldOrganizationID),
		WorkspaceID:    get(FieldWorkspaceID),
		Filename:       get(FieldFilename),
		Heading:        get(FieldHeading),
	}
}

func qdrantFilter(f *Filter) *qdrant.Filter {
	if f == nil {
		return nil
	}
	conditions := make([]*qdrant.Condition, 0, len(f.Conditions()))
	for _, m := range f.Conditions() {
		conditions = append(conditions, qdrant.NewMatch(m.Field, m.Value))
	}
	return &qdrant.Filter{Must: conditions}
}
