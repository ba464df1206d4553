package app

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tenantrag/internal/ai"
	"tenantrag/internal/model"
	"tenantrag/internal/rag"
	"tenantrag/internal/vectorindex"
)

type stubRetriever struct {
	chunks []vectorindex.ScoredChunk
	err    error

	lastK      int
	lastFileID string
}

func (s *stubRetriever) Retrieve(_ context.Context, query, organizationID, workspaceID string, k int, fileID string) ([]vectorindex.ScoredChunk, error) {
	if query == "" {
		return nil, &rag.ValidationError{Msg: "query is required"}
	}
	s.lastK = k
	s.lastFileID = fileID
	return s.chunks, s.err
}

type stubGenerator struct {
	reply  string
	err    error
	calls  int
	system string
}

func (s *stubGenerator) Complete(_ context.Context, _ string, messages []ai.ChatMessage) (string, error) {
	s.calls++
	if len(messages) > 0 {
		s.system = messages[0].Content
	}
	return s.reply, s.err
}

type stubPublisher struct {
	published []model.ChatMessage
}

func (s *stubPublisher) Publish(_ context.Context, msg model.ChatMessage) error {
	s.published = append(s.published, msg)
	return nil
}

type stubHistoryCache struct {
	invalidated []string
}

func (s *stubHistoryCache) GetHistory(context.Context, string) ([]model.ChatMessage, bool, error) {
	return nil, false, nil
}

func (s *stubHistoryCache) SetHistory(context.Context, string, []model.ChatMessage) error {
	return nil
}

func (s *stubHistoryCache) DeleteHistory(_ context.Context, sessionID string) error {
	s.invalidated = append(s.invalidated, sessionID)
	return nil
}

func someChunks() []vectorindex.ScoredChunk {
	return []vectorindex.ScoredChunk{
		{
			Payload: vectorindex.ChunkPayload{
				Text:     "The Alpha service caches embeddings.",
				FileID:   "doc-1",
				Filename: "alpha.txt",
			},
			Score: 0.9,
		},
	}
}

func newTestService(retriever *stubRetriever, generator *stubGenerator) (*RAGService, *stubPublisher, *stubHistoryCache) {
	publisher := &stubPublisher{}
	historyCache := &stubHistoryCache{}
	svc := NewRAGService(nil, retriever, generator, "test-model", nil, publisher, historyCache)
	return svc, publisher, historyCache
}

func TestAskGroundedAnswer(t *testing.T) {
	retriever := &stubRetriever{chunks: someChunks()}
	generator := &stubGenerator{reply: "Alpha caches embeddings."}
	svc, publisher, historyCache := newTestService(retriever, generator)

	result, err := svc.Ask(context.Background(), AskInput{
		Question:       "What does Alpha do?",
		OrganizationID: "org1",
		WorkspaceID:    "ws1",
	})
	require.NoError(t, err)

	assert.Equal(t, "Alpha caches embeddings.", result.Answer)
	assert.Equal(t, 1, generator.calls)
	assert.Contains(t, generator.system, `"file_id": "doc-1"`)

	// Both sides of the turn are enqueued and the cache is invalidated.
	require.Len(t, publisher.published, 2)
	assert.Equal(t, "user", publisher.published[0].Role)
	assert.Equal(t, "assistant", publisher.published[1].Role)
	assert.Equal(t, []string{result.SessionID}, historyCache.invalidated)
}

func TestAskIssuesSessionID(t *testing.T) {
	retriever := &stubRetriever{chunks: someChunks()}
	svc, _, _ := newTestService(retriever, &stubGenerator{reply: "ok"})

	result, err := svc.Ask(context.Background(), AskInput{
		Question:       "q",
		OrganizationID: "org1",
		WorkspaceID:    "ws1",
	})
	require.NoError(t, err)

	_, parseErr := uuid.Parse(result.SessionID)
	assert.NoError(t, parseErr)
}

func TestAskKeepsProvidedSessionID(t *testing.T) {
	retriever := &stubRetriever{chunks: someChunks()}
	svc, _, _ := newTestService(retriever, &stubGenerator{reply: "ok"})

	result, err := svc.Ask(context.Background(), AskInput{
		SessionID:      "session-7",
		Question:       "q",
		OrganizationID: "org1",
		WorkspaceID:    "ws1",
	})
	require.NoError(t, err)
	assert.Equal(t, "session-7", result.SessionID)
}

func TestAskZeroChunksSkipsModel(t *testing.T) {
	retriever := &stubRetriever{chunks: nil}
	generator := &stubGenerator{reply: "should never be used"}
	svc, _, _ := newTestService(retriever, generator)

	result, err := svc.Ask(context.Background(), AskInput{
		Question:       "q",
		OrganizationID: "org1",
		WorkspaceID:    "ws1",
	})
	require.NoError(t, err)

	assert.Equal(t, rag.InsufficientContextAnswer, result.Answer)
	assert.Zero(t, generator.calls)
}

func TestAskStripsThinkTags(t *testing.T) {
	retriever := &stubRetriever{chunks: someChunks()}
	generator := &stubGenerator{reply: "<think>internal chain</think>The real answer."}
	svc, _, _ := newTestService(retriever, generator)

	result, err := svc.Ask(context.Background(), AskInput{
		Question:       "q",
		OrganizationID: "org1",
		WorkspaceID:    "ws1",
	})
	require.NoError(t, err)
	assert.Equal(t, "The real answer.", result.Answer)
}

func TestAskPropagatesFilterAndTopK(t *testing.T) {
	retriever := &stubRetriever{chunks: someChunks()}
	svc, _, _ := newTestService(retriever, &stubGenerator{reply: "ok"})

	_, err := svc.Ask(context.Background(), AskInput{
		Question:       "q",
		OrganizationID: "org1",
		WorkspaceID:    "ws1",
		FileID:         "doc-9",
		TopK:           7,
	})
	require.NoError(t, err)

	assert.Equal(t, 7, retriever.lastK)
	assert.Equal(t, "doc-9", retriever.lastFileID)
}

func TestAskRetrieverErrorPassesThrough(t *testing.T) {
	retriever := &stubRetriever{err: &rag.StoreError{Op: "search chunks", Err: errors.New("down")}}
	svc, publisher, _ := newTestService(retriever, &stubGenerator{})

	_, err := svc.Ask(context.Background(), AskInput{
		Question:       "q",
		OrganizationID: "org1",
		WorkspaceID:    "ws1",
	})
	var storeErr *rag.StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Empty(t, publisher.published)
}

func TestAskGeneratorError(t *testing.T) {
	retriever := &stubRetriever{chunks: someChunks()}
	generator := &stubGenerator{err: errors.New("model offline")}
	svc, publisher, _ := newTestService(retriever, generator)

	_, err := svc.Ask(context.Background(), AskInput{
		Question:       "q",
		OrganizationID: "org1",
		WorkspaceID:    "ws1",
	})
	var storeErr *rag.StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, "generate answer", storeErr.Op)
	assert.Empty(t, publisher.published)
}

func TestUploadInputFilenameDefaultsToFileID(t *testing.T) {
	svc := &RAGService{}
	doc := svc.toDocument(UploadInput{FileID: "doc-3", Filename: "  "})
	assert.Equal(t, "doc-3", doc.Filename)
}
