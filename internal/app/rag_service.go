package app

import (
	"context"
	"log"
	"strings"

	"github.com/google/uuid"

	"tenantrag/internal/ai"
	"tenantrag/internal/chunker"
	"tenantrag/internal/model"
	"tenantrag/internal/rag"
	"tenantrag/internal/repository"
	"tenantrag/internal/vectorindex"
)

// Generator is the external language-model capability.
type Generator interface {
	Complete(ctx context.Context, model string, messages []ai.ChatMessage) (string, error)
}

// Retriever pulls the top-k chunks for a query within a tenant scope.
type Retriever interface {
	Retrieve(ctx context.Context, query, organizationID, workspaceID string, k int, fileID string) ([]vectorindex.ScoredChunk, error)
}

// AsyncMessagePublisher enqueues a chat message for background persistence.
type AsyncMessagePublisher interface {
	Publish(ctx context.Context, msg model.ChatMessage) error
}

// HistoryCache caches per-session chat history.
type HistoryCache interface {
	GetHistory(ctx context.Context, sessionID string) ([]model.ChatMessage, bool, error)
	SetHistory(ctx context.Context, sessionID string, messages []model.ChatMessage) error
	DeleteHistory(ctx context.Context, sessionID string) error
}

// RAGService fronts the indexing pipeline and the query path for the HTTP
// layer.
type RAGService struct {
	pipeline  *rag.Pipeline
	retriever Retriever
	generator Generator
	chatModel string

	messageRepo  *repository.ChatMessageRepository
	publisher    AsyncMessagePublisher
	historyCache HistoryCache
}

func NewRAGService(
	pipeline *rag.Pipeline,
	retriever Retriever,
	generator Generator,
	chatModel string,
	messageRepo *repository.ChatMessageRepository,
	publisher AsyncMessagePublisher,
	historyCache HistoryCache,
) *RAGService {
	return &RAGService{
		pipeline:     pipeline,
		retriever:    retriever,
		generator:    generator,
		chatModel:    chatModel,
		messageRepo:  messageRepo,
		publisher:    publisher,
		historyCache: historyCache,
	}
}

// UploadInput carries one document upload or update. Content holds plain
// text; Sections holds flat JSON items. One of the two must be set.
type UploadInput struct {
	FileID         string
	Filename       string
	OrganizationID string
	WorkspaceID    string
	Content        string
	Sections       []chunker.Section
}

type UploadResult struct {
	FileID     string `json:"file_id"`
	ChunkCount int    `json:"chunk_count"`
}

func (s *RAGService) UploadDocument(ctx context.Context, input UploadInput) (*UploadResult, error) {
	count, err := s.pipeline.Index(ctx, s.toDocument(input))
	if err != nil {
		return nil, err
	}
	return &UploadResult{FileID: input.FileID, ChunkCount: count}, nil
}

func (s *RAGService) UpdateDocument(ctx context.Context, input UploadInput) (*UploadResult, error) {
	count, err := s.pipeline.Update(ctx, s.toDocument(input))
	if err != nil {
		return nil, err
	}
	return &UploadResult{FileID: input.FileID, ChunkCount: count}, nil
}

func (s *RAGService) DeleteDocument(ctx context.Context, organizationID, workspaceID, fileID string) error {
	return s.pipeline.Delete(ctx, organizationID, workspaceID, fileID)
}

func (s *RAGService) toDocument(input UploadInput) rag.Document {
	filename := strings.TrimSpace(input.Filename)
	if filename == "" {
		filename = input.FileID
	}
	return rag.Document{
		FileID:         input.FileID,
		OrganizationID: input.OrganizationID,
		WorkspaceID:    input.WorkspaceID,
		Filename:       filename,
		Content:        input.Content,
		Sections:       input.Sections,
	}
}

// AskInput is one chat query. An empty SessionID means a new session; the
// issued id comes back in the result.
type AskInput struct {
	SessionID      string
	Question       string
	OrganizationID string
	WorkspaceID    string
	FileID         string
	TopK           int
}

type AskResult struct {
	Answer    string                    `json:"answer"`
	SessionID string                    `json:"session_id"`
	Chunks    []vectorindex.ScoredChunk `json:"-"`
}

// Ask retrieves context for the question, composes a grounded prompt, and
// calls the language model. When retrieval yields nothing the fixed
// insufficient-information answer is returned without a model call.
func (s *RAGService) Ask(ctx context.Context, input AskInput) (*AskResult, error) {
	question := strings.TrimSpace(input.Question)

	sessionID := input.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	chunks, err := s.retriever.Retrieve(ctx, question, input.OrganizationID, input.WorkspaceID, input.TopK, input.FileID)
	if err != nil {
		return nil, err
	}

	var answer string
	if len(chunks) == 0 {
		answer = rag.InsufficientContextAnswer
	} else {
		system, user := rag.ComposePrompt(question, chunks)
		messages := []ai.ChatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		}
		raw, err := s.generator.Complete(ctx, s.chatModel, messages)
		if err != nil {
			return nil, &rag.StoreError{Op: "generate answer", Err: err}
		}
		answer = rag.StripThinkTags(raw)
	}

	s.logTurn(ctx, sessionID, question, answer)

	return &AskResult{
		Answer:    answer,
		SessionID: sessionID,
		Chunks:    chunks,
	}, nil
}

// logTurn enqueues both sides of the exchange for async persistence and
// drops the stale cached history. Best effort: a broker hiccup must not
// fail the answer.
func (s *RAGService) logTurn(ctx context.Context, sessionID, question, answer string) {
	if s.publisher == nil {
		return
	}
	for _, msg := range []model.ChatMessage{
		{SessionID: sessionID, Role: "user", Content: question},
		{SessionID: sessionID, Role: "assistant", Content: answer},
	} {
		if err := s.publisher.Publish(ctx, msg); err != nil {
			log.Printf("enqueue chat message failed: %v", err)
		}
	}
	if s.historyCache != nil {
		if err := s.historyCache.DeleteHistory(ctx, sessionID); err != nil {
			log.Printf("invalidate history cache failed: %v", err)
		}
	}
}

// GetHistory returns the session's chat history, read through the cache.
func (s *RAGService) GetHistory(ctx context.Context, sessionID string, limit int) ([]model.ChatMessage, error) {
	if s.historyCache != nil {
		if messages, ok, err := s.historyCache.GetHistory(ctx, sessionID); err == nil && ok {
			return messages, nil
		} else if err != nil {
			log.Printf("read history cache failed: %v", err)
		}
	}

	messages, err := s.messageRepo.ListBySessionID(sessionID, limit)
	if err != nil {
		return nil, err
	}

	if s.historyCache != nil && len(messages) > 0 {
		if err := s.historyCache.SetHistory(ctx, sessionID, messages); err != nil {
			log.Printf("write history cache failed: %v", err)
		}
	}
	return messages, nil
}
