package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"tenantrag/internal/ai"
	appsvc "tenantrag/internal/app"
	"tenantrag/internal/bootstrap"
	"tenantrag/internal/cache"
	"tenantrag/internal/chunker"
	"tenantrag/internal/platform/rabbitmq"
	"tenantrag/internal/rag"
	"tenantrag/internal/repository"
	"tenantrag/internal/transport/http/handler"
	"tenantrag/internal/vectorindex"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/healthz", healthHandler.Check)

	orgRepo := repository.NewOrganizationRepository(app.MySQL)
	workspaceRepo := repository.NewWorkspaceRepository(app.MySQL)
	documentRepo := repository.NewDocumentRepository(app.MySQL)
	messageRepo := repository.NewChatMessageRepository(app.MySQL)
	tenantStore := repository.NewTenantStore(orgRepo, workspaceRepo, documentRepo)

	llmClient := ai.NewClient(app.Config.LLM.BaseURL, app.Config.LLM.APIKey)
	embedder := ai.NewEmbedder(llmClient, app.Config.LLM.EmbeddingModel)
	index := vectorindex.NewIndex(app.Qdrant, app.Config.LLM.EmbeddingDimensions)
	splitter := chunker.New(chunker.Config{
		ChunkSize:      app.Config.RAG.ChunkSize,
		ChunkOverlap:   app.Config.RAG.ChunkOverlap,
		MinSectionSize: app.Config.RAG.MinSectionSize,
		MaxSectionSize: app.Config.RAG.MaxSectionSize,
	})

	pipeline := rag.NewPipeline(splitter, embedder, index, tenantStore, app.Config.RAG.EmbeddingBatchSize)
	retriever := rag.NewRetriever(embedder, index, app.Config.RAG.TopK)

	historyCache := cache.NewHistoryCache(
		app.Redis,
		time.Duration(app.Config.Redis.HistoryTTLSeconds)*time.Second,
	)
	publisher := rabbitmq.NewChatPublisher(app.MQConn, app.Config.RabbitMQ.ChatPersistQueue)

	ragService := appsvc.NewRAGService(
		pipeline,
		retriever,
		llmClient,
		app.Config.LLM.Model,
		messageRepo,
		publisher,
		historyCache,
	)
	tenantService := appsvc.NewTenantService(orgRepo, workspaceRepo, documentRepo)

	documentHandler := handler.NewDocumentHandler(ragService, tenantService)
	chatHandler := handler.NewChatHandler(ragService)
	tenantHandler := handler.NewTenantHandler(tenantService)

	v1 := router.Group("/api/v1")

	docGroup := v1.Group("/docs")
	docGroup.POST("", documentHandler.Upload)
	docGroup.PUT("", documentHandler.Update)
	docGroup.DELETE("", documentHandler.Delete)
	docGroup.GET("/organization/:organization_id/workspace/:workspace_id", documentHandler.List)

	v1.POST("/chat", chatHandler.Ask)
	v1.GET("/chat/history/:session_id", chatHandler.History)

	v1.GET("/organizations", tenantHandler.ListOrganizations)
	v1.GET("/organizations/:organization_id/workspaces", tenantHandler.ListWorkspaces)

	return router
}
