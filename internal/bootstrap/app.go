package bootstrap

import (
	"context"
	"fmt"
	"time"

	qdrantclient "github.com/qdrant/go-client/qdrant"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"tenantrag/internal/config"
	"tenantrag/internal/model"
	mysqlClient "tenantrag/internal/platform/mysql"
	qdrantPlatform "tenantrag/internal/platform/qdrant"
	rabbitmqClient "tenantrag/internal/platform/rabbitmq"
	redisClient "tenantrag/internal/platform/redis"
	"tenantrag/internal/repository"
	"tenantrag/internal/worker"
)

type App struct {
	Config     *config.Config
	MySQL      *gorm.DB
	Redis      *redis.Client
	MQConn     *amqp.Connection
	Qdrant     *qdrantclient.Client
	ChatWorker *worker.ChatPersistWorker

	StartedAt time.Time
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}

	mysqlDB, err := mysqlClient.New(ctx, cfg.MySQLDSN(), cfg.MySQL.MaxOpenConns, cfg.MySQL.MaxIdleConns)
	if err != nil {
		return nil, err
	}
	if err := mysqlDB.AutoMigrate(
		&model.Organization{},
		&model.Workspace{},
		&model.Document{},
		&model.ChatMessage{},
	); err != nil {
		return nil, fmt.Errorf("auto migrate tables failed: %w", err)
	}

	redisCli, err := redisClient.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.PoolSize)
	if err != nil {
		return nil, err
	}

	mqConn, err := rabbitmqClient.New(ctx, cfg.RabbitMQ.URL)
	if err != nil {
		return nil, err
	}

	qdrantCli, err := qdrantPlatform.New(ctx, cfg.Qdrant.Host, cfg.Qdrant.Port, cfg.Qdrant.APIKey, cfg.Qdrant.UseTLS)
	if err != nil {
		return nil, err
	}

	messageRepo := repository.NewChatMessageRepository(mysqlDB)
	chatWorker := worker.NewChatPersistWorker(mqConn, messageRepo, cfg.RabbitMQ.ChatPersistQueue)
	if err := chatWorker.Start(ctx); err != nil {
		return nil, fmt.Errorf("start chat persist worker failed: %w", err)
	}

	return &App{
		Config:     cfg,
		MySQL:      mysqlDB,
		Redis:      redisCli,
		MQConn:     mqConn,
		Qdrant:     qdrantCli,
		ChatWorker: chatWorker,
		StartedAt:  time.Now(),
	}, nil
}

func (a *App) Close() error {
	var closeErr error
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	if a.ChatWorker != nil {
		a.ChatWorker.Close()
	}
	if a.MQConn != nil {
		if err := a.MQConn.Close(); err != nil {
			closeErr = err
		}
	}
	if a.Qdrant != nil {
		if err := a.Qdrant.Close(); err != nil {
			closeErr = err
		}
	}
	if a.MySQL != nil {
		sqlDB, err := a.MySQL.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				closeErr = err
			}
		}
	}
	return closeErr
}
