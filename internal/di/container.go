// internal/di/container.go
package di

import (
	"context"
	"fleet-orchestrator/internal/actuation"
	"fleet-orchestrator/internal/api"
	"fleet-orchestrator/internal/config"
	"fleet-orchestrator/internal/database"
	"fleet-orchestrator/internal/engine"
	"fleet-orchestrator/internal/handlers"
	"fleet-orchestrator/internal/interfaces"
	"fleet-orchestrator/internal/messaging"
	"fleet-orchestrator/internal/mocks"
	"fleet-orchestrator/internal/redis"
	"fleet-orchestrator/internal/services"
	"fleet-orchestrator/internal/store"
	"fmt"
	"time"
)

// Container 의존성 주입 컨테이너
type Container struct {
	// Core Services
	Database         interfaces.DatabaseService
	Cache            interfaces.CacheService
	MessagePublisher interfaces.MessagePublisher
	Config           interfaces.ConfigProvider
	Logger           interfaces.Logger
	HeaderIDGen      interfaces.HeaderIDGenerator
	UniqueIDGen      interfaces.UniqueIDGenerator

	// Business
	Store        *store.Store
	JobSubmitter interfaces.JobSubmitter
	Engine       *engine.Engine

	// Handlers
	StatusHandler *handlers.StatusHandler
	Subscriber    *messaging.Subscriber
	API           *api.Server

	// Service
	Service *OrchestratorService
}

// NewContainer 새로운 컨테이너 생성
func NewContainer(cfg *config.Config) (*Container, error) {
	container := &Container{}

	// 1. 기본 서비스들 초기화
	container.initCoreServices(cfg)

	// 2. 인프라 서비스들 초기화
	if err := container.initInfraServices(cfg); err != nil {
		return nil, fmt.Errorf("failed to init infra services: %w", err)
	}

	// 3. 비즈니스 서비스 / 4. 핸들러 / 5. 서비스
	container.initBusinessServices()
	container.initHandlers()
	container.Service = NewOrchestratorService(container)

	return container, nil
}

// initCoreServices 핵심 서비스들 초기화
func (c *Container) initCoreServices(cfg *config.Config) {
	c.Config = services.NewConfigProvider(cfg)
	c.Logger = services.NewLogger(cfg.LogLevel)
	c.HeaderIDGen = services.NewHeaderIDGenerator()
	c.UniqueIDGen = services.NewUniqueIDGenerator()
}

// initInfraServices 인프라 서비스들 초기화
func (c *Container) initInfraServices(cfg *config.Config) error {
	// Database 초기화
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}
	c.Database = services.NewDatabaseService(db)

	// Redis 초기화
	redisClient, err := redis.NewRedisClient(cfg)
	if err != nil {
		return fmt.Errorf("redis init failed: %w", err)
	}
	c.Cache = services.NewCacheService(redisClient)

	// MQTT 초기화
	mqttClient, err := messaging.NewMQTTClient(cfg, c.Logger)
	if err != nil {
		return fmt.Errorf("mqtt init failed: %w", err)
	}
	c.MessagePublisher = services.NewMessagePublisher(mqttClient)

	return nil
}

// initBusinessServices 비즈니스 서비스들 초기화
func (c *Container) initBusinessServices() {
	c.Store = store.NewStore(c.Cache, c.Logger)
	c.JobSubmitter = actuation.NewMQTTJobSubmitter(
		c.MessagePublisher,
		c.Config,
		c.HeaderIDGen,
		c.UniqueIDGen,
		c.Logger,
	)
	c.Engine = engine.NewEngine(
		c.Store,
		c.Database,
		c.JobSubmitter,
		c.UniqueIDGen,
		c.Config,
		c.Logger,
	)
}

// initHandlers 핸들러들 초기화
func (c *Container) initHandlers() {
	c.StatusHandler = handlers.NewStatusHandler(c.Engine, c.Config, c.Logger)
	c.Subscriber = messaging.NewSubscriber(c.MessagePublisher, c.Logger)
	c.API = api.NewServer(c.Engine, c.Database, c.Cache, c.MessagePublisher, c.Logger)
}

// Cleanup 리소스 정리
func (c *Container) Cleanup() {
	if c.API != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := c.API.Shutdown(ctx); err != nil {
			c.Logger.Warnf("HTTP API shutdown error: %v", err)
		}
	}
	if c.MessagePublisher != nil {
		c.MessagePublisher.Disconnect(250)
	}
	c.Logger.Infof("Container cleanup completed")
}

// =============================================================================
// Orchestrator Service
// =============================================================================

type OrchestratorService struct {
	container *Container
}

func NewOrchestratorService(container *Container) *OrchestratorService {
	return &OrchestratorService{container: container}
}

// Start 상태 토픽 구독, 배정 스케줄러, HTTP API 시작
func (s *OrchestratorService) Start(ctx context.Context) error {
	c := s.container

	subscriptions := []messaging.Subscription{
		{
			Topic:       c.Config.GetStatusTopic(),
			QoS:         1,
			Description: "Facility status feed",
			Handler:     c.StatusHandler.HandleStatus,
		},
	}
	if err := c.Subscriber.SubscribeAll(subscriptions); err != nil {
		return err
	}

	go c.Engine.Run(ctx)

	if port := c.Config.GetHTTPPort(); port != "" {
		go func() {
			if err := c.API.Start(":" + port); err != nil {
				c.Logger.Errorf("HTTP API stopped: %v", err)
			}
		}()
	}

	c.Logger.Infof("Fleet orchestrator started (status topic %s)", c.Config.GetStatusTopic())
	return nil
}

// =============================================================================
// 팩토리 함수들 (테스트용)
// =============================================================================

// NewTestContainer 테스트용 컨테이너 생성 (Mock 의존성 사용)
func NewTestContainer(
	database interfaces.DatabaseService,
	cache interfaces.CacheService,
	messagePublisher interfaces.MessagePublisher,
	logger interfaces.Logger,
	config interfaces.ConfigProvider,
) *Container {
	container := &Container{
		Database:         database,
		Cache:            cache,
		MessagePublisher: messagePublisher,
		Logger:           logger,
		Config:           config,
		HeaderIDGen:      services.NewHeaderIDGenerator(),
		UniqueIDGen:      services.NewUniqueIDGenerator(),
	}

	container.initBusinessServices()
	container.initHandlers()
	container.Service = NewOrchestratorService(container)

	return container
}

// NewMockContainer Mock 구현체들로 구성된 테스트 컨테이너 생성
func NewMockContainer() *Container {
	return NewTestContainer(
		mocks.NewMockDatabaseService(),
		mocks.NewMockCacheService(),
		mocks.NewMockMessagePublisher(),
		mocks.NewMockLogger(),
		mocks.NewMockConfigProvider(),
	)
}
