package bootstrap

import (
	"context"
	"fmt"

	"ai-studynotes-be/internal/config"
	"ai-studynotes-be/internal/controller"
	"ai-studynotes-be/internal/pkg/logger"
	"ai-studynotes-be/internal/repository/contract"
	"ai-studynotes-be/internal/repository/memory"
	"ai-studynotes-be/internal/repository/redisstore"
	"ai-studynotes-be/internal/repository/unitofwork"
	"ai-studynotes-be/internal/service"
	"ai-studynotes-be/pkg/events"

	pktNats "ai-studynotes-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	StudyController controller.IStudyController

	// Background Services (Exposed for main.go to run). Nil when history is disabled.
	ConsumerService service.IConsumerService

	Logger logger.ILogger

	closers []func()
}

// NewContainer wires every dependency. db may be nil, which disables study set history.
func NewContainer(db *gorm.DB, cfg *config.Config) (*Container, error) {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	c := &Container{Logger: sysLogger}

	runner, err := NewPipelineRunner(cfg, sysLogger, prometheus.DefaultRegisterer)
	if err != nil {
		return nil, err
	}

	// 2. Session Storage
	sessionRepo, err := c.newSessionRepository(cfg)
	if err != nil {
		return nil, err
	}

	// 3. Infrastructure
	var eventPublisher events.Publisher
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		sysLogger.Warn("BOOTSTRAP", "Failed to connect to NATS, study set events are off", map[string]interface{}{
			"url":   cfg.App.NatsURL,
			"error": err.Error(),
		})
	} else {
		eventPublisher = natsPub
		c.closers = append(c.closers, natsPub.Close)
	}

	// 4. History (Event Bus + Persistence)
	var (
		publisherService service.IPublisherService
		uowFactory       unitofwork.RepositoryFactory
	)
	if db != nil {
		uowFactory = unitofwork.NewRepositoryFactory(db)
		pubSub := gochannel.NewGoChannel(
			gochannel.Config{OutputChannelBuffer: 64},
			watermill.NewStdLogger(false, false),
		)
		c.closers = append(c.closers, func() { _ = pubSub.Close() })

		publisherService = service.NewPublisherService(cfg.App.StudySetTopic, pubSub)
		c.ConsumerService = service.NewConsumerService(pubSub, cfg.App.StudySetTopic, uowFactory, eventPublisher, sysLogger)
	} else {
		sysLogger.Info("BOOTSTRAP", "No database configured, study set history disabled", nil)
	}

	// 5. Services & Controllers
	studyService := service.NewStudyService(runner, sessionRepo, publisherService, uowFactory, sysLogger)
	c.StudyController = controller.NewStudyController(studyService, cfg.App.JwtSecret)

	return c, nil
}

func (c *Container) newSessionRepository(cfg *config.Config) (contract.SessionRepository, error) {
	if cfg.Session.Store != "redis" {
		return memory.NewSessionRepository(cfg.Session.TTL), nil
	}

	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		c.Logger.Warn("BOOTSTRAP", "Failed to parse Redis URL, using direct Addr", map[string]interface{}{
			"error": err.Error(),
		})
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("connect redis session store: %w", err)
	}
	c.closers = append(c.closers, func() { _ = rdb.Close() })

	return redisstore.NewSessionRepository(rdb, cfg.Session.TTL), nil
}

// Close releases broker and cache connections.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	_ = c.Logger.Sync()
}
