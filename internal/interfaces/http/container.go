package http

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"gorm.io/gorm"

	"github.com/pulseboard/pulseboard/internal/application/connection/usecases"
	"github.com/pulseboard/pulseboard/internal/infrastructure/auth"
	"github.com/pulseboard/pulseboard/internal/infrastructure/cache"
	"github.com/pulseboard/pulseboard/internal/infrastructure/config"
	"github.com/pulseboard/pulseboard/internal/infrastructure/metrics"
	"github.com/pulseboard/pulseboard/internal/infrastructure/oauth"
	"github.com/pulseboard/pulseboard/internal/infrastructure/repository"
	"github.com/pulseboard/pulseboard/internal/infrastructure/scheduler"
	"github.com/pulseboard/pulseboard/internal/interfaces/adapters"
	"github.com/pulseboard/pulseboard/internal/interfaces/http/handlers"
	"github.com/pulseboard/pulseboard/internal/interfaces/http/middleware"
	"github.com/pulseboard/pulseboard/internal/shared/logger"
)

// Container holds infrastructure, repositories, use cases, handlers and the
// background scheduler, wired together once at startup.
type Container struct {
	// Core infrastructure
	engine *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
	log    logger.Interface
	redis  *redis.Client

	repos *repositories
	ucs   *allUseCases
	hdlrs *allHandlers

	// Middlewares
	authMiddleware *middleware.AuthMiddleware
	// rateLimiter is nil when Redis is not configured.
	rateLimiter *middleware.RateLimiter

	connectorManager *oauth.ConnectorManager
	stateLedger      usecases.StateLedger
	schedulerManager *scheduler.SchedulerManager
}

// NewContainer creates a new Container with all dependencies wired together.
func NewContainer(db *gorm.DB, cfg *config.Config, log logger.Interface) (*Container, error) {
	c := &Container{
		engine: gin.New(),
		db:     db,
		cfg:    cfg,
		log:    log,
	}

	// Section 1: Infrastructure - Redis, repositories, connectors
	if err := c.initInfrastructure(); err != nil {
		return nil, err
	}

	// Section 2: Connections - use cases and handlers
	c.initConnections()

	// Section 3: Middlewares
	c.initMiddlewares()

	// Section 4: Background token refresh
	if err := c.initScheduler(); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Container) initInfrastructure() error {
	c.stateLedger = cache.NopStateLedger{}
	if c.cfg.Redis.Enabled() {
		client, err := cache.NewRedisClient(context.Background(), &c.cfg.Redis)
		if err != nil {
			return err
		}
		c.redis = client
		c.stateLedger = cache.NewRedisStateLedger(client, c.cfg.OAuth.StateTTL())
		c.log.Infow("redis connected, oauth state ledger enabled")
	} else {
		c.log.Warnw("redis not configured, oauth state is checked against the cookie only")
	}

	c.repos = &repositories{
		connectionRepo: repository.NewPlatformConnectionRepository(c.db, c.log),
	}

	c.connectorManager = oauth.NewConnectorManager(
		c.cfg.Server.BaseURL(),
		oauth.NewEnvCredentialSource(viper.GetViper()),
		c.log.Named("oauth"),
		oauth.WithTimeouts(c.cfg.OAuth.ExchangeTimeout(), c.cfg.OAuth.ProfileTimeout()),
	)
	return nil
}

func (c *Container) initConnections() {
	connectors := adapters.NewConnectorProviderAdapter(c.connectorManager)
	recorder := metrics.NewRecorder()
	repo := c.repos.connectionRepo

	c.ucs = &allUseCases{
		initiateConnectionUC: usecases.NewInitiateConnectionUseCase(connectors, c.stateLedger, recorder, c.log),
		handleCallbackUC:     usecases.NewHandleConnectionCallbackUseCase(connectors, c.stateLedger, repo, recorder, nil, c.log),
		listConnectionsUC:    usecases.NewListConnectionsUseCase(repo, c.log),
		disconnectPlatformUC: usecases.NewDisconnectPlatformUseCase(connectors, repo, nil, c.log),
		refreshConnectionUC:  usecases.NewRefreshConnectionUseCase(connectors, repo, recorder, nil, c.log),
		refreshExpiringConnUC: usecases.NewRefreshExpiringConnectionsUseCase(
			connectors, repo, recorder,
			time.Duration(c.cfg.Refresh.WindowMinutes)*time.Minute,
			c.cfg.Refresh.BatchSize,
			nil,
			c.log,
		),
	}

	c.hdlrs = &allHandlers{
		oauthConnectHandler: handlers.NewOAuthConnectHandler(
			c.ucs.initiateConnectionUC,
			c.ucs.handleCallbackUC,
			c.cfg.Server,
			c.cfg.Cookie,
			c.cfg.OAuth.StateTTL(),
			c.log,
		),
		connectionHandler: handlers.NewConnectionHandler(
			c.ucs.listConnectionsUC,
			c.ucs.disconnectPlatformUC,
			c.ucs.refreshConnectionUC,
		),
		healthHandler: handlers.NewHealthHandler(c.db, c.redis),
	}
}

func (c *Container) initMiddlewares() {
	verifier := auth.NewSessionVerifier(c.cfg.Supabase.JWTSecret)
	c.authMiddleware = middleware.NewAuthMiddleware(verifier, c.cfg.Session.CookieName, c.log)

	if c.redis != nil {
		c.rateLimiter = middleware.NewRateLimiter(
			c.redis,
			c.cfg.RateLimit.Limit,
			time.Duration(c.cfg.RateLimit.WindowSeconds)*time.Second,
			c.log,
		)
	}
}

func (c *Container) initScheduler() error {
	if !c.cfg.Refresh.Enabled {
		c.log.Infow("token refresh scheduler disabled")
		return nil
	}

	manager, err := scheduler.NewSchedulerManager(c.log.Named("scheduler"))
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}
	interval := time.Duration(c.cfg.Refresh.IntervalMinutes) * time.Minute
	if err := manager.RegisterTokenRefreshJob(c.ucs.refreshExpiringConnUC, interval); err != nil {
		return fmt.Errorf("failed to register token refresh job: %w", err)
	}
	c.schedulerManager = manager
	return nil
}
