package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"chronicle/internal/actions"
	"chronicle/internal/config"
	"chronicle/internal/constants"
	"chronicle/internal/directory"
	"chronicle/internal/dispatch"
	"chronicle/internal/logger"
	"chronicle/internal/management"
	"chronicle/internal/platform"
	"chronicle/internal/resolver"
	"chronicle/pkg/bootstrap"
	"chronicle/pkg/cel"
	"chronicle/pkg/circuitbreaker"
	"chronicle/pkg/health"
	"chronicle/pkg/metrics"
	"chronicle/pkg/middleware"
	"chronicle/pkg/ratelimit"
	"chronicle/pkg/tracing"
)

type App struct {
	config         *config.Config
	logger         logger.Logger
	base           *bootstrap.Base
	dbConnector    *bootstrap.DatabaseConnector
	redisClient    *redis.Client
	mongoClient    *mongo.Client
	dispatcher     *dispatch.Dispatcher
	server         *http.Server
	router         *gin.Engine
	tracerProvider *tracing.TracerProvider
}

func NewApp(cfg *config.Config, log logger.Logger) *App {
	return &App{
		config:      cfg,
		logger:      log,
		base:        bootstrap.NewBase(cfg, log),
		dbConnector: bootstrap.NewDatabaseConnector(cfg, log),
	}
}

func (a *App) Initialize(ctx context.Context) error {
	tp, err := tracing.Init(a.config.Tracing, "chronicle")
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	a.tracerProvider = tp

	if err := a.initDatabases(ctx); err != nil {
		return fmt.Errorf("failed to initialize databases: %w", err)
	}

	if err := a.base.InitBroker("chronicle"); err != nil {
		return fmt.Errorf("failed to initialize broker: %w", err)
	}

	if err := a.initDispatcher(); err != nil {
		return fmt.Errorf("failed to initialize dispatcher: %w", err)
	}

	if err := a.initServer(); err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}

	return nil
}

func (a *App) initDatabases(ctx context.Context) error {
	redisClient, err := a.dbConnector.InitRedis(ctx)
	if err != nil {
		return err
	}
	a.redisClient = redisClient

	mongoClient, err := a.dbConnector.InitMongoDB(ctx)
	if err != nil {
		return err
	}
	if mongoClient == nil {
		return fmt.Errorf("mongodb is required, set database.mongodb.uri")
	}
	a.mongoClient = mongoClient

	return nil
}

func (a *App) initDispatcher() error {
	dbName := a.config.Database.MongoDB.Database
	if dbName == "" {
		dbName = constants.DefaultMongoDBName
	}
	mongoDB := a.mongoClient.Database(dbName)

	var repo management.Repository = management.NewRepository(mongoDB)

	if a.config.CircuitBreaker.Enabled {
		cbConfig := circuitbreaker.DefaultConfig("management-repository")
		if a.config.CircuitBreaker.MaxRequests > 0 {
			cbConfig.MaxRequests = a.config.CircuitBreaker.MaxRequests
		}
		if a.config.CircuitBreaker.Interval > 0 {
			cbConfig.Interval = a.config.CircuitBreaker.Interval
		}
		if a.config.CircuitBreaker.Timeout > 0 {
			cbConfig.Timeout = a.config.CircuitBreaker.Timeout
		}
		repo = management.NewBreakerRepository(repo, cbConfig)
	}

	ttl := a.config.Database.Redis.TTLSeconds
	if ttl <= 0 {
		ttl = constants.DefaultCacheTTLSeconds
	}
	repo = management.NewCachedRepository(repo, a.redisClient, ttl, a.logger)

	interp := actions.NewInterpreter(a.logger)

	evaluator, err := cel.NewEvaluator()
	if err != nil {
		return fmt.Errorf("failed to create condition evaluator: %w", err)
	}

	audit := management.NewAuditLogger(mongoDB)
	svc := management.NewService(repo, interp, evaluator, a.logger, management.WithAudit(audit))

	dir := directory.New(a.logger)
	res := resolver.New(dir, a.config.Dispatch.FanoutLimit, a.logger)

	commandsTopic := a.config.Broker.Kafka.CommandsTopic
	if commandsTopic == "" {
		commandsTopic = constants.DefaultCommandsTopic
	}
	pc := platform.NewGatewayClient(a.base.Producer, commandsTopic, a.logger)

	a.dispatcher = dispatch.NewDispatcher(svc, pc, res, dir, interp, evaluator, a.logger)

	a.initRouter(svc)
	return nil
}

func (a *App) initRouter(svc management.Service) {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	if a.config.Tracing.Enabled {
		router.Use(tracing.GinMiddleware("chronicle"))
	}

	router.Use(middleware.RecoveryMiddleware(a.logger))
	router.Use(middleware.LoggerMiddleware(a.logger))
	router.Use(middleware.RequestIDMiddleware())

	if a.config.Management.RateLimit.Enabled {
		rateLimitConfig := ratelimit.RateLimitConfig{
			RPS:             a.config.Management.RateLimit.RPS,
			Burst:           a.config.Management.RateLimit.Burst,
			CleanupInterval: time.Duration(a.config.Management.RateLimit.CleanupInterval) * time.Second,
			MaxAge:          time.Duration(a.config.Management.RateLimit.MaxAge) * time.Second,
		}
		router.Use(ratelimit.RateLimitMiddleware(rateLimitConfig))
		a.logger.InfowCtx(context.Background(), "Rate limiting enabled", "rps", rateLimitConfig.RPS, "burst", rateLimitConfig.Burst)
	}

	handler := management.NewHandler(svc, a.logger)
	handler.RegisterRoutes(router)

	metrics.RegisterDispatchMetrics()
	metrics.RegisterBrokerMetrics()
	metrics.RegisterManagementMetrics()
	metrics.RegisterCircuitBreakerMetrics()

	healthRegistry := health.NewCheckerRegistry()
	healthRegistry.Register(health.NewRedisChecker(a.redisClient))
	healthRegistry.Register(health.NewMongoDBChecker(a.mongoClient))

	router.GET("/health", func(c *gin.Context) {
		h := healthRegistry.Check(c.Request.Context())
		statusCode := http.StatusOK
		if h.Status == health.StatusUnhealthy {
			statusCode = http.StatusServiceUnavailable
		}
		c.JSON(statusCode, h)
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	a.router = router
}

func (a *App) initServer() error {
	a.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", a.config.Server.Port),
		Handler: a.router,
	}
	return nil
}

func (a *App) Run(ctx context.Context) error {
	errChan := make(chan error, 2)

	eventsTopic := a.config.Broker.Kafka.EventsTopic
	if eventsTopic == "" {
		eventsTopic = constants.DefaultEventsTopic
	}

	go func() {
		a.logger.InfowCtx(ctx, "Consuming gateway events", "topic", eventsTopic)
		if err := a.base.Consumer.Consume(ctx, eventsTopic, a.dispatcher.OnEvent); err != nil && ctx.Err() == nil {
			errChan <- fmt.Errorf("consumer error: %w", err)
		}
	}()

	go func() {
		a.logger.InfowCtx(ctx, "Server listening", "port", a.config.Server.Port)
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		return a.Shutdown(ctx)
	case err := <-errChan:
		a.Shutdown(ctx)
		return err
	}
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.InfowCtx(ctx, "Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()

	var errs []error

	if a.server != nil {
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("server shutdown error: %w", err))
		}
	}

	errs = append(errs, a.base.ShutdownBroker()...)

	if a.tracerProvider != nil {
		if err := a.tracerProvider.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider shutdown error: %w", err))
		}
	}

	errs = append(errs, a.dbConnector.ShutdownDatabases(shutdownCtx, a.redisClient, a.mongoClient)...)

	if len(errs) > 0 {
		return fmt.Errorf("shutdown errors: %v", errs)
	}

	a.logger.InfowCtx(ctx, "Exited successfully")
	return nil
}
