package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kapu/astroweb-go/internal/config"
	"github.com/kapu/astroweb-go/internal/constants"
	"github.com/kapu/astroweb-go/internal/generation"
	"github.com/kapu/astroweb-go/internal/server"
	"github.com/kapu/astroweb-go/internal/service/ai"
	"github.com/kapu/astroweb-go/internal/service/cache"
	"github.com/kapu/astroweb-go/internal/service/database"
	"github.com/kapu/astroweb-go/internal/service/unsplash"
	"github.com/kapu/astroweb-go/internal/session"
)

// Container bundles assembled services for constructing the HTTP server.
type Container struct {
	Config *config.Config
	Logger *zap.Logger

	Server   *server.Server
	Sessions *session.Manager
	Models   *ai.ModelManager

	closers []func()
}

// Run serves HTTP and sweeps idle sessions until ctx is cancelled.
func (c *Container) Run(ctx context.Context) error {
	go c.Sessions.Run(ctx, constants.SessionConfig.SweepInterval, constants.SessionConfig.IdleTimeout)
	return c.Server.ListenAndServe(ctx, c.Config.Server.Addr)
}

// Close releases infrastructure clients in reverse construction order.
func (c *Container) Close() {
	if c == nil {
		return
	}
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}

// Build assembles all infrastructure services and the HTTP server. All
// heavy-weight initialization (DB/cache/AI) is performed here so that the
// handlers stay focused on request logic.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (container *Container, err error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger must not be nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var closers []func()
	defer func() {
		if err != nil {
			for i := len(closers) - 1; i >= 0; i-- {
				closers[i]()
			}
		}
	}()

	// Cache and database
	cacheSvc, err := cache.NewCacheService(cache.CacheConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create cache service: %w", err)
	}
	closers = append(closers, func() {
		_ = cacheSvc.Close()
	})

	postgresSvc, err := database.NewPostgresService(database.PostgresConfig{
		Host:     cfg.Postgres.Host,
		Port:     cfg.Postgres.Port,
		User:     cfg.Postgres.User,
		Password: cfg.Postgres.Password,
		Database: cfg.Postgres.Database,
		SSLMode:  cfg.Postgres.SSLMode,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres service: %w", err)
	}
	closers = append(closers, func() {
		_ = postgresSvc.Close()
	})

	if cfg.Postgres.EnsureSchema {
		if err := postgresSvc.EnsureSchema(ctx); err != nil {
			return nil, fmt.Errorf("failed to ensure schema: %w", err)
		}
	}

	records := database.NewGenerationRepository(postgresSvc, logger)
	allowance := cache.NewAllowanceStore(cacheSvc, cfg.Generation.StartingCredits, logger)
	shares := cache.NewShareCache(cacheSvc, logger)

	// AI stack
	modelManager, err := ai.NewModelManager(ctx, ai.ModelManagerConfig{
		GeminiAPIKey:   cfg.Gemini.APIKey,
		GeminiModel:    cfg.Gemini.Model,
		OpenAIAPIKey:   cfg.OpenAI.APIKey,
		OpenAIBaseURL:  cfg.OpenAI.BaseURL,
		OpenAIModel:    cfg.OpenAI.Model,
		EnableFallback: cfg.OpenAI.EnableFallback,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create model manager: %w", err)
	}

	opts := []generation.Option{generation.WithRecords(records)}
	if cfg.Generation.EnableLogo {
		opts = append(opts, generation.WithLogos(generation.NewLogoGenerator(modelManager, cfg.Generation.LogoModel, logger)))
	}
	if cfg.Generation.EnableHeroImage && cfg.Unsplash.AccessKey != "" {
		opts = append(opts, generation.WithImages(unsplash.NewClient(cfg.Unsplash.AccessKey, logger, unsplash.WithCache(cacheSvc))))
		logger.Info("Hero image lookup enabled", zap.String("provider", "unsplash"))
	}
	orchestrator := generation.NewOrchestrator(modelManager, allowance, logger, opts...)

	sessions := session.NewManager(logger)
	srv := server.New(server.Deps{
		Generator:     orchestrator,
		Sites:         generation.NewSites(records, shares, logger),
		Credits:       allowance,
		Sessions:      sessions,
		Logger:        logger,
		PublicBaseURL: cfg.Server.PublicBaseURL,
		WithLogo:      cfg.Generation.EnableLogo,
		WithImage:     cfg.Generation.EnableHeroImage,
		Checks: map[string]server.HealthCheck{
			"postgres": postgresSvc.Ping,
			"redis": func(ctx context.Context) error {
				return cacheSvc.WaitUntilReady(ctx, constants.RedisConfig.ReadyTimeout)
			},
		},
	})

	logger.Info("Application assembled",
		zap.String("addr", cfg.Server.Addr),
		zap.String("ai_provider", modelManager.ProviderName()),
		zap.Bool("logo", cfg.Generation.EnableLogo),
		zap.Bool("hero_image", cfg.Generation.EnableHeroImage))

	return &Container{
		Config:   cfg,
		Logger:   logger,
		Server:   srv,
		Sessions: sessions,
		Models:   modelManager,
		closers:  closers,
	}, nil
}
