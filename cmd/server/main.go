package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"misimuslim/internal/core"
	"misimuslim/internal/genai"
	"misimuslim/internal/media"
	httpProtocol "misimuslim/internal/protocols/http"
	wsProtocol "misimuslim/internal/protocols/websocket"
	"misimuslim/internal/repository"
	"misimuslim/pkg/config"
	"misimuslim/pkg/database"
	"misimuslim/pkg/logger"
)

func main() {
	// Load .env for local development; missing file is fine
	_ = godotenv.Load()

	cfg, err := config.Load(configPath())
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})

	logger.Info("Starting MisiMuslim server...")

	// Database
	dbCfg := database.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.Database,
		SSLMode:         cfg.Database.SSLMode,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime.Std(),
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime.Std(),
		Timeout:         cfg.Database.Timeout.Std(),
	}

	if err := database.Migrate(dbCfg); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	logger.Info("Database migrations applied")

	pool, err := database.NewPGXPool(dbCfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()
	logger.Info("Connected to PostgreSQL database")

	// Redis is optional; the services degrade to database reads without it
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = database.NewRedisClient(cfg.Redis.URI)
		if err != nil {
			logger.Warnf("Redis unavailable, caching disabled: %v", err)
			redisClient = nil
		} else {
			defer redisClient.Close()
			logger.Info("Connected to Redis")
		}
	}

	// Repositories
	userRepo := repository.NewUserRepository(pool)
	missionRepo := repository.NewMissionRepository(pool)
	forumRepo := repository.NewForumRepository(pool)

	// External collaborators
	genaiClient := genai.NewClient(genai.Config{
		BaseURL: cfg.GenAI.BaseURL,
		APIKey:  cfg.GenAI.APIKey,
		Model:   cfg.GenAI.Model,
		Timeout: cfg.GenAI.Timeout.Std(),
	})

	var mediaStore core.MediaStore
	if cfg.Cloudinary.CloudName != "" {
		store, err := media.NewStore(cfg.Cloudinary.CloudName, cfg.Cloudinary.APIKey, cfg.Cloudinary.APISecret)
		if err != nil {
			log.Fatalf("Failed to init media storage: %v", err)
		}
		mediaStore = store
	} else {
		logger.Warn("Cloudinary not configured, media uploads disabled")
	}

	// Live feed hub
	wsHub := wsProtocol.NewHub()

	// Core services
	counts := core.MissionCounts{
		Daily:   cfg.Missions.DailyCount,
		Weekly:  cfg.Missions.WeeklyCount,
		Monthly: cfg.Missions.MonthlyCount,
	}
	authSvc := core.NewAuthService(userRepo, missionRepo, genaiClient, counts,
		cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Expiration.Std())
	missionSvc := core.NewMissionService(userRepo, missionRepo, genaiClient, counts)
	rewardSvc := core.NewRewardService(userRepo)
	forumSvc := core.NewForumService(forumRepo, wsHub)
	leaderboardSvc := core.NewLeaderboardService(userRepo, redisClient)
	quoteSvc := core.NewQuoteService(genaiClient, redisClient)
	verifySvc := core.NewVerificationService(missionRepo, missionSvc, genaiClient, mediaStore)
	profileSvc := core.NewProfileService(userRepo, genaiClient, mediaStore)

	logger.Info("Initialized all core services")

	wsHandler := wsProtocol.NewHandler(wsHub, authSvc)

	httpServer := httpProtocol.NewServer(
		cfg,
		authSvc,
		missionSvc,
		rewardSvc,
		forumSvc,
		leaderboardSvc,
		quoteSvc,
		verifySvc,
		profileSvc,
		wsHub,
		wsHandler,
	)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Errorf("HTTP server panic recovered: %v", r)
			}
		}()
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		logger.Info(fmt.Sprintf("Starting HTTP server on %s", addr))
		if err := httpServer.Start(addr); err != nil {
			logger.Errorf("HTTP server error: %v", err)
		}
	}()

	logger.Info("Server started, press Ctrl+C to shutdown")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	logger.Info(fmt.Sprintf("Received signal: %v", sig))

	logger.Info("Shutting down...")
	wsHub.Stop()
	logger.Info("Shutdown complete")
}

func configPath() string {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path
	}
	return "./configs/development.yaml"
}
