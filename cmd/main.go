package main

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/yungbote/gamenight-backend/internal/clients/redis"
	"github.com/yungbote/gamenight-backend/internal/compat"
	"github.com/yungbote/gamenight-backend/internal/config"
	"github.com/yungbote/gamenight-backend/internal/data/db"
	"github.com/yungbote/gamenight-backend/internal/data/repos"
	httpx "github.com/yungbote/gamenight-backend/internal/http"
	"github.com/yungbote/gamenight-backend/internal/http/handlers"
	"github.com/yungbote/gamenight-backend/internal/platform/logger"
	"github.com/yungbote/gamenight-backend/internal/platform/metrics"
	"github.com/yungbote/gamenight-backend/internal/services"
)

func main() {
	// Logger
	logMode := os.Getenv("MODE")
	if logMode == "" {
		logMode = "dev"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env + config
	log.Info("Loading environment variables from main...")
	if err := godotenv.Load(); err != nil {
		log.Debug("No .env file found, using process environment")
	}
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Error("Could not load config", "error", err)
		os.Exit(1)
	}
	if cfg.Mode == "prod" || cfg.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Database
	dbService, err := db.NewService(cfg.Database, log)
	if err != nil {
		log.Error("Could not init database", "error", err)
		os.Exit(1)
	}
	if err := dbService.AutoMigrateAll(); err != nil {
		log.Error("Auto migration failed", "error", err)
		os.Exit(1)
	}
	gdb := dbService.DB()

	// Metrics
	var m *metrics.Metrics
	if cfg.Server.MetricsEnabled {
		m = metrics.New()
	}

	// Repos
	log.Info("Setting up Repos from main...")
	reg := repos.New(gdb, log)

	// Services
	log.Info("Setting up Services from main...")
	var scoreCache redis.ScoreCache
	if cfg.Redis.Enabled {
		scoreCache, err = redis.NewScoreCache(cfg.Redis, log)
		if err != nil {
			log.Warn("Could not init ScoreCache, scores will be computed per request", "error", err)
			scoreCache = nil
		}
	}
	scorer := compat.NewScorer(cfg.Scoring)
	compatibilityService := services.NewCompatibilityService(reg, scorer, scoreCache, m, log)
	overviewService := services.NewOverviewService(reg, log)

	// Handlers
	log.Info("Setting up handlers from main...")
	compatibilityHandler := handlers.NewCompatibilityHandler(compatibilityService)
	statsHandler := handlers.NewStatsHandler(overviewService)
	healthHandler := handlers.NewHealthHandler()

	// Router
	log.Info("Setting up router from main...")
	srv := httpx.NewServer(httpx.RouterConfig{
		Log:                  log,
		CORSOrigins:          cfg.Server.CORSOrigins,
		AvatarDir:            cfg.Server.AvatarDir,
		Metrics:              m,
		MetricsEnabled:       cfg.Server.MetricsEnabled,
		CompatibilityHandler: compatibilityHandler,
		StatsHandler:         statsHandler,
		HealthHandler:        healthHandler,
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	fmt.Printf("Server listening on %s\n", addr)
	if err := srv.Run(addr); err != nil {
		log.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
