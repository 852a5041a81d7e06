package http

import (
	"github.com/gin-gonic/gin"

	httpH "github.com/yungbote/gamenight-backend/internal/http/handlers"
	httpMW "github.com/yungbote/gamenight-backend/internal/http/middleware"
	"github.com/yungbote/gamenight-backend/internal/platform/logger"
	"github.com/yungbote/gamenight-backend/internal/platform/metrics"
)

type RouterConfig struct {
	Log            *logger.Logger
	CORSOrigins    []string
	AvatarDir      string
	Metrics        *metrics.Metrics
	MetricsEnabled bool

	CompatibilityHandler *httpH.CompatibilityHandler
	StatsHandler         *httpH.StatsHandler
	HealthHandler        *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS(cfg.CORSOrigins))
	r.Use(httpMW.Metrics(cfg.Metrics))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	// Prometheus exposition
	if cfg.MetricsEnabled && cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	// Imported avatars, served straight from disk
	if cfg.AvatarDir != "" {
		r.Static("/avatars", cfg.AvatarDir)
	}

	api := r.Group("/api/v1")
	{
		// Compatibility scoring
		if cfg.CompatibilityHandler != nil {
			api.GET("/compatibility/players/:playerID", cfg.CompatibilityHandler.RankGames)
			api.GET("/compatibility/players/:playerID/games/:gameID", cfg.CompatibilityHandler.ScoreGame)
		}

		// Imported data overview
		if cfg.StatsHandler != nil {
			api.GET("/stats/overview", cfg.StatsHandler.Overview)
			api.GET("/imports", cfg.StatsHandler.RecentImports)
		}
	}

	return r
}
