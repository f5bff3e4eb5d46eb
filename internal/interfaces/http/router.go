// Package http assembles the gin route tree and the server around it.
package http

import (
	"github.com/gin-gonic/gin"

	"github.com/turtacn/CrimeGraph-Intelligence/internal/infrastructure/monitoring/logging"
	promx "github.com/turtacn/CrimeGraph-Intelligence/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/CrimeGraph-Intelligence/internal/interfaces/http/handlers"
	"github.com/turtacn/CrimeGraph-Intelligence/internal/interfaces/http/middleware"
)

// RouterConfig aggregates the handler and middleware dependencies of the
// route tree.
type RouterConfig struct {
	Analysis *handlers.AnalysisHandler
	Health   *handlers.HealthHandler

	Logger logging.Logger

	// Metrics feeds the per-request counters; Collector exposes the scrape
	// endpoint at MetricsPath.  All three may be zero when metrics are
	// disabled.
	Metrics     *promx.PipelineMetrics
	Collector   promx.MetricsCollector
	MetricsPath string

	// Mode is the gin mode: "debug", "release" or "test".
	Mode string
}

// NewRouter builds the complete route tree.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogging(cfg.Logger, cfg.Metrics))
	r.Use(middleware.CORS())

	if cfg.Health != nil {
		r.GET("/healthz", cfg.Health.Liveness)
		r.GET("/readyz", cfg.Health.Readiness)
	}
	if cfg.Collector != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.GET(path, gin.WrapH(cfg.Collector.Handler()))
	}

	api := r.Group("/api/v1")
	if cfg.Analysis != nil {
		api.POST("/runs", cfg.Analysis.Trigger)
		api.GET("/runs", cfg.Analysis.List)
		api.GET("/runs/:runID", cfg.Analysis.Get)
		api.GET("/runs/:runID/communities", cfg.Analysis.Communities)
		api.GET("/runs/:runID/tiers", cfg.Analysis.Tiers)
		api.GET("/runs/:runID/table", cfg.Analysis.Table)
		api.GET("/runs/:runID/summary", cfg.Analysis.Summary)
		api.GET("/runs/:runID/graphml", cfg.Analysis.GraphML)
	}
	return r
}
