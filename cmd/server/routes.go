// Package main provides the transfer advising server entry point.
package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dvc-advising/transferbot-go/internal/campus"
	"github.com/dvc-advising/transferbot-go/internal/config"
	"github.com/dvc-advising/transferbot-go/internal/httpapi"
	"github.com/dvc-advising/transferbot-go/internal/session"
	"github.com/dvc-advising/transferbot-go/internal/storage"
)

// setupRoutes configures all HTTP routes
func setupRoutes(router *gin.Engine, api *httpapi.Handler, db *storage.DB, sessions *session.Manager, registry *prometheus.Registry, cfg *config.Config) {
	// Health check endpoints
	// Liveness Probe - checks if the process is alive, never dependencies
	healthHandler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
	router.GET("/healthz", healthHandler)
	router.HEAD("/healthz", healthHandler)

	// Readiness Probe - database reachable and articulation data loaded
	readyHandler := func(c *gin.Context) {
		if err := db.Ready(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "not ready",
				"reason": err.Error(),
			})
			return
		}

		counts := gin.H{}
		loaded := 0
		for _, key := range campus.All {
			n, _ := db.CountRows(c.Request.Context(), key)
			counts[key.String()] = n
			if n > 0 {
				loaded++
			}
		}
		if loaded == 0 {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "not ready",
				"reason": "no articulation data loaded",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":   "ready",
			"database": "connected",
			"rows":     counts,
			"sessions": sessions.Len(),
		})
	}
	router.GET("/ready", readyHandler)
	router.HEAD("/ready", readyHandler)

	// Chat API
	apiGroup := router.Group("/api")
	apiGroup.POST("/chat", api.Chat)
	apiGroup.GET("/session/:id", api.SessionState)
	apiGroup.DELETE("/session/:id", api.EndSession)

	// Legacy single-shot endpoint kept for the original frontend
	router.POST("/prompt", api.Chat)

	// Prometheus metrics endpoint, basic auth when configured
	metricsHandler := gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	if cfg.MetricsPassword != "" {
		authorized := router.Group("/", gin.BasicAuth(gin.Accounts{
			cfg.MetricsUsername: cfg.MetricsPassword,
		}))
		authorized.GET("/metrics", metricsHandler)
	} else {
		router.GET("/metrics", metricsHandler)
	}
}
