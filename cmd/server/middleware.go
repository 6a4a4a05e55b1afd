// Package main provides the transfer advising server entry point.
package main

import (
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"

	"github.com/dvc-advising/transferbot-go/internal/httpapi"
	"github.com/dvc-advising/transferbot-go/internal/logger"
	"github.com/dvc-advising/transferbot-go/internal/metrics"
	"github.com/dvc-advising/transferbot-go/internal/ratelimit"
	"github.com/dvc-advising/transferbot-go/internal/sentry"
)

// setupMiddleware installs the global middleware chain.
func setupMiddleware(router *gin.Engine, m *metrics.Metrics, userLimiter *ratelimit.KeyedLimiter, log *logger.Logger) {
	router.Use(gin.Recovery())
	if sentry.IsEnabled() {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(securityHeadersMiddleware())
	router.Use(httpapi.RequestIDMiddleware())
	router.Use(httpapi.MetricsMiddleware(m))
	router.Use(httpapi.LoggingMiddleware(log))
	router.Use(httpapi.RateLimitMiddleware(userLimiter))
}

// securityHeadersMiddleware adds security headers to all responses
// Reference: https://gin-gonic.com/en/docs/examples/security-headers
func securityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Prevent MIME type sniffing
		c.Header("X-Content-Type-Options", "nosniff")
		// Prevent clickjacking
		c.Header("X-Frame-Options", "DENY")
		// Strict referrer policy
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		// Restrict permissions
		c.Header("Permissions-Policy", "geolocation=(), microphone=(), camera=()")
		// Content Security Policy - prevent XSS attacks
		c.Header("Content-Security-Policy", "default-src 'self'")
		c.Next()
	}
}
