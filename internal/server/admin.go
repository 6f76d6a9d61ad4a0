package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/secure"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/memds/memds/internal/keyspace"
)

// ZapLogger is gin middleware that logs each admin request through log.
func ZapLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("route", route),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		}

		switch {
		case c.Writer.Status() >= 500:
			log.Error("admin request", fields...)
		case c.Writer.Status() >= 400:
			log.Warn("admin request", fields...)
		default:
			log.Info("admin request", fields...)
		}
	}
}

// NewAdminRouter builds the ambient admin HTTP surface: health check,
// prometheus metrics, and a small debug/stats endpoint. This surface sits
// alongside the spec'd raw TCP wire protocol; it never mutates the
// keyspace.
func NewAdminRouter(log *zap.Logger, db *keyspace.DB) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(secure.New(secure.Config{
		FrameDeny:          true,
		ContentTypeNosniff: true,
	}))
	r.Use(cors.New(cors.Config{
		AllowMethods: []string{"GET"},
		AllowOrigins: []string{"*"},
		MaxAge:       12 * time.Hour,
	}))
	r.Use(ZapLogger(log.Named("admin")))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/debug/stats", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"keys": db.KeyCount()})
	})

	return r
}
