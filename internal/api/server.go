// Package api exposes the prediction service over HTTP.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/matchday/internal/config"
	"github.com/yourusername/matchday/internal/metrics"
	"github.com/yourusername/matchday/internal/service"
)

// Server wraps the gin engine and the underlying http.Server.
type Server struct {
	engine *gin.Engine
	http   *http.Server
	log    *logrus.Logger
}

// NewServer builds the router and binds the handlers.
func NewServer(cfg *config.Config, predictor *service.Predictor, log *logrus.Logger) *Server {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger(log))

	h := &handlers{predictor: predictor, log: log}
	SetupRoutes(engine, h, cfg.Metrics.Enabled)

	return &Server{
		engine: engine,
		http: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:      engine,
			ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
			WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
		},
		log: log,
	}
}

// SetupRoutes binds all routes on the engine.
func SetupRoutes(router *gin.Engine, h *handlers, metricsEnabled bool) {
	router.GET("/health", h.health)
	if metricsEnabled {
		router.GET("/metrics", gin.WrapH(metrics.Handler()))
	}

	api := router.Group("/api")
	{
		api.GET("/predictions", h.getPredictions)
		api.GET("/stats", h.getStats)
		api.GET("/history", h.getHistory)

		cron := api.Group("/cron")
		{
			cron.POST("/predictions", h.runPredictions)
			cron.POST("/reconcile", h.runReconcile)
		}
	}
}

// Start serves until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	s.log.WithField("addr", s.http.Addr).Info("HTTP server listening")
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// Engine exposes the router for tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func requestLogger(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
		}).Debug("Request handled")
	}
}
