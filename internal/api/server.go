// Package api exposes the scoring engine over HTTP: calculator discovery,
// computation, structured-note export, the calculation history and a
// websocket stream for live recomputation while a form is being filled in.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/clinscore-server/internal/domain"
	"github.com/clinscore-server/internal/engine"
	"github.com/clinscore-server/internal/registry"
)

// Server is the HTTP front end.
type Server struct {
	logger   *logrus.Logger
	config   *domain.ServerConfig
	engine   *engine.Engine
	registry *registry.Registry
	history  domain.HistoryStore
	router   *gin.Engine
	server   *http.Server
}

// NewServer wires the router. The history store may be a NopStore; handlers
// never assume persistence succeeded.
func NewServer(logger *logrus.Logger, cfg *domain.ServerConfig, eng *engine.Engine,
	reg *registry.Registry, history domain.HistoryStore) *Server {
	if logger.GetLevel() != logrus.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(requestIDMiddleware())
	router.Use(rateLimitMiddleware(cfg.RatePerSecond, cfg.RateBurst))

	s := &Server{
		logger:   logger,
		config:   cfg,
		engine:   eng,
		registry: reg,
		history:  history,
		router:   router,
	}
	s.setupRoutes()
	return s
}

// Start serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("addr", addr).Info("HTTP server listening")
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return s.server.Shutdown(shutdownCtx)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	v1 := s.router.Group("/api/v1")
	{
		v1.GET("/calculators", s.handleListCalculators)
		v1.GET("/calculators/:id", s.handleDescribeCalculator)
		v1.POST("/calculators/:id/compute", s.handleCompute)
		v1.POST("/calculators/:id/note", s.handleNote)
		v1.GET("/calculators/:id/results", s.handleListResults)
		v1.GET("/calculators/:id/live", s.handleLive)
		v1.GET("/results/:id", s.handleGetResult)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "healthy",
		"calculators": len(s.registry.List()),
		"timestamp":   time.Now().UTC(),
	})
}
