// Package http is the thin HTTP adapter over the application services. It
// owns request parsing, identity extraction, authorization checks via the
// gate, and the mapping from the error taxonomy to status codes.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/talentflow/recruitment-backend/internal/authz"
	"github.com/talentflow/recruitment-backend/internal/candidacy"
	"github.com/talentflow/recruitment-backend/internal/jobs"
	"github.com/talentflow/recruitment-backend/internal/pipeline"
	"github.com/talentflow/recruitment-backend/internal/report"
	"github.com/talentflow/recruitment-backend/internal/workflow"
)

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host             string
	Port             int
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	RateLimitEnabled bool
	RateLimit        int
	RateLimitWindow  time.Duration
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:             "0.0.0.0",
		Port:             8080,
		ReadTimeout:      30 * time.Second,
		WriteTimeout:     30 * time.Second,
		RateLimitEnabled: true,
		RateLimit:        120,
		RateLimitWindow:  time.Minute,
	}
}

// Server is the HTTP server adapter
type Server struct {
	config     ServerConfig
	httpServer *http.Server
	router     *gin.Engine
	logger     *zap.Logger
}

// NewServer creates a new HTTP server wired to the application services
func NewServer(
	config ServerConfig,
	jobService *jobs.Service,
	pipelineService *pipeline.Service,
	candidacyService *candidacy.Service,
	engine *workflow.Engine,
	exporter *report.Exporter,
	gate *authz.Gate,
	logger *zap.Logger,
) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	server := &Server{
		config: config,
		router: router,
		logger: logger,
	}

	router.Use(gin.Recovery())
	router.Use(server.loggingMiddleware())
	if config.RateLimitEnabled {
		limiter := newRateLimiter()
		router.Use(rateLimitMiddleware(limiter, config.RateLimit, config.RateLimitWindow))
	}

	handlers := NewHandlers(jobService, pipelineService, candidacyService, engine, exporter, gate, logger)
	server.setupRoutes(handlers)

	return server
}

func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		s.logger.Info("HTTP request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

func (s *Server) setupRoutes(h *Handlers) {
	s.router.GET("/health", h.HealthCheck)

	api := s.router.Group("/api")
	api.Use(identityMiddleware())
	{
		api.POST("/jobs", h.CreateJob)
		api.GET("/jobs", h.ListJobs)
		api.GET("/jobs/:id", h.GetJob)
		api.GET("/jobs/:id/stages", h.ListStages)
		api.POST("/jobs/:id/stages", h.CreateStage)
		api.POST("/jobs/:id/applications", h.SubmitApplication)
		api.GET("/jobs/:id/applications", h.ListApplications)

		api.PUT("/stages/:id", h.UpdateStage)
		api.POST("/stages/:id/start", h.StartStage)
		api.POST("/stages/:id/complete", h.CompleteStage)
		api.POST("/stages/:id/cancel", h.CancelStage)

		api.GET("/applications/:id", h.GetApplication)
		api.POST("/applications/:id/accept", h.AcceptApplication)
		api.POST("/applications/:id/reject", h.RejectApplication)
		api.POST("/applications/:id/withdraw", h.WithdrawApplication)
		api.PUT("/applications/:id/score", h.SetCompatibilityScore)
		api.POST("/applications/:id/process", h.StartProcess)
		api.GET("/applications/:id/process", h.GetProcessByApplication)

		api.GET("/processes/:id", h.GetProcess)
		api.GET("/processes/:id/history", h.GetProcessHistory)
		api.GET("/processes/:id/timeline", h.GetProcessTimeline)
		api.GET("/processes/:id/report", h.ExportProcessReport)
		api.POST("/processes/:id/advance", h.AdvanceProcess)
		api.POST("/processes/:id/advance-to", h.AdvanceProcessToStage)
		api.POST("/processes/:id/return-to", h.ReturnProcessToStage)
		api.POST("/processes/:id/finalize", h.FinalizeProcess)
		api.POST("/processes/:id/reject", h.RejectProcess)
	}
}

// Start starts the HTTP server and blocks until ctx is cancelled
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.logger.Info("Starting HTTP server", zap.String("address", addr))

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		return s.Shutdown()
	}
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown() error {
	s.logger.Info("Shutting down HTTP server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}

// Router returns the underlying gin engine, used by handler tests
func (s *Server) Router() *gin.Engine {
	return s.router
}
