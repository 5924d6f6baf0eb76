package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/promptforge/internal/api/auth"
	pfmiddleware "github.com/promptforge/internal/api/middleware"
	"github.com/promptforge/internal/jobqueue"
	"github.com/promptforge/internal/library"
	"github.com/promptforge/internal/llm"
	"github.com/promptforge/internal/prompts"
	"github.com/promptforge/pkg/models"
)

const shutdownTimeout = 10 * time.Second

// Enhancer composes a request and runs it through a model.
type Enhancer interface {
	Enhance(ctx context.Context, req models.ComposeRequest) (llm.EnhanceResult, error)
}

// RunQueue schedules saved prompt runs.
type RunQueue interface {
	EnqueueRun(ctx context.Context, args jobqueue.RunPromptArgs) error
}

// SamplingDefaults fill an enabled sampling config that leaves fields unset.
type SamplingDefaults struct {
	NumberOfResponses int
	DistributionType  string
}

// Deps are the server's collaborators. Library, Enhancer and Queue are
// optional; routes that need a missing one answer 503.
type Deps struct {
	Composer  *prompts.Composer
	Library   *library.Service
	Enhancer  Enhancer
	Queue     RunQueue
	Tokens    *auth.TokenService
	RunModel  string
	RateLimit rate.Limit
	RateBurst int
	Defaults  SamplingDefaults
}

// Server represents the API server
type Server struct {
	echo     *echo.Echo
	port     int
	deps    Deps
	limiter *rate.Limiter
}

// NewServer creates a new API server
func NewServer(port int, deps Deps) *Server {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	if deps.Composer == nil {
		deps.Composer = prompts.NewComposer()
	}
	if deps.Tokens == nil {
		deps.Tokens = auth.NewTokenService("")
	}
	var limiter *rate.Limiter
	if deps.RateLimit > 0 {
		burst := deps.RateBurst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(deps.RateLimit, burst)
	}

	server := &Server{
		echo:    e,
		port:    port,
		deps:    deps,
		limiter: limiter,
	}
	server.setupRoutes()
	return server
}

// setupRoutes configures all API endpoints
func (s *Server) setupRoutes() {
	s.echo.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status": "healthy",
		})
	})

	v1 := s.echo.Group("/api/v1")

	v1.POST("/compose", s.compose)
	v1.POST("/enhancements", s.enhancements)
	v1.POST("/sampling", s.sampling)
	v1.POST("/validate", s.validate)
	v1.POST("/quality", s.quality)
	v1.POST("/variables", s.variables)

	requireAuth := auth.RequireAuth(s.deps.Tokens)
	limited := pfmiddleware.RateLimit(s.limiter)

	v1.POST("/enhance", s.enhance, requireAuth, limited)

	v1.GET("/prompts", s.listPrompts, requireAuth)
	v1.POST("/prompts", s.savePrompt, requireAuth)
	v1.POST("/prompts/import", s.importPrompts, requireAuth)
	v1.GET("/prompts/:id", s.getPrompt, requireAuth)
	v1.PUT("/prompts/:id", s.updatePrompt, requireAuth)
	v1.DELETE("/prompts/:id", s.deletePrompt, requireAuth)
	v1.POST("/prompts/:id/runs", s.createRun, requireAuth, limited)
	v1.GET("/prompts/:id/runs", s.listRuns, requireAuth)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.echo }

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", s.port).Msg("API server listening")
		if err := s.echo.Start(fmt.Sprintf(":%d", s.port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down API server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.echo.Shutdown(shutdownCtx)
}

func errorJSON(c echo.Context, status int, msg string) error {
	return c.JSON(status, map[string]string{"error": msg})
}

func fieldErrors(c echo.Context, errs map[string]string) error {
	return c.JSON(http.StatusBadRequest, map[string]any{"errors": errs})
}
