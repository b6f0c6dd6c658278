package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mmr-tortoise/portscout/internal/model"
)

// Stable error codes returned in response bodies. Callers branch on these
// rather than on message text.
const (
	codeValidationFailed    = "validation_failed"
	codeRuntimeUnavailable  = "runtime_unavailable"
	codeGenerationExhausted = "generation_exhausted"
	codeInternal            = "internal_error"
)

// readHeaderTimeout bounds how long a client may dawdle over request
// headers before the connection is dropped.
const readHeaderTimeout = 10 * time.Second

// PortService is the slice of the core the HTTP layer consumes.
// *port.Service satisfies it; tests substitute fakes.
type PortService interface {
	Inventory(ctx context.Context) (model.PortInventory, error)
	Check(ctx context.Context, port int) (model.PortCheckResult, error)
	Random(ctx context.Context) (int, error)
}

// Pinger reports liveness of the container runtime connection.
// *docker.Client satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server wires the port service and runtime liveness check into a gin
// router. It holds no request state — every request recomputes its
// inventory through the service.
type Server struct {
	ports   PortService
	runtime Pinger
	router  *gin.Engine
	log     *slog.Logger
}

// New builds a Server with all routes registered. A nil logger falls back
// to slog.Default.
func New(ports PortService, runtime Pinger, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{
		ports:   ports,
		runtime: runtime,
		router:  router,
		log:     log,
	}
	s.router.Use(s.requestLogger())

	// Static segment registered alongside the :port parameter; gin gives
	// the static route priority, so "random" is never parsed as a port.
	s.router.GET("/ports", s.handlePorts)
	s.router.GET("/ports/random", s.handleRandom)
	s.router.GET("/ports/:port/check", s.handleCheck)
	s.router.GET("/health", s.handleHealth)

	return s
}

// Handler exposes the router for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves the API on addr until the listener fails.
func (s *Server) Run(addr string) error {
	s.log.Info("portscout API listening", "addr", addr)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: readHeaderTimeout,
	}
	return srv.ListenAndServe()
}

// requestLogger emits one slog line per request with method, path, status
// and latency.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

// handlePorts serves GET /ports: the full inventory.
func (s *Server) handlePorts(c *gin.Context) {
	inv, err := s.ports.Inventory(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

// handleCheck serves GET /ports/:port/check.
//
// A non-numeric path segment is a validation failure in its own right and
// is rejected here, before the service (and therefore the runtime) is ever
// consulted. Out-of-range integers are caught by the service's own gate,
// which also runs before any runtime interaction.
func (s *Server) handleCheck(c *gin.Context) {
	raw := c.Param("port")
	portNum, err := strconv.Atoi(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "port must be an integer, got " + strconv.Quote(raw),
			"code":  codeValidationFailed,
		})
		return
	}

	result, err := s.ports.Check(c.Request.Context(), portNum)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// handleRandom serves GET /ports/random: a free port in the configured
// range. The port is not reserved — it was free as of this snapshot.
func (s *Server) handleRandom(c *gin.Context) {
	portNum, err := s.ports.Random(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"port":      portNum,
		"available": true,
	})
}

// handleHealth serves GET /health: a pass-through liveness check of the
// runtime connection.
func (s *Server) handleHealth(c *gin.Context) {
	if err := s.runtime.Ping(c.Request.Context()); err != nil {
		s.log.Warn("health check failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// writeError maps a domain error onto a status code and stable error code.
func (s *Server) writeError(c *gin.Context, err error) {
	var (
		validation *model.ValidationError
		runtime    *model.RuntimeUnavailableError
		exhausted  *model.ExhaustedError
	)

	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": validation.Error(),
			"code":  codeValidationFailed,
		})
	case errors.As(err, &runtime):
		s.log.Error("runtime unavailable", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": runtime.Error(),
			"code":  codeRuntimeUnavailable,
		})
	case errors.As(err, &exhausted):
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": exhausted.Error(),
			"code":  codeGenerationExhausted,
		})
	default:
		s.log.Error("unhandled error", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
			"code":  codeInternal,
		})
	}
}
