// Package api is the dashboard HTTP server. It forwards the browser's session
// token to the backend and hosts the compliance chat sessions.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/facebookgo/clock"
	"github.com/gin-gonic/gin"

	"github.com/lexdesk/casedesk/pkg/backend"
	"github.com/lexdesk/casedesk/pkg/compliance"
	"github.com/lexdesk/casedesk/pkg/documents"
	"github.com/lexdesk/casedesk/pkg/events"
)

// Deps are the clients the server routes to.
type Deps struct {
	Backend      *backend.Client
	DueDiligence compliance.Service
	Documents    *documents.Client
	Publisher    events.Publisher
	Compliance   compliance.Config
	// Clock drives compliance polling and session expiry; nil uses the wall clock.
	Clock clock.Clock
	// SessionTTL closes compliance sessions left unused this long.
	SessionTTL time.Duration
}

// Server is the dashboard HTTP server.
type Server struct {
	deps       Deps
	engine     *gin.Engine
	httpServer *http.Server
	sessions   *sessionRegistry
	logger     *slog.Logger
}

// NewServer creates the server and registers routes.
func NewServer(deps Deps) *Server {
	if deps.Publisher == nil {
		deps.Publisher = events.NoOpPublisher{}
	}
	if deps.Clock == nil {
		deps.Clock = clock.New()
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{
		deps:     deps,
		engine:   engine,
		sessions: newSessionRegistry(deps.Clock, deps.SessionTTL),
		logger:   slog.Default().With("component", "api"),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.engine.Use(securityHeaders(), requestLogger(s.logger))
	s.engine.GET("/health", s.healthHandler)

	v1 := s.engine.Group("/api/v1", bearerToken())

	v1.POST("/auth/login", s.loginHandler)

	v1.GET("/cases", s.listCasesHandler)
	v1.GET("/cases/:id/notes", s.listCaseNotesHandler)

	v1.POST("/documents/analyze", s.analyzeDocumentHandler)

	sessions := v1.Group("/compliance/sessions", requireBearer())
	sessions.POST("", s.createComplianceSessionHandler)
	sessions.GET("/:id", s.getComplianceSessionHandler)
	sessions.POST("/:id/submit", s.submitComplianceHandler)
	sessions.POST("/:id/reset", s.resetComplianceHandler)
	sessions.DELETE("/:id", s.deleteComplianceSessionHandler)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start listens on addr and blocks until the server stops.
func (s *Server) Start(addr string) error {
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("HTTP server listening", "addr", addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown stops accepting requests and closes every compliance session.
func (s *Server) Shutdown(ctx context.Context) error {
	s.sessions.closeAll()
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
