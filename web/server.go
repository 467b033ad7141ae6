// ABOUTME: JSON HTTP API server built on echo
// ABOUTME: Wires middleware and routes for the action feed, follow-ups, contacts, deals, and drafts
package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/harperreed/voss/auth"
	"github.com/harperreed/voss/config"
	"github.com/harperreed/voss/crm"
	"github.com/harperreed/voss/db"
	"github.com/harperreed/voss/drafts"
	"github.com/harperreed/voss/followups"
	"github.com/harperreed/voss/logging"
	"github.com/harperreed/voss/triage"
)

// Deps are the services the API serves. Drafts and JWT may be nil: drafting
// then answers 503 and the API is unauthenticated.
type Deps struct {
	Database  *db.DB
	CRM       *crm.Service
	Feed      *triage.Service
	FollowUps *followups.Manager
	Drafts    *drafts.Service
	JWT       *auth.JWTManager
	RateLimit config.RateLimitConfig
	Location  *time.Location
	Logger    *slog.Logger
	Now       func() time.Time
}

type Server struct {
	Deps
	echo   *echo.Echo
	logger *slog.Logger
}

func NewServer(deps Deps) *Server {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Location == nil {
		deps.Location = time.UTC
	}
	s := &Server{Deps: deps, echo: echo.New(), logger: logging.OrDiscard(deps.Logger)}
	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.echo.Use(RequestID(), Logging(s.logger))
	s.routes()
	return s
}

func (s *Server) routes() {
	e := s.echo
	e.GET("/healthz", func(c echo.Context) error {
		return Success(c, http.StatusOK, "service healthy", map[string]any{"status": "ok"})
	})

	api := e.Group("/api")
	if s.JWT != nil {
		api.Use(JWT(s.JWT))
	}

	api.GET("/dashboard/action-feed", s.actionFeed)

	api.GET("/follow-ups", s.listFollowUps)
	api.POST("/follow-ups", s.createFollowUp)
	api.PATCH("/follow-ups/:id/complete", s.completeFollowUp)
	api.PATCH("/follow-ups/:id/snooze", s.snoozeFollowUp)

	api.GET("/contacts", s.listContacts)
	api.POST("/contacts", s.addContact)
	api.PATCH("/contacts/:id/stage", s.updateContactStage)
	api.DELETE("/contacts/:id", s.archiveContact)
	api.GET("/contacts/:id/interactions", s.listInteractions)

	api.POST("/companies", s.addCompany)
	api.POST("/interactions", s.logInteraction)
	api.POST("/deals", s.createDeal)
	api.PATCH("/deals/:id/stage", s.updateDealStage)

	api.POST("/email/draft", s.draftEmail, RateLimit(s.RateLimit))
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.echo }

// Start serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting http server", "addr", addr)
		if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.echo.Shutdown(shutdownCtx)
}
