package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/hrygo/venturemind/internal/profile"
	"github.com/hrygo/venturemind/server/memory"
	"github.com/hrygo/venturemind/server/middleware"
	apiv1 "github.com/hrygo/venturemind/server/router/apiv1"
	"github.com/hrygo/venturemind/store"
)

type Server struct {
	Profile *profile.Profile
	Store   *store.Store
	Engine  *memory.Engine

	echoServer *echo.Echo
}

func NewServer(ctx context.Context, profile *profile.Profile, store *store.Store) (*Server, error) {
	e := echo.New()
	e.Debug = profile.IsDev()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomiddleware.Recover())

	rateLimiter := middleware.NewRateLimiter(profile.RateLimitRPS, profile.RateLimitBurst)
	e.Use(rateLimiter.Middleware())

	engine := memory.NewEngine(store)

	s := &Server{
		Profile:    profile,
		Store:      store,
		Engine:     engine,
		echoServer: e,
	}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "Service ready.")
	})

	apiv1.NewAPIV1Service(profile, store, engine).RegisterRoutes(e)

	return s, nil
}

func (s *Server) Start(ctx context.Context) error {
	address := fmt.Sprintf("%s:%d", s.Profile.Addr, s.Profile.Port)
	if err := s.echoServer.Start(address); err != nil && err != http.ErrServerClosed {
		return errors.Wrap(err, "failed to start echo server")
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := s.echoServer.Shutdown(ctx); err != nil {
		slog.Error("failed to shutdown server", "error", err)
	}

	if err := s.Store.Close(); err != nil {
		slog.Error("failed to close store", "error", err)
	}

	slog.Info("venturemind stopped properly")
}
