package server

import (
	"context"
	"fmt"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/lakshayyy10/BioSync/internal/broadcast"
	"github.com/lakshayyy10/BioSync/internal/config"
	"github.com/lakshayyy10/BioSync/internal/ingest"
)

type Server struct {
	echo        *echo.Echo
	config      *config.Config
	broadcaster *broadcast.Broadcaster
	feed        ingest.Feed
	limits      *ConnectionLimits
	startTime   time.Time
}

func NewServer(cfg *config.Config, broadcaster *broadcast.Broadcaster, feed ingest.Feed) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	srv := &Server{
		echo:        e,
		config:      cfg,
		broadcaster: broadcaster,
		feed:        feed,
		limits:      NewConnectionLimits(int64(cfg.MaxConnections), cfg.MaxConnectionsPerIP, cfg.ConnectRatePerSecond, cfg.ConnectBurst),
		startTime:   time.Now(),
	}

	srv.registerRoutes()

	return srv
}

func (s *Server) Start() error {
	return s.echo.Start(fmt.Sprintf(":%s", s.config.Port))
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
