// Package web serves the follower's live dashboard API: status, active
// controller settings and a telemetry websocket.
package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"
	"github.com/teslashibe/go-follow/internal/log"
	"github.com/teslashibe/go-follow/pkg/follow"
	"github.com/teslashibe/go-follow/pkg/hub"
)

// Config holds dashboard settings.
type Config struct {
	Enabled      bool   `json:"enabled"`
	Port         string `json:"port"`
	AllowOrigins string `json:"allow_origins"`
}

// DefaultConfig returns the dashboard disabled on port 8080.
func DefaultConfig() Config {
	return Config{
		Port:         "8080",
		AllowOrigins: "*",
	}
}

// RunInfo is what the dashboard reads from the running loop.
type RunInfo interface {
	Session() string
	Stats() follow.Stats
}

// Server is the dashboard server. It implements follow.Observer.
type Server struct {
	app     *fiber.App
	cfg     Config
	ctrl    follow.Config
	run     RunInfo
	started time.Time
	logger  *slog.Logger

	telemetry *hub.Hub

	mu   sync.RWMutex
	last *follow.Cycle
}

// NewServer builds the fiber app. Status omits run details until
// SetRunInfo is called.
func NewServer(cfg Config, ctrl follow.Config) *Server {
	s := &Server{
		cfg:       cfg,
		ctrl:      ctrl,
		started:   time.Now(),
		logger:    log.Component("web"),
		telemetry: hub.New("telemetry"),
	}

	app := fiber.New(fiber.Config{
		AppName:               "go-follow",
		DisableStartupMessage: true,
	})
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.AllowOrigins}))

	api := app.Group("/api")
	api.Get("/status", s.handleStatus)
	api.Get("/config", s.handleConfig)
	api.Get("/last", s.handleLast)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/telemetry", websocket.New(s.handleTelemetryWS))

	s.app = app
	return s
}

// SetRunInfo attaches the running loop.
func (s *Server) SetRunInfo(run RunInfo) {
	s.mu.Lock()
	s.run = run
	s.mu.Unlock()
}

// App exposes the fiber app, mainly for app.Test.
func (s *Server) App() *fiber.App {
	return s.app
}

// Telemetry returns the broadcast hub fed by OnCycle.
func (s *Server) Telemetry() *hub.Hub {
	return s.telemetry
}

// OnCycle stores the cycle and broadcasts it. It never blocks.
func (s *Server) OnCycle(c follow.Cycle) {
	s.mu.Lock()
	s.last = &c
	s.mu.Unlock()

	if err := s.telemetry.BroadcastJSON(c); err != nil {
		s.logger.Warn("encode cycle", "seq", c.Seq, "error", err)
	}
}

// Last returns the most recent cycle, if any.
func (s *Server) Last() (follow.Cycle, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.last == nil {
		return follow.Cycle{}, false
	}
	return *s.last, true
}

// Run serves until ctx is done, then shuts the app and the hub down.
func (s *Server) Run(ctx context.Context) error {
	hubCtx, stopHub := context.WithCancel(ctx)
	defer stopHub()
	go s.telemetry.Run(hubCtx)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("dashboard listening", "addr", "http://localhost:"+s.cfg.Port)
		errCh <- s.app.Listen(":" + s.cfg.Port)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("web: listen: %w", err)
	case <-ctx.Done():
	}

	stopHub()
	if err := s.app.ShutdownWithTimeout(5 * time.Second); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("web: shutdown: %w", err)
	}
	return nil
}
