package web

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/teslashibe/go-follow/pkg/follow"
	"github.com/teslashibe/go-follow/pkg/hub"
)

// Status is the /api/status payload.
type Status struct {
	Session   string        `json:"session"`
	Uptime    string        `json:"uptime"`
	Stats     follow.Stats  `json:"stats"`
	Clients   int           `json:"clients"`
	LastCycle *follow.Cycle `json:"last_cycle,omitempty"`
}

func (s *Server) handleStatus(c *fiber.Ctx) error {
	st := Status{
		Uptime:  time.Since(s.started).Round(time.Second).String(),
		Clients: s.telemetry.ClientCount(),
	}
	s.mu.RLock()
	run := s.run
	s.mu.RUnlock()
	if run != nil {
		st.Session = run.Session()
		st.Stats = run.Stats()
	}
	if last, ok := s.Last(); ok {
		st.LastCycle = &last
	}
	return c.JSON(st)
}

func (s *Server) handleConfig(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"controller": s.ctrl,
		"min_score":  follow.MinScore,
	})
}

func (s *Server) handleLast(c *fiber.Ctx) error {
	last, ok := s.Last()
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "no cycle yet",
		})
	}
	return c.JSON(last)
}

func (s *Server) handleTelemetryWS(c *websocket.Conn) {
	client := hub.NewClient(s.telemetry, c)
	if client == nil {
		return
	}
	client.Run()
}
