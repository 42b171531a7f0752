package api

import (
	"time"

	"github.com/CristiGvl/picoCPUMon/internal/platform"
	"github.com/CristiGvl/picoCPUMon/internal/view"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Full page endpoint
func (s *Server) getIndex(c *fiber.Ctx) error {
	return s.sendView(c, view.FullPage)
}

// Single fragment endpoint, used when live push is disabled
func (s *Server) getCPUUsage(c *fiber.Ctx) error {
	return s.sendView(c, view.Fragment)
}

func (s *Server) sendView(c *fiber.Ctx, kind view.Kind) error {
	html, err := s.renderer.Render(kind, s.snapshots.Read())
	if err != nil {
		s.logger.Error("render failed", zap.Stringer("view", kind), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).SendString("internal server error")
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Send(html)
}

// CPU endpoint
func (s *Server) getCPU(c *fiber.Ctx) error {
	return c.JSON(s.snapshots.Read())
}

// Health check endpoint
func (s *Server) healthCheck(c *fiber.Ctx) error {
	generation, updatedAt := s.snapshots.Generation()

	body := fiber.Map{
		"status":     "ok",
		"platform":   platform.GetOS(),
		"timestamp":  time.Now().Unix(),
		"cores":      len(s.snapshots.Read()),
		"generation": generation,
		"live":       s.live.Load(),
	}
	if !updatedAt.IsZero() {
		body["last_update"] = updatedAt.UTC().Format(time.RFC3339Nano)
	}
	if s.stats != nil {
		body["publisher"] = s.stats.Stats()
	}

	return c.JSON(body)
}
