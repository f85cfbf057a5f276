package server

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/lakshayyy10/BioSync/internal/version"
)

func (s *Server) handleLiveness(c echo.Context) error {
	uptime := time.Since(s.startTime).Seconds()
	return c.JSON(200, map[string]any{
		"status": "ok",
		"uptime": uptime,
	})
}

// handleReadiness reports unhealthy once the feed subscription has died,
// so orchestrators restart the relay instead of leaving viewers attached
// to a stale stream.
func (s *Server) handleReadiness(c echo.Context) error {
	select {
	case <-s.feed.Done():
		resp := map[string]any{
			"status":       "unhealthy",
			"failed_check": "feed",
		}
		if err := s.feed.Err(); err != nil {
			resp["error"] = err.Error()
		}
		return c.JSON(503, resp)
	default:
	}

	count := s.broadcaster.ClientCount()
	if count < 0 {
		return c.JSON(503, map[string]any{
			"status":       "unhealthy",
			"failed_check": "broadcaster",
			"error":        "broadcaster not responding",
		})
	}

	return c.JSON(200, map[string]any{
		"status":  "ready",
		"viewers": count,
	})
}

func (s *Server) handleVersion(c echo.Context) error {
	return c.JSON(200, version.Get())
}
