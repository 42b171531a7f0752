package api

import (
	"context"
	"time"

	"github.com/CristiGvl/picoCPUMon/internal/view"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// requireUpgrade rejects plain requests to the live endpoint
func (s *Server) requireUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return c.Status(fiber.StatusUpgradeRequired).SendString("websocket upgrade required")
}

// streamCPUUsage owns one live connection until the client leaves or a send fails
func (s *Server) streamCPUUsage(conn *websocket.Conn) {
	s.live.Add(1)
	defer s.live.Add(-1)

	// conn goes back to a pool once this handler returns, so everything
	// below, the reader goroutine included, holds the underlying socket
	ws := conn.Conn
	remote := ws.RemoteAddr().String()

	ctx, cancel := context.WithCancel(s.ctx)
	defer cancel()

	// Reading is the only way to see the client's close frame
	readerDone := make(chan struct{})
	go func() {
		defer close(readerDone)
		defer cancel()
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}()

	render := func() ([]byte, error) {
		return s.renderer.Render(view.Fragment, s.snapshots.Read())
	}
	send := func(msg []byte) error {
		return ws.WriteMessage(websocket.TextMessage, msg)
	}

	err := streamFragments(ctx, s.cfg.PushInterval, render, send)

	// unblock the reader and wait for it before conn is released
	_ = ws.Close()
	<-readerDone

	s.logger.Debug("live connection closed", zap.String("remote", remote), zap.Error(err))
}

// streamFragments sends a fragment right away and then once per period. It
// returns nil when ctx ends and the first render or send error otherwise;
// a failed send is never retried
func streamFragments(ctx context.Context, every time.Duration, render func() ([]byte, error), send func([]byte) error) error {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		if ctx.Err() != nil {
			return nil
		}
		msg, err := render()
		if err != nil {
			return err
		}
		if err := send(msg); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
