package api

import (
	"context"
	"fmt"
	"net"
	"sync/atomic"
	"time"

	"github.com/CristiGvl/picoCPUMon/internal/cpu"
	"github.com/CristiGvl/picoCPUMon/internal/platform"
	"github.com/CristiGvl/picoCPUMon/internal/publisher"
	"github.com/CristiGvl/picoCPUMon/internal/view"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

// LiveMode selects how /cpu-usage delivers fragments
type LiveMode string

const (
	// LivePush upgrades /cpu-usage to a websocket and pushes on a timer
	LivePush LiveMode = "push"
	// LivePull answers each /cpu-usage request with one fragment
	LivePull LiveMode = "pull"
)

// ParseLiveMode validates a mode name given on the command line
func ParseLiveMode(s string) (LiveMode, error) {
	switch m := LiveMode(s); m {
	case LivePush, LivePull:
		return m, nil
	}
	return "", fmt.Errorf("unknown live mode %q, want %q or %q", s, LivePush, LivePull)
}

// DefaultPushInterval is how often a live connection receives a fragment
const DefaultPushInterval = time.Second

// Config holds the delivery settings
type Config struct {
	Live         LiveMode
	PushInterval time.Duration
}

// SnapshotReader is the read side of the shared snapshot state
type SnapshotReader interface {
	Read() cpu.Snapshot
	Generation() (uint64, time.Time)
}

// StatsProvider reports publisher progress for the health endpoint
type StatsProvider interface {
	Stats() publisher.Stats
}

// Server represents the HTTP server
type Server struct {
	app       *fiber.App
	cfg       Config
	snapshots SnapshotReader
	stats     StatsProvider
	renderer  *view.Renderer
	logger    *zap.Logger

	// live connections end when ctx is cancelled on Shutdown
	ctx    context.Context
	cancel context.CancelFunc
	live   atomic.Int64
}

// NewServer creates a new HTTP server reading from snapshots
func NewServer(cfg Config, snapshots SnapshotReader, stats StatsProvider, log *zap.Logger) (*Server, error) {
	// Validate platform support
	if err := platform.ValidateSupport(); err != nil {
		return nil, err
	}

	if cfg.Live == "" {
		cfg.Live = LivePush
	}
	if _, err := ParseLiveMode(string(cfg.Live)); err != nil {
		return nil, err
	}
	if cfg.PushInterval <= 0 {
		cfg.PushInterval = DefaultPushInterval
	}
	if log == nil {
		log = zap.NewNop()
	}

	renderer, err := view.New(view.Options{
		Push:      cfg.Live == LivePush,
		Endpoint:  "/cpu-usage",
		PollEvery: cfg.PushInterval,
	})
	if err != nil {
		return nil, err
	}

	app := fiber.New(fiber.Config{
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
		IdleTimeout:           120 * time.Second,
		ServerHeader:          "picoCPUMon",
		AppName:               "picoCPUMon v1.0",
		DisableStartupMessage: true,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,OPTIONS",
		AllowHeaders: "*",
		MaxAge:       86400, // 24 hours
	}))

	ctx, cancel := context.WithCancel(context.Background())
	server := &Server{
		app:       app,
		cfg:       cfg,
		snapshots: snapshots,
		stats:     stats,
		renderer:  renderer,
		logger:    log,
		ctx:       ctx,
		cancel:    cancel,
	}

	server.setupRoutes()
	return server, nil
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	s.app.Get("/", s.getIndex)

	if s.cfg.Live == LivePush {
		s.app.Use("/cpu-usage", s.requireUpgrade)
		s.app.Get("/cpu-usage", websocket.New(s.streamCPUUsage))
	} else {
		s.app.Get("/cpu-usage", s.getCPUUsage)
	}

	api := s.app.Group("/api")
	api.Get("/cpu", s.getCPU)
	api.Get("/health", s.healthCheck)
}

// Start starts the server on address
func (s *Server) Start(address string) error {
	return s.app.Listen(address)
}

// Serve serves on an existing listener
func (s *Server) Serve(ln net.Listener) error {
	return s.app.Listener(ln)
}

// Shutdown ends live connections and gracefully shuts down the server
func (s *Server) Shutdown() error {
	s.cancel()
	return s.app.Shutdown()
}

// LiveConnections returns the number of open live delivery channels
func (s *Server) LiveConnections() int64 {
	return s.live.Load()
}
