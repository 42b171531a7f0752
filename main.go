package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/CristiGvl/picoCPUMon/api"
	"github.com/CristiGvl/picoCPUMon/internal/cpu"
	"github.com/CristiGvl/picoCPUMon/internal/platform"
	"github.com/CristiGvl/picoCPUMon/internal/publisher"
	"github.com/CristiGvl/picoCPUMon/internal/state"
	"go.uber.org/zap"
)

func main() {
	// Parse command line flags
	port := flag.String("port", "3000", "Port to run the server on")
	bind := flag.String("bind", "0.0.0.0", "IP address to bind the server to")
	live := flag.String("live", string(api.LivePush), "Live delivery on /cpu-usage: push (websocket) or pull (one fragment per request)")
	sampleEvery := flag.Duration("sample-interval", publisher.DefaultPeriod, "How often CPU usage is sampled")
	pushEvery := flag.Duration("push-interval", api.DefaultPushInterval, "How often live clients receive an update")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	logger := newLogger(*debug)
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	mode, err := api.ParseLiveMode(*live)
	if err != nil {
		logger.Fatal("Invalid flags", zap.Error(err))
	}

	// Validate platform support
	if err := platform.ValidateSupport(); err != nil {
		logger.Fatal("Platform validation failed", zap.Error(err))
	}

	sampler, err := cpu.NewSampler()
	if err != nil {
		logger.Fatal("Failed to initialize CPU sampler", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := state.NewStore()
	pub := publisher.New(sampler, store, *sampleEvery, logger.Named("publisher"))
	go pub.Run(ctx)

	// Create the HTTP server
	server, err := api.NewServer(api.Config{Live: mode, PushInterval: *pushEvery}, store, pub, logger.Named("api"))
	if err != nil {
		logger.Fatal("Failed to create server", zap.Error(err))
	}

	// Handle graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		cancel()
		if err := server.Shutdown(); err != nil {
			logger.Error("Error during shutdown", zap.Error(err))
		}
		os.Exit(0)
	}()

	addr := net.JoinHostPort(*bind, *port)
	fmt.Printf("Listening on %s\n", addr)
	if err := server.Start(addr); err != nil {
		logger.Fatal("Server stopped", zap.String("addr", addr), zap.Error(err))
	}
}

func newLogger(debug bool) *zap.Logger {
	cfg := zap.NewProductionConfig()
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	return logger
}
