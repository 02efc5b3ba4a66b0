package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/oraziooztas/poker-trainer/internal/server"
	"github.com/oraziooztas/poker-trainer/sdk/calculator"
)

// ServeCmd runs the WebSocket server.
type ServeCmd struct {
	Addr    string `help:"Server address (defaults to the configured value)"`
	Workers int    `help:"Parallel workers per calculation (defaults to the configured value)"`
	Seed    *int64 `help:"Deterministic RNG seed (optional)"`
}

func (c *ServeCmd) Run(g *Globals) error {
	cfg, logger, err := g.setup()
	if err != nil {
		return err
	}

	addr := cfg.Server.Address
	if c.Addr != "" {
		addr = c.Addr
	}

	sim := newSimulator(cfg, logger, c.Workers, c.Seed)
	srv := server.NewServer(addr, sim, logger, calculator.WithInline(cfg.Simulation.Inline))

	// Setup graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Start()
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		logger.Info("Shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Stop(shutdownCtx)
}
