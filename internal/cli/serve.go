package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/agentdeck/agentdeck/internal/api"
	"github.com/agentdeck/agentdeck/internal/bus"
	"github.com/agentdeck/agentdeck/internal/config"
	"github.com/agentdeck/agentdeck/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dashboard server",
	Run:   runServe,
}

var serveSignalNotify = signal.Notify
var serveSignalStop = signal.Stop

func runServe(cmd *cobra.Command, args []string) {
	printHeader("🌐 AgentDeck Server")

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Config error: %v\n", err)
		os.Exit(1)
	}

	st := store.Open(cfg.Paths.DataDir)
	server := api.NewServer(cfg, st, bus.New(), version)
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: server.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", addr, "dataDir", cfg.Paths.DataDir)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	fmt.Printf("Dashboard running at http://%s\n", addr)

	sigCh := make(chan os.Signal, 1)
	serveSignalNotify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer serveSignalStop(sigCh)

	select {
	case sig := <-sigCh:
		slog.Info("shutting down", "signal", sig.String())
	case err := <-errCh:
		fmt.Printf("Server error: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		slog.Warn("shutdown incomplete", "error", err)
	}
	fmt.Println("Server stopped.")
}
