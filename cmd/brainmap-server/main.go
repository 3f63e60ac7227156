// Package main provides the frame-streaming server: it fetches a
// graph snapshot, runs the layout simulation, and broadcasts rendered
// frames to WebSocket subscribers.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spencrmartin/brainmap/internal/adapter"
	"github.com/spencrmartin/brainmap/internal/client"
	"github.com/spencrmartin/brainmap/internal/config"
	"github.com/spencrmartin/brainmap/internal/interaction"
	"github.com/spencrmartin/brainmap/internal/layout"
	"github.com/spencrmartin/brainmap/internal/metrics"
	"github.com/spencrmartin/brainmap/internal/models"
	"github.com/spencrmartin/brainmap/internal/render"
	"github.com/spencrmartin/brainmap/internal/stream"
	"github.com/spencrmartin/brainmap/internal/zoom"
)

const version = "0.1.0"

func main() {
	// Parse flags
	snapshotFile := flag.String("snapshot", "", "load snapshot from a local JSON file instead of the data service")
	flag.Parse()

	// Load configuration
	cfg := config.Load()

	// Setup logger (dual output: stderr text + file JSON)
	logger, cleanup := config.SetupLogger(cfg.LogFile, cfg.LogLevel)
	defer cleanup()

	logger.Info("brainmap-server starting",
		"version", version,
		"listen", cfg.ListenAddr,
		"mode", string(cfg.Mode),
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Obtain the snapshot. The fetch is asynchronous with respect to
	// the tick loop: nothing simulates until it resolves, and the
	// loading state is logged for observers.
	var (
		snap models.Snapshot
		err  error
	)
	if *snapshotFile != "" {
		snap, err = client.LoadFile(*snapshotFile)
	} else {
		c := client.New(cfg.ServerURL, cfg.FetchTimeout, func(s client.LoadState) {
			logger.Info("snapshot load state", "state", string(s))
		})
		fetchCtx, fetchCancel := context.WithTimeout(ctx, cfg.FetchTimeout)
		snap, err = c.Fetch(fetchCtx)
		fetchCancel()
	}
	if err != nil {
		logger.Error("failed to load snapshot", "error", err)
		os.Exit(1)
	}

	mc := metrics.NewCollector()

	graph, err := adapter.New(logger).Adapt(snap)
	if err != nil {
		logger.Error("failed to adapt snapshot", "error", err)
		os.Exit(1)
	}

	layoutCfg, err := cfg.LayoutConfig()
	if err != nil {
		logger.Error("failed to load tuning", "error", err)
		os.Exit(1)
	}

	// Wire the pipeline: engine ticks -> render sync -> broadcaster.
	broadcaster := stream.NewBroadcaster(logger, mc)
	defer broadcaster.Close()

	zoomCtrl := zoom.NewController(1.0, nil)
	ctrl := interaction.NewController(nil, interaction.Events{
		OnZoomChange: func(scale float64) { zoomCtrl.SetScale(scale) },
	}, logger, nil)

	sync := render.NewSync(graph, ctrl, zoomCtrl, broadcaster, mc)

	engine := layout.NewEngine(layoutCfg, logger, mc)
	sim, err := engine.Start(graph.Nodes, graph.Links, cfg.Mode, sync.OnTick)
	if err != nil {
		if errors.Is(err, layout.ErrEmptyGraph) {
			logger.Error("snapshot contains no items; nothing to simulate")
		} else {
			logger.Error("failed to start simulation", "error", err)
		}
		os.Exit(1)
	}
	defer engine.Stop()
	ctrl.AttachSimulation(sim)

	mux := http.NewServeMux()
	mux.Handle("/ws", broadcaster)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: mux,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("serving frames", "addr", cfg.ListenAddr, "path", "/ws")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}

	// Final stats for the run.
	snapStats := mc.Snapshot()
	if snapStats.Tick != nil {
		logger.Info("run statistics",
			"ticks", snapStats.Tick.Count,
			"avg_tick_us", snapStats.Tick.AvgTimeUs,
			"max_tick_us", snapStats.Tick.MaxTimeUs,
		)
	}
	logger.Info("brainmap-server stopped")
}
