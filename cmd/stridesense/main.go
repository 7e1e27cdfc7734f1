package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/Shashikr2605/StrideSense/internal/app"
	"github.com/Shashikr2605/StrideSense/internal/config"
	"github.com/Shashikr2605/StrideSense/internal/exercises"
	"github.com/Shashikr2605/StrideSense/internal/gait"
	"github.com/Shashikr2605/StrideSense/internal/logging"
	"github.com/Shashikr2605/StrideSense/internal/pose"
	"github.com/Shashikr2605/StrideSense/internal/server"
	"github.com/Shashikr2605/StrideSense/internal/store"
	"github.com/Shashikr2605/StrideSense/internal/video"
)

var configPath string

func init() {
	flag.StringVar(&configPath, "config", "", "path to stridesense.yaml")
}

func main() {
	flag.Parse()
	fmt.Println("StrideSense - Gait Analysis")

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "stridesense: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log, err := logging.Open(cfg.LogLevel(), cfg.Log.File)
	if err != nil {
		return err
	}
	defer log.Close()
	log.Info("config: %s", cfg)

	if err := os.MkdirAll(cfg.Storage.DataDir, 0755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	st, err := store.New(cfg.DBPath())
	if err != nil {
		return fmt.Errorf("initialize store: %w", err)
	}
	defer st.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	catalog := exercises.NewCatalog(cfg.Exercises.File, st, log.With("exercises"))
	if err := catalog.Reload(); err != nil {
		return fmt.Errorf("load exercises: %w", err)
	}
	if cfg.Exercises.Watch && cfg.Exercises.File != "" {
		go func() {
			if err := catalog.Watch(ctx); err != nil {
				log.Error("exercise watcher: %v", err)
			}
		}()
	}

	detector := newDetector(cfg, log)
	defer detector.Close()

	analyzer := gait.NewAnalyzer(gait.Config{
		Layout:  cfg.Layout(),
		Catalog: catalog,
		Logger:  log.With("gait"),
	})

	hub := server.NewProgressHub(log.With("progress"))

	service, err := app.New(app.Config{
		Store:     st,
		UploadDir: cfg.UploadPath(),
		Extractor: video.NewExtractor(nil, detector, cfg.VideoLimits(), log.With("video")),
		Analyzer:  analyzer,
		Catalog:   catalog,
		Progress:  hub,
		Logger:    log.With("app"),
	})
	if err != nil {
		return err
	}
	defer service.Stop()

	if err := service.StartSweeper(cfg.Storage.SweepSchedule, cfg.Storage.MaxUploadAge); err != nil {
		return err
	}

	webDir := cfg.Server.StaticDir
	if webDir == "" {
		webDir = findWebDir(cfg.Storage.DataDir)
	}
	if webDir != "" {
		log.Info("serving static files from %s", webDir)
	}

	srv := server.New(server.Config{
		StaticDir:      webDir,
		CORSOrigin:     cfg.Server.CORSOrigin,
		MaxUploadBytes: cfg.MaxUploadBytes(),
		Service:        service,
		Catalog:        catalog,
		Progress:       hub,
	})

	httpServer := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server on %s", cfg.Server.Addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
	}
	return nil
}

// newDetector starts the MediaPipe pose helper, falling back to a detector
// that finds nobody when the helper script is missing. Uploads then fail
// with a no-landmarks error instead of the server refusing to start.
func newDetector(cfg *config.Config, log *logging.Logger) pose.Detector {
	det, err := pose.NewMediaPipeDetector(cfg.PoseConfig())
	if err != nil {
		log.Warn("mediapipe detector unavailable, using mock detector: %v", err)
		return pose.NewMockDetector()
	}
	if w := cfg.Layout().Width(); w > pose.NumKeypoints {
		log.Warn("layout %s needs %d keypoints but mediapipe sends %d; analyses will find no heel strikes",
			cfg.Analysis.Layout, w, pose.NumKeypoints)
	}
	return det
}

// findWebDir searches for the web directory in common locations.
// It checks "web", "../web", "../../web" and <dataDir>/web, returning
// the first existing directory or an empty string.
func findWebDir(dataDir string) string {
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	dataWebDir := filepath.Join(dataDir, "web")
	if info, err := os.Stat(dataWebDir); err == nil && info.IsDir() {
		return dataWebDir
	}

	return ""
}
