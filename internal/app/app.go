// Package app ties uploads, frame extraction and gait analysis together
// behind the operations the HTTP API exposes.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron"

	"github.com/Shashikr2605/StrideSense/internal/gait"
	"github.com/Shashikr2605/StrideSense/internal/logging"
	"github.com/Shashikr2605/StrideSense/internal/pose"
	"github.com/Shashikr2605/StrideSense/internal/store"
	"github.com/Shashikr2605/StrideSense/internal/video"
)

var (
	// ErrUnsupportedFormat is returned for uploads that are not MP4 or AVI.
	ErrUnsupportedFormat = errors.New("invalid file format, only MP4 and AVI are supported")
	// ErrMissingID is returned when an analysis is requested without an upload ID.
	ErrMissingID = errors.New("no file_id provided")
)

// SupportedExtensions lists the accepted video file extensions.
var SupportedExtensions = []string{".mp4", ".avi"}

// progressEvery limits extraction progress events to one per this many frames.
const progressEvery = 10

// Extractor turns a video file into a pose recording.
type Extractor interface {
	Extract(ctx context.Context, path string, progress video.ProgressFunc) (pose.Recording, error)
}

// Config holds the collaborators of a Service.
type Config struct {
	Store     *store.Store
	UploadDir string
	Extractor Extractor
	Analyzer  *gait.Analyzer
	Catalog   gait.Catalog
	Progress  ProgressSink
	Logger    *logging.Logger
}

// Result is an analysis report for one upload.
type Result struct {
	FileID string `json:"file_id"`
	*gait.Report
}

// Service runs the upload and analysis workflow.
type Service struct {
	config   Config
	progress ProgressSink
	log      *logging.Logger

	mu   sync.Mutex
	cron *cron.Cron
}

// New creates a Service and makes sure the upload directory exists.
func New(config Config) (*Service, error) {
	if config.Store == nil {
		return nil, errors.New("app: store is required")
	}
	if config.Extractor == nil {
		return nil, errors.New("app: extractor is required")
	}
	if config.Analyzer == nil {
		config.Analyzer = gait.NewAnalyzer(gait.Config{Catalog: config.Catalog})
	}
	if config.Logger == nil {
		config.Logger = logging.Discard()
	}
	if err := os.MkdirAll(config.UploadDir, 0755); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}

	progress := config.Progress
	if progress == nil {
		progress = nopSink{}
	}

	return &Service{
		config:   config,
		progress: progress,
		log:      config.Logger,
	}, nil
}

// SaveUpload stores the video read from r under a fresh random ID. The
// original filename only contributes its extension.
func (s *Service) SaveUpload(filename string, r io.Reader) (*store.Upload, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !supported(ext) {
		s.log.Error("invalid file format: %s", filename)
		return nil, ErrUnsupportedFormat
	}

	id := uuid.New().String()
	path := filepath.Join(s.config.UploadDir, id+ext)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("create upload file: %w", err)
	}
	size, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("write upload file: %w", err)
	}

	u := &store.Upload{
		ID:       id,
		Filename: filepath.Base(filename),
		Path:     path,
		Size:     size,
	}
	if err := s.config.Store.Uploads().Create(u); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("record upload: %w", err)
	}

	s.log.Info("file uploaded: %s (%d bytes)", path, size)
	return u, nil
}

// Analyze extracts the pose sequence of upload id and runs the gait
// analysis on it. The upload is removed afterwards whatever the outcome.
func (s *Service) Analyze(ctx context.Context, id string) (*Result, error) {
	if id == "" {
		return nil, ErrMissingID
	}

	uploads := s.config.Store.Uploads()
	u, err := uploads.GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.log.Error("file not found for file_id: %s", id)
		}
		return nil, err
	}
	if err := uploads.Claim(id); err != nil {
		return nil, err
	}
	defer s.discard(u)

	s.log.Info("starting analysis for file: %s", u.Path)
	rec, err := s.config.Extractor.Extract(ctx, u.Path, func(done, total int) {
		if done%progressEvery == 0 || done == total {
			s.progress.Publish(Progress{FileID: id, Stage: StageExtracting, Done: done, Total: total})
		}
	})
	if err != nil {
		s.fail(id, err)
		return nil, err
	}

	s.progress.Publish(Progress{FileID: id, Stage: StageAnalyzing, Done: len(rec.Frames), Total: len(rec.Frames)})
	report, err := s.config.Analyzer.AnalyzeRecording(rec)
	if err != nil {
		s.fail(id, err)
		return nil, err
	}

	s.progress.Publish(Progress{FileID: id, Stage: StageDone, Done: len(rec.Frames), Total: len(rec.Frames)})
	s.log.Info("analysis completed for file_id: %s", id)
	return &Result{FileID: id, Report: report}, nil
}

// Recommend returns the exercises for findings from the live catalog.
func (s *Service) Recommend(findings []gait.Finding) []gait.Exercise {
	return gait.Recommend(findings, s.config.Catalog)
}

// SweepStale removes uploads that were never analyzed and are older than
// maxAge. It returns the number removed.
func (s *Service) SweepStale(maxAge time.Duration) (int, error) {
	uploads := s.config.Store.Uploads()
	stale, err := uploads.ListPendingBefore(time.Now().Add(-maxAge))
	if err != nil {
		return 0, fmt.Errorf("list stale uploads: %w", err)
	}

	removed := 0
	for _, u := range stale {
		// An analysis may have claimed the upload since it was listed.
		if err := uploads.DeletePending(u.ID); err != nil {
			if !errors.Is(err, store.ErrBusy) && !errors.Is(err, store.ErrNotFound) {
				s.log.Warn("failed to delete upload record %s: %v", u.ID, err)
			}
			continue
		}
		s.removeFile(u.Path)
		removed++
	}
	if removed > 0 {
		s.log.Info("swept %d stale uploads", removed)
	}
	return removed, nil
}

// StartSweeper runs SweepStale on schedule, a cron spec such as
// "@every 10m", until Stop is called.
func (s *Service) StartSweeper(schedule string, maxAge time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil {
		return nil
	}

	c := cron.New()
	err := c.AddFunc(schedule, func() {
		if _, err := s.SweepStale(maxAge); err != nil {
			s.log.Error("sweep stale uploads: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("schedule sweeper %q: %w", schedule, err)
	}

	c.Start()
	s.cron = c
	s.log.Info("upload sweeper scheduled %s, max age %s", schedule, maxAge)
	return nil
}

// Stop halts the sweeper.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil {
		s.cron.Stop()
		s.cron = nil
	}
}

// discard deletes the upload's file and row.
func (s *Service) discard(u *store.Upload) {
	s.removeFile(u.Path)
	if err := s.config.Store.Uploads().Delete(u.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
		s.log.Warn("failed to delete upload record %s: %v", u.ID, err)
	}
}

func (s *Service) removeFile(path string) {
	if err := os.Remove(path); err == nil {
		s.log.Info("file deleted: %s", path)
	} else if !os.IsNotExist(err) {
		s.log.Warn("failed to delete file %s: %v", path, err)
	}
}

func (s *Service) fail(id string, err error) {
	s.log.Error("analysis failed for file_id %s: %v", id, err)
	s.progress.Publish(Progress{FileID: id, Stage: StageFailed, Error: err.Error()})
}

func supported(ext string) bool {
	for _, e := range SupportedExtensions {
		if ext == e {
			return true
		}
	}
	return false
}
