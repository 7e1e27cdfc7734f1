// Package config loads the StrideSense service configuration from a YAML
// file with environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Shashikr2605/StrideSense/internal/logging"
	"github.com/Shashikr2605/StrideSense/internal/pose"
	"github.com/Shashikr2605/StrideSense/internal/video"
)

// Environment variables that override file settings.
const (
	EnvAddr      = "STRIDESENSE_ADDR"
	EnvDataDir   = "STRIDESENSE_DATA_DIR"
	EnvLogLevel  = "STRIDESENSE_LOG_LEVEL"
	EnvExercises = "STRIDESENSE_EXERCISES"
	EnvLayout    = "STRIDESENSE_LAYOUT"
)

type ServerConfig struct {
	Addr        string `yaml:"addr"`
	StaticDir   string `yaml:"static_dir"`
	MaxUploadMB int64  `yaml:"max_upload_mb"`
	CORSOrigin  string `yaml:"cors_origin"`
}

type StorageConfig struct {
	DataDir       string        `yaml:"data_dir"`
	DBFile        string        `yaml:"db_file"`
	UploadDir     string        `yaml:"upload_dir"`
	SweepSchedule string        `yaml:"sweep_schedule"`
	MaxUploadAge  time.Duration `yaml:"max_upload_age"`
}

type VideoConfig struct {
	MinFPS      float64       `yaml:"min_fps"`
	MinDuration time.Duration `yaml:"min_duration"`
	MaxDuration time.Duration `yaml:"max_duration"`
	MaxFrames   int           `yaml:"max_frames"`
	Timeout     time.Duration `yaml:"timeout"`
}

type DetectorConfig struct {
	Python                 string        `yaml:"python"`
	Script                 string        `yaml:"script"`
	MinDetectionConfidence float64       `yaml:"min_detection_confidence"`
	MinTrackingConfidence  float64       `yaml:"min_tracking_confidence"`
	IdleTimeout            time.Duration `yaml:"idle_timeout"`
}

type AnalysisConfig struct {
	// Layout is "blazepose" for the 33 points the MediaPipe helper
	// sends, or "contract" for extended 34-point recordings.
	Layout string `yaml:"layout"`
}

type ExercisesConfig struct {
	// File is a YAML exercise database. Empty uses the built-in one.
	File  string `yaml:"file"`
	Watch bool   `yaml:"watch"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Config is the top-level structure of stridesense.yaml.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	Video     VideoConfig     `yaml:"video"`
	Detector  DetectorConfig  `yaml:"detector"`
	Analysis  AnalysisConfig  `yaml:"analysis"`
	Exercises ExercisesConfig `yaml:"exercises"`
	Log       LogConfig       `yaml:"log"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	dataDir := ".stridesense"
	if home, err := os.UserHomeDir(); err == nil {
		dataDir = filepath.Join(home, ".stridesense")
	}

	limits := video.DefaultLimits()
	det := pose.DefaultConfig()

	return &Config{
		Server: ServerConfig{
			Addr:        ":5000",
			MaxUploadMB: 200,
			CORSOrigin:  "*",
		},
		Storage: StorageConfig{
			DataDir:       dataDir,
			DBFile:        "stridesense.db",
			UploadDir:     "uploads",
			SweepSchedule: "@every 10m",
			MaxUploadAge:  time.Hour,
		},
		Video: VideoConfig{
			MinFPS:      limits.MinFPS,
			MinDuration: limits.MinDuration,
			MaxDuration: limits.MaxDuration,
			MaxFrames:   limits.MaxFrames,
			Timeout:     limits.Timeout,
		},
		Detector: DetectorConfig{
			MinDetectionConfidence: det.MinDetectionConfidence,
			MinTrackingConfidence:  det.MinTrackingConfidence,
			IdleTimeout:            det.IdleTimeout,
		},
		Analysis: AnalysisConfig{Layout: pose.LayoutBlazePose},
		Log:      LogConfig{Level: "info"},
	}
}

// Load reads the file at path over the defaults, applies environment
// overrides and validates the result. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()
	cfg.Storage.DataDir = expandHome(cfg.Storage.DataDir)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Server.Addr = getEnv(EnvAddr, c.Server.Addr)
	c.Storage.DataDir = getEnv(EnvDataDir, c.Storage.DataDir)
	c.Log.Level = getEnv(EnvLogLevel, c.Log.Level)
	c.Exercises.File = getEnv(EnvExercises, c.Exercises.File)
	c.Analysis.Layout = getEnv(EnvLayout, c.Analysis.Layout)
}

// expandHome replaces a leading "~" with the user's home directory.
func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// Validate rejects settings the service cannot run with.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}
	if c.Server.MaxUploadMB <= 0 {
		errs = append(errs, errors.New("server.max_upload_mb must be positive"))
	}
	if c.Storage.DataDir == "" {
		errs = append(errs, errors.New("storage.data_dir is required"))
	}
	if c.Storage.DBFile == "" {
		errs = append(errs, errors.New("storage.db_file is required"))
	}
	if c.Video.MinFPS <= 0 {
		errs = append(errs, errors.New("video.min_fps must be positive"))
	}
	if c.Video.MinDuration < 0 || c.Video.MaxDuration <= c.Video.MinDuration {
		errs = append(errs, fmt.Errorf("video duration bounds [%s, %s] are inconsistent", c.Video.MinDuration, c.Video.MaxDuration))
	}
	if c.Video.MaxFrames < 0 {
		errs = append(errs, errors.New("video.max_frames must not be negative"))
	}
	if !unit(c.Detector.MinDetectionConfidence) || !unit(c.Detector.MinTrackingConfidence) {
		errs = append(errs, errors.New("detector confidences must be within [0, 1]"))
	}
	if _, err := pose.LayoutByName(c.Analysis.Layout); err != nil {
		errs = append(errs, err)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

func unit(v float64) bool {
	return v >= 0 && v <= 1
}

// DBPath returns the database file path.
func (c *Config) DBPath() string {
	return c.inDataDir(c.Storage.DBFile)
}

// UploadPath returns the directory that holds uploaded videos.
func (c *Config) UploadPath() string {
	return c.inDataDir(c.Storage.UploadDir)
}

func (c *Config) inDataDir(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Storage.DataDir, p)
}

// VideoLimits returns the video section as extraction limits.
func (c *Config) VideoLimits() video.Limits {
	return video.Limits{
		MinFPS:      c.Video.MinFPS,
		MinDuration: c.Video.MinDuration,
		MaxDuration: c.Video.MaxDuration,
		MaxFrames:   c.Video.MaxFrames,
		Timeout:     c.Video.Timeout,
	}
}

// PoseConfig returns the detector section as a pose detector config.
func (c *Config) PoseConfig() pose.Config {
	return pose.Config{
		MinDetectionConfidence: c.Detector.MinDetectionConfidence,
		MinTrackingConfidence:  c.Detector.MinTrackingConfidence,
		Python:                 c.Detector.Python,
		Script:                 c.Detector.Script,
		IdleTimeout:            c.Detector.IdleTimeout,
	}
}

// Layout returns the configured keypoint layout.
func (c *Config) Layout() pose.Layout {
	l, err := pose.LayoutByName(c.Analysis.Layout)
	if err != nil {
		return pose.ContractLayout()
	}
	return l
}

// LogLevel returns the configured log level, INFO if it does not parse.
func (c *Config) LogLevel() logging.Level {
	lvl, err := logging.ParseLevel(c.Log.Level)
	if err != nil {
		return logging.INFO
	}
	return lvl
}

// MaxUploadBytes returns the upload size limit in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return c.Server.MaxUploadMB << 20
}

// String summarizes the settings worth logging at startup.
func (c *Config) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "addr=%s data=%s layout=%s", c.Server.Addr, c.Storage.DataDir, c.Analysis.Layout)
	if c.Exercises.File != "" {
		fmt.Fprintf(&b, " exercises=%s watch=%t", c.Exercises.File, c.Exercises.Watch)
	}
	return b.String()
}
