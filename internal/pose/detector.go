package pose

import (
	"time"

	"gocv.io/x/gocv"
)

// Detector defines the interface for pose detection implementations.
type Detector interface {
	// Detect analyzes a video frame and returns the detected body keypoints.
	// A frame without a person yields NotDetected and a nil error.
	Detect(frame *gocv.Mat) (Frame, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Resetter is implemented by detectors that track a person across frames.
// Reset drops the tracking state so the next frame starts a new video.
type Resetter interface {
	Reset() error
}

// Config holds configuration options for pose detection.
type Config struct {
	// MinDetectionConfidence is the minimum person detection confidence (0.0-1.0).
	MinDetectionConfidence float64

	// MinTrackingConfidence is the minimum landmark tracking confidence (0.0-1.0).
	MinTrackingConfidence float64

	// Python is the interpreter used to run Script. Empty means a project
	// virtualenv if one is found, otherwise python3.
	Python string

	// Script is the path to pose_service.py. Empty means search the usual
	// locations.
	Script string

	// IdleTimeout stops the helper process after this long without a frame.
	IdleTimeout time.Duration
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		MinDetectionConfidence: 0.7,
		MinTrackingConfidence:  0.7,
		IdleTimeout:            30 * time.Second,
	}
}
