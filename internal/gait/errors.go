package gait

import (
	"errors"
	"fmt"
)

// Sequence-level failures. Each stops the analysis; per-cycle and per-point
// problems are logged instead and never surface as errors.
var (
	// ErrInsufficientData means no keypoint index had enough valid samples
	// to reconstruct a trajectory.
	ErrInsufficientData = errors.New("insufficient landmark data")

	// ErrNoEventsDetected means the heel-strike detector found no events.
	ErrNoEventsDetected = errors.New("no heel strikes detected")

	// ErrNoCycles means fewer than two heel strikes were found, so no gait
	// cycle could be segmented.
	ErrNoCycles = errors.New("no gait cycles")

	// ErrEmptyMetrics means no cycle produced a usable step length.
	ErrEmptyMetrics = errors.New("no usable step lengths")
)

// Stage identifies a step of the analysis pipeline.
type Stage string

const (
	StageReconstruction Stage = "landmark reconstruction"
	StageEvents         Stage = "heel-strike detection"
	StageCycles         Stage = "cycle segmentation"
	StageMetrics        Stage = "metric extraction"
)

// StageError records which stage of an analysis failed.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// IsAnalysisError reports whether err is one of the sequence-level analysis
// failures.
func IsAnalysisError(err error) bool {
	return errors.Is(err, ErrInsufficientData) ||
		errors.Is(err, ErrNoEventsDetected) ||
		errors.Is(err, ErrNoCycles) ||
		errors.Is(err, ErrEmptyMetrics)
}
