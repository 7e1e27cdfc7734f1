// Package video turns a recorded walking video into a pose.Recording: it
// validates the stream, runs the pose detector on every frame and reports
// progress as it goes.
package video

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Validation errors. They describe a video the pipeline refuses to analyze,
// as opposed to a failure while analyzing it.
var (
	ErrLowFrameRate  = errors.New("frame rate too low")
	ErrDuration      = errors.New("video duration out of range")
	ErrTooManyFrames = errors.New("video has too many frames")
	ErrNoLandmarks   = errors.New("no valid pose landmarks detected in video")
)

// IsValidation reports whether err is one of the validation errors.
func IsValidation(err error) bool {
	return errors.Is(err, ErrLowFrameRate) ||
		errors.Is(err, ErrDuration) ||
		errors.Is(err, ErrTooManyFrames) ||
		errors.Is(err, ErrNoLandmarks)
}

// Limits bound the videos accepted for analysis.
type Limits struct {
	MinFPS      float64
	MinDuration time.Duration
	MaxDuration time.Duration
	// MaxFrames caps the frames read from one video. Zero derives the cap
	// from MaxDuration at the stream's frame rate, see FrameCap.
	MaxFrames int
	// Timeout bounds a whole extraction. Zero means no limit.
	Timeout time.Duration
}

// DefaultLimits returns the limits used by the service.
func DefaultLimits() Limits {
	return Limits{
		MinFPS:      20,
		MinDuration: 15 * time.Second,
		MaxDuration: 120 * time.Second,
		Timeout:     10 * time.Minute,
	}
}

// Check validates a stream with the given frame rate and frame count.
func (l Limits) Check(fps float64, frames int) error {
	if fps < l.MinFPS {
		return fmt.Errorf("%w: %.1f fps, need at least %.0f", ErrLowFrameRate, fps, l.MinFPS)
	}
	if limit := l.FrameCap(fps); limit > 0 && frames > limit {
		return fmt.Errorf("%w: %d frames, limit %d", ErrTooManyFrames, frames, limit)
	}

	d := time.Duration(float64(frames) / fps * float64(time.Second))
	if d < l.MinDuration || d > l.MaxDuration {
		return fmt.Errorf("%w: %.1fs, need %s to %s", ErrDuration, d.Seconds(), l.MinDuration, l.MaxDuration)
	}
	return nil
}

// FrameCap returns the most frames read from a stream at fps. Without an
// explicit MaxFrames it is MaxDuration worth of frames plus one second, so
// any clip within the duration bounds fits. Zero means no cap.
func (l Limits) FrameCap(fps float64) int {
	if l.MaxFrames > 0 {
		return l.MaxFrames
	}
	if fps <= 0 || l.MaxDuration <= 0 {
		return 0
	}
	return int(math.Ceil((l.MaxDuration.Seconds() + 1) * fps))
}
