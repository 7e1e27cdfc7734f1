package video

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/Shashikr2605/StrideSense/internal/capture"
	"github.com/Shashikr2605/StrideSense/internal/logging"
	"github.com/Shashikr2605/StrideSense/internal/pose"
)

// ProgressFunc is called after each processed frame. total is the frame
// count reported by the container and may be 0 when unknown.
type ProgressFunc func(done, total int)

// Extractor reads a video file frame by frame and collects pose keypoints.
// Extractions share the detector and therefore run one at a time; each
// starts a fresh tracking session when the detector is a pose.Resetter.
type Extractor struct {
	open     capture.Opener
	detector pose.Detector
	limits   Limits
	log      *logging.Logger
	session  chan struct{}
}

// NewExtractor creates an Extractor. A nil open uses capture.NewVideoFile.
func NewExtractor(open capture.Opener, detector pose.Detector, limits Limits, log *logging.Logger) *Extractor {
	if open == nil {
		open = capture.NewVideoFile
	}
	if log == nil {
		log = logging.Discard()
	}
	return &Extractor{
		open:     open,
		detector: detector,
		limits:   limits,
		log:      log,
		session:  make(chan struct{}, 1),
	}
}

// Limits returns the limits the extractor enforces.
func (e *Extractor) Limits() Limits {
	return e.limits
}

// Extract validates the video at path and runs pose detection on every
// frame. Frames without a person become pose.NotDetected. A detector error
// aborts the extraction, as does ctx.
func (e *Extractor) Extract(ctx context.Context, path string, progress ProgressFunc) (pose.Recording, error) {
	if e.limits.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.limits.Timeout)
		defer cancel()
	}

	select {
	case e.session <- struct{}{}:
		defer func() { <-e.session }()
	case <-ctx.Done():
		return pose.Recording{}, fmt.Errorf("extract %s: %w", path, ctx.Err())
	}

	if r, ok := e.detector.(pose.Resetter); ok {
		if err := r.Reset(); err != nil {
			return pose.Recording{}, fmt.Errorf("reset detector: %w", err)
		}
	}

	src := e.open(path)
	if err := src.Open(); err != nil {
		return pose.Recording{}, err
	}
	defer src.Close()

	fps := src.FPS()
	total := src.FrameCount()
	e.log.Info("video %s: %.2f fps, %d frames", path, fps, total)

	if total > 0 {
		if err := e.limits.Check(fps, total); err != nil {
			return pose.Recording{}, err
		}
	} else if fps < e.limits.MinFPS {
		return pose.Recording{}, e.limits.Check(fps, 0)
	}

	maxFrames := e.limits.FrameCap(fps)
	seq := make(pose.Sequence, 0, total)
	for {
		if err := ctx.Err(); err != nil {
			return pose.Recording{}, fmt.Errorf("extract %s: %w", path, err)
		}

		frame, err := src.ReadFrame()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return pose.Recording{}, fmt.Errorf("read frame %d: %w", len(seq), err)
		}

		if maxFrames > 0 && len(seq) >= maxFrames {
			frame.Close()
			return pose.Recording{}, fmt.Errorf("%w: more than %d frames", ErrTooManyFrames, maxFrames)
		}

		f, err := e.detector.Detect(frame)
		frame.Close()
		if err != nil {
			return pose.Recording{}, fmt.Errorf("detect frame %d: %w", len(seq), err)
		}
		seq = append(seq, f)

		if progress != nil {
			progress(len(seq), total)
		}
	}

	// Containers without a frame count are checked on what was read.
	if total <= 0 {
		if err := e.limits.Check(fps, len(seq)); err != nil {
			return pose.Recording{}, err
		}
	}

	detected := seq.DetectedCount()
	if detected == 0 {
		return pose.Recording{}, ErrNoLandmarks
	}
	e.log.Info("video %s: pose detected in %d of %d frames", path, detected, len(seq))

	return pose.Recording{FPS: fps, Frames: seq}, nil
}
