package gait

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/interp"

	"github.com/Shashikr2605/StrideSense/internal/pose"
)

// SmoothingSigma is the standard deviation, in frames, of the Gaussian
// applied to reconstructed trajectories.
const SmoothingSigma = 1.0

// Landmarks is a cleaned landmark sequence: for every kept keypoint index,
// one gap-free smoothed keypoint per frame. Indices with fewer than two
// valid observations are absent. Landmarks is read-only once built.
type Landmarks struct {
	fps    float64
	frames int
	tracks map[int][]pose.Keypoint
}

// FPS returns the frame rate of the source sequence.
func (l *Landmarks) FPS() float64 { return l.fps }

// Len returns the number of frames.
func (l *Landmarks) Len() int { return l.frames }

// Indices returns the kept keypoint indices in ascending order.
func (l *Landmarks) Indices() []int {
	idx := make([]int, 0, len(l.tracks))
	for i := range l.tracks {
		idx = append(idx, i)
	}
	sort.Ints(idx)
	return idx
}

// Has reports whether keypoint index idx was kept.
func (l *Landmarks) Has(idx int) bool {
	_, ok := l.tracks[idx]
	return ok
}

// Track returns a copy of the trajectory of keypoint index idx.
func (l *Landmarks) Track(idx int) ([]pose.Keypoint, bool) {
	t, ok := l.tracks[idx]
	if !ok {
		return nil, false
	}
	cp := make([]pose.Keypoint, len(t))
	copy(cp, t)
	return cp, true
}

// At returns keypoint idx at frame, or false when the index was dropped or
// frame is out of range.
func (l *Landmarks) At(frame, idx int) (pose.Keypoint, bool) {
	t, ok := l.tracks[idx]
	if !ok || frame < 0 || frame >= len(t) {
		return pose.Keypoint{}, false
	}
	return t[frame], true
}

// Slice returns frames [start, end) as a new Landmarks with the same index
// set. The result shares storage with l.
func (l *Landmarks) Slice(start, end int) *Landmarks {
	if start < 0 {
		start = 0
	}
	if end > l.frames {
		end = l.frames
	}
	if end < start {
		end = start
	}
	out := &Landmarks{fps: l.fps, frames: end - start, tracks: make(map[int][]pose.Keypoint, len(l.tracks))}
	for idx, t := range l.tracks {
		out.tracks[idx] = t[start:end:end]
	}
	return out
}

// Reconstruct gap-fills and smooths every keypoint index of seq.
//
// For each index, frames without a detection, frames too short to hold the
// index and frames with a non-finite coordinate count as missing. Missing
// positions are filled by clamped linear interpolation between the nearest
// valid samples, then x, y and z are smoothed with a Gaussian of
// SmoothingSigma frames. Visibility is kept as observed and is 0 where the
// sample was missing.
func Reconstruct(seq pose.Sequence, fps float64, log Logger) (*Landmarks, error) {
	log = orNop(log)

	n := len(seq)
	if n == 0 {
		return nil, fmt.Errorf("%w: empty landmark sequence", ErrInsufficientData)
	}

	width := 0
	for _, f := range seq {
		if kps, ok := f.Keypoints(); ok && len(kps) > width {
			width = len(kps)
		}
	}

	kernel := gaussianKernel(SmoothingSigma, kernelTruncate)
	lm := &Landmarks{fps: fps, frames: n, tracks: make(map[int][]pose.Keypoint)}

	for idx := 0; idx < width; idx++ {
		xs := make([]float64, n)
		ys := make([]float64, n)
		zs := make([]float64, n)
		vis := make([]float64, n)
		var valid []int

		for i, f := range seq {
			kps, ok := f.Keypoints()
			if !ok || idx >= len(kps) || !kps[idx].Finite() {
				xs[i], ys[i], zs[i] = math.NaN(), math.NaN(), math.NaN()
				continue
			}
			kp := kps[idx]
			xs[i], ys[i], zs[i] = kp.X, kp.Y, kp.Z
			if !math.IsNaN(kp.Visibility) && !math.IsInf(kp.Visibility, 0) {
				vis[i] = kp.Visibility
			}
			valid = append(valid, i)
		}

		switch len(valid) {
		case 0:
			log.Error("keypoint %d: no valid samples in %d frames, dropped", idx, n)
			continue
		case 1:
			log.Warn("keypoint %d: only one valid sample (frame %d), dropped", idx, valid[0])
			continue
		}

		var err error
		if xs, err = fillGaps(xs, valid); err != nil {
			return nil, fmt.Errorf("keypoint %d: %w", idx, err)
		}
		if ys, err = fillGaps(ys, valid); err != nil {
			return nil, fmt.Errorf("keypoint %d: %w", idx, err)
		}
		if zs, err = fillGaps(zs, valid); err != nil {
			return nil, fmt.Errorf("keypoint %d: %w", idx, err)
		}

		xs = smooth(xs, kernel)
		ys = smooth(ys, kernel)
		zs = smooth(zs, kernel)

		track := make([]pose.Keypoint, n)
		for i := range track {
			track[i] = pose.Keypoint{X: xs[i], Y: ys[i], Z: zs[i], Visibility: vis[i]}
		}
		lm.tracks[idx] = track

		if missing := n - len(valid); missing > 0 {
			log.Debug("keypoint %d: interpolated %d of %d frames", idx, missing, n)
		}
	}

	if len(lm.tracks) == 0 {
		return nil, fmt.Errorf("%w: no keypoint had two valid samples in %d frames", ErrInsufficientData, n)
	}
	return lm, nil
}

// fillGaps replaces NaN entries of values by linear interpolation over the
// frames in valid. Entries before the first or after the last valid frame
// take the nearest valid value.
func fillGaps(values []float64, valid []int) ([]float64, error) {
	xs := make([]float64, len(valid))
	ys := make([]float64, len(valid))
	for i, frame := range valid {
		xs[i] = float64(frame)
		ys[i] = values[frame]
	}

	var pl interp.PiecewiseLinear
	if err := pl.Fit(xs, ys); err != nil {
		return nil, fmt.Errorf("interpolate: %w", err)
	}

	out := make([]float64, len(values))
	for i, v := range values {
		if math.IsNaN(v) {
			out[i] = pl.Predict(float64(i))
			continue
		}
		out[i] = v
	}
	return out, nil
}
